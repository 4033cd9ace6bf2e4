package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/load"
	"github.com/jsphweid/yargchart/song"
	"github.com/jsphweid/yargchart/util"
)

var logger = log.New(os.Stdout, "[yargchart] ", log.LstdFlags)

var rootCmd = &cobra.Command{
	Use:   "yargchart",
	Short: "Reads .chart and MIDI rhythm game charts",
	Long: `Reads .chart and MIDI rhythm game charts into per-instrument note
timelines. Loader settings come from CHART_* environment variables or a .env
file.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// LoadSong loads the chart at path, a chart file or a song folder, with the
// song.ini next to it.
func LoadSong(path string, settings config.LoaderSettings) (*song.Chart, error) {
	data, values, err := util.ReadChart(path)
	if err != nil {
		return nil, err
	}
	return load.Load(data, settings, config.ParseIni(values, settings.Log()))
}

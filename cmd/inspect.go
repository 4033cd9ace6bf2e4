package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/load"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/util"
)

var (
	dumpEvents bool
	asJSON     bool
)

func init() {
	inspectCmd.Flags().BoolVar(&dumpEvents, "dump", false, "also list the raw MIDI events")
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chart file or song folder>",
	Short: "Loads a chart and prints what it contains",
	Long:  `Loads a chart and prints what it contains`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	settings := config.FromEnv(logger)
	data, values, err := util.ReadChart(path)
	if err != nil {
		return err
	}
	chart, err := load.Load(data, settings, config.ParseIni(values, settings.Log()))
	if err != nil {
		return err
	}
	defer chart.Dispose()

	res := NewLoadResponse("", load.DetectFormat(data), chart)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Printf("%s - %s (%s, resolution %d)\n", res.Artist, res.Name, res.Format, res.Resolution)
	fmt.Printf("ends at %s\n", chart.EndTime())
	for _, key := range util.GetKeys(values) {
		fmt.Printf("ini %s = %s\n", key, values[key])
	}
	notes := make([]int, 0, len(res.Tracks))
	for _, t := range res.Tracks {
		fmt.Printf("%-20s %-8s %6d notes %4d phrases\n", t.Instrument, t.Difficulty, t.Notes, t.Phrases)
		notes = append(notes, t.Notes)
	}
	fmt.Printf("%d notes in %d tracks, %d sections\n", util.Sum(notes), len(res.Tracks), len(res.Sections))

	if dumpEvents && res.Format == model.MidiFormat.String() {
		return dump(data)
	}
	return nil
}

// dump lists the raw events through gomidi's reader, for comparing against
// what the loaders made of them.
func dump(data []byte) error {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return err
	}
	for i, track := range s.Tracks {
		fmt.Printf("track %d\n", i)
		var ticks int64
		for _, ev := range track {
			ticks += int64(ev.Delta)
			fmt.Printf("  %8d %s\n", ticks, ev.Message)
		}
	}
	return nil
}

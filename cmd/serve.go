package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/constants"
	"github.com/jsphweid/yargchart/load"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/song"
)

// settings used by the handlers; filled in by serve
var serveSettings = config.DefaultSettings()

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves chart loading over HTTP",
	Long: `Serves chart loading over HTTP. POST a chart file to /load; song.ini
values can be passed as query parameters (e.g. /load?pro_drums=true).`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func NewLoadResponse(id string, format model.Format, chart *song.Chart) model.LoadResponse {
	end := chart.EndTime()
	res := model.LoadResponse{
		ID:         id,
		Format:     format.String(),
		Name:       chart.Metadata.Name,
		Artist:     chart.Metadata.Artist,
		Resolution: chart.Resolution,
		EndTicks:   end.Ticks,
		EndSeconds: end.Seconds,
		Sections:   make([]string, 0, chart.Sections.Len()),
		Tracks:     chart.Summary(),
	}
	if chart.DrumsType != song.UnknownDrums {
		res.Drums = chart.DrumsType.String()
	}
	for _, e := range chart.Sections.Entries() {
		res.Sections = append(res.Sections, e.Value)
	}
	return res
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func HandleLoad(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxChartSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Could not read chart: "+err.Error())
		return
	}

	values := make(map[string]string)
	for key, v := range r.URL.Query() {
		if len(v) > 0 {
			values[strings.ToLower(key)] = v[0]
		}
	}
	chart, err := load.Load(data, serveSettings, config.ParseIni(values, serveSettings.Log()))
	if err != nil {
		var loadErr *load.Error
		if errors.As(err, &loadErr) {
			logger.Printf("load %s failed: %v", id, err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer chart.Dispose()

	logger.Printf("load %s: %d bytes, ends at %s", id, len(data), chart.EndTime())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewLoadResponse(id, load.DetectFormat(data), chart))
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/load", HandleLoad).Methods("POST")
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() {
	serveSettings = config.FromEnv(logger)
	addr := constants.GetListenAddr()
	logger.Printf("Listening on %s", addr)
	logger.Fatal(http.ListenAndServe(addr, NewRouter()))
}

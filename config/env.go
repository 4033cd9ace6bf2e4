package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jsphweid/yargchart/model"
)

// FromEnv builds settings for the command line tools from the environment,
// reading a .env file first when one exists:
//
//	CHART_HOPO_THRESHOLD, CHART_SUSTAIN_CUTOFF  ticks, -1 derives
//	CHART_OVERDRIVE_NOTE                       116 or 103
//	CHART_INSTRUMENTS                          comma separated names
//	CHART_GUITAR_MODIFIER                      e.g. AllTaps
func FromEnv(logger *log.Logger) LoaderSettings {
	_ = godotenv.Load()

	s := DefaultSettings()
	s.Logger = logger
	s.HopoThreshold = parseIntOrDefault(os.Getenv("CHART_HOPO_THRESHOLD"), Derive, s.Log())
	s.SustainCutoffThreshold = parseIntOrDefault(os.Getenv("CHART_SUSTAIN_CUTOFF"), Derive, s.Log())
	s.OverdriveMidiNote = uint8(parseIntOrDefault(os.Getenv("CHART_OVERDRIVE_NOTE"), OverdriveNote, s.Log()))

	if names := os.Getenv("CHART_INSTRUMENTS"); names != "" {
		var active []model.Instrument
		for _, name := range strings.Split(names, ",") {
			inst, ok := model.ParseInstrument(strings.TrimSpace(name))
			if !ok {
				s.Log().Printf("Warning: unknown instrument %q in CHART_INSTRUMENTS", name)
				continue
			}
			active = append(active, inst)
		}
		s.ActiveInstruments = model.NewInstrumentSet(active...)
	}
	if name := os.Getenv("CHART_GUITAR_MODIFIER"); name != "" {
		if mod, ok := model.ParseGuitarModifier(name); ok {
			s.GuitarModifier = mod
		} else {
			s.Log().Printf("Warning: unknown guitar modifier %q", name)
		}
	}
	return s
}

func parseIntOrDefault(s string, defaultValue int64, logger *log.Logger) int64 {
	if s == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		logger.Printf("Warning: Could not parse '%s', using default '%d'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return n
}

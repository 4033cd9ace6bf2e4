package config

import (
	"log"
	"strconv"
	"strings"
)

// Flag is a song.ini boolean that may be missing.
type Flag uint8

const (
	Unset Flag = iota
	Off
	On
)

// IniModifiers are the song.ini keys that change how a chart is read.
// Numeric fields are -1 when absent.
type IniModifiers struct {
	FiveLaneDrums  Flag
	ProDrums       Flag
	HopoFrequency  int64
	EighthNoteHopo Flag
	HopoFreq       int64
	SustainCutoff  int64
	MultiplierNote int64
}

func NoIniModifiers() IniModifiers {
	return IniModifiers{HopoFrequency: -1, HopoFreq: -1, SustainCutoff: -1, MultiplierNote: -1}
}

// ParseIni reads the modifiers out of the key/value pairs an ini parser
// produced. Keys are case insensitive; unparsable values are logged and
// ignored.
func ParseIni(values map[string]string, logger *log.Logger) IniModifiers {
	if logger == nil {
		logger = log.Default()
	}
	mods := NoIniModifiers()
	for key, raw := range values {
		value := strings.TrimSpace(raw)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "five_lane_drums":
			mods.FiveLaneDrums = parseFlag(value, key, logger)
		case "pro_drums":
			mods.ProDrums = parseFlag(value, key, logger)
		case "eighthnote_hopo":
			mods.EighthNoteHopo = parseFlag(value, key, logger)
		case "hopo_frequency":
			mods.HopoFrequency = parseTicks(value, key, logger)
		case "hopofreq":
			mods.HopoFreq = parseTicks(value, key, logger)
		case "sustain_cutoff_threshold":
			mods.SustainCutoff = parseTicks(value, key, logger)
		case "multiplier_note":
			mods.MultiplierNote = parseTicks(value, key, logger)
		}
	}
	return mods
}

func parseFlag(value, key string, logger *log.Logger) Flag {
	switch strings.ToLower(value) {
	case "true", "1":
		return On
	case "false", "0":
		return Off
	}
	logger.Printf("Warning: ini key %s has non boolean value %q", key, value)
	return Unset
}

func parseTicks(value, key string, logger *log.Logger) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		logger.Printf("Warning: ini key %s has invalid value %q", key, value)
		return -1
	}
	return n
}

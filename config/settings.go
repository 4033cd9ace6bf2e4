// Package config holds the knobs a chart load is run with: the caller's
// LoaderSettings, the song.ini overrides and the defaults derived from the
// chart's resolution.
package config

import (
	"log"

	"github.com/jsphweid/yargchart/model"
)

const (
	// Derive marks a threshold that is computed from the resolution.
	Derive = -1

	OverdriveNote       = 116
	LegacyOverdriveNote = 103
)

type LoaderSettings struct {
	// HopoThreshold and SustainCutoffThreshold are in ticks.
	HopoThreshold          int64
	SustainCutoffThreshold int64
	OverdriveMidiNote      uint8
	// ActiveInstruments limits which tracks get parsed. Empty means all.
	ActiveInstruments model.InstrumentSet
	GuitarModifier    model.GuitarModifier
	// Logger receives recoverable problems. nil means log.Default().
	Logger *log.Logger
}

func DefaultSettings() LoaderSettings {
	return LoaderSettings{
		HopoThreshold:          Derive,
		SustainCutoffThreshold: Derive,
		OverdriveMidiNote:      OverdriveNote,
	}
}

func (s LoaderSettings) Log() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// hopofreq values map to the note length (as a fraction of a whole note)
// below which notes become HOPOs.
var hopoFreqDenominators = map[int64]int64{0: 24, 1: 16, 2: 12, 3: 8, 4: 6, 5: 4}

// ResolveHopoThreshold picks, in order, the caller's threshold, the ini
// overrides and the format default (resolution/3, plus resolution/192 for
// .chart files).
func (s LoaderSettings) ResolveHopoThreshold(ini IniModifiers, resolution uint16, format model.Format) int64 {
	res := int64(resolution)
	switch {
	case s.HopoThreshold >= 0:
		return s.HopoThreshold
	case ini.HopoFrequency >= 0:
		return ini.HopoFrequency
	case ini.EighthNoteHopo == On:
		return res / 2
	}
	if denominator, ok := hopoFreqDenominators[ini.HopoFreq]; ok {
		return res * 4 / denominator
	}
	if format == model.ChartFormat {
		return res/3 + res/192
	}
	return res / 3
}

// ResolveSustainCutoff returns the length at or below which sustains are
// dropped. MIDI charts default to resolution/3, .chart files keep every
// sustain.
func (s LoaderSettings) ResolveSustainCutoff(ini IniModifiers, resolution uint16, format model.Format) int64 {
	switch {
	case s.SustainCutoffThreshold >= 0:
		return s.SustainCutoffThreshold
	case ini.SustainCutoff >= 0:
		return ini.SustainCutoff
	case format == model.MidiFormat:
		return int64(resolution) / 3
	}
	return 0
}

// ResolveOverdriveNote lets multiplier_note pick between the two known
// overdrive notes.
func (s LoaderSettings) ResolveOverdriveNote(ini IniModifiers) uint8 {
	if ini.MultiplierNote == LegacyOverdriveNote || ini.MultiplierNote == OverdriveNote {
		return uint8(ini.MultiplierNote)
	}
	if s.OverdriveMidiNote == 0 {
		return OverdriveNote
	}
	return s.OverdriveMidiNote
}

// Resolve returns a copy with every derived value filled in.
func (s LoaderSettings) Resolve(ini IniModifiers, resolution uint16, format model.Format) LoaderSettings {
	out := s
	out.HopoThreshold = s.ResolveHopoThreshold(ini, resolution, format)
	out.SustainCutoffThreshold = s.ResolveSustainCutoff(ini, resolution, format)
	out.OverdriveMidiNote = s.ResolveOverdriveNote(ini)
	return out
}

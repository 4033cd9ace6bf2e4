package config

import (
	"io"
	"log"
	"testing"

	"github.com/jsphweid/yargchart/model"
	"github.com/stretchr/testify/assert"
)

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestDefaultHopoThreshold(t *testing.T) {
	s := DefaultSettings()
	ini := NoIniModifiers()
	assert.Equal(t, int64(64), s.ResolveHopoThreshold(ini, 192, model.MidiFormat))
	assert.Equal(t, int64(65), s.ResolveHopoThreshold(ini, 192, model.ChartFormat))
	assert.Equal(t, int64(160), s.ResolveHopoThreshold(ini, 480, model.MidiFormat))
}

func TestHopoFreqTable(t *testing.T) {
	s := DefaultSettings()
	cases := map[string]int64{"0": 32, "1": 48, "2": 64, "3": 96, "4": 128, "5": 192, "9": 65}
	for value, want := range cases {
		t.Run(value, func(t *testing.T) {
			ini := ParseIni(map[string]string{"hopofreq": value}, quiet())
			assert.Equal(t, want, s.ResolveHopoThreshold(ini, 192, model.ChartFormat))
		})
	}
}

func TestHopoPrecedence(t *testing.T) {
	assert := assert.New(t)
	ini := ParseIni(map[string]string{
		"HOPO_Frequency":  "100",
		"eighthnote_hopo": "true",
		"hopofreq":        "0",
	}, quiet())

	s := DefaultSettings()
	assert.Equal(int64(100), s.ResolveHopoThreshold(ini, 480, model.MidiFormat))

	ini.HopoFrequency = -1
	assert.Equal(int64(240), s.ResolveHopoThreshold(ini, 480, model.MidiFormat))

	s.HopoThreshold = 7
	assert.Equal(int64(7), s.ResolveHopoThreshold(ini, 480, model.MidiFormat))
}

func TestSustainCutoff(t *testing.T) {
	assert := assert.New(t)
	s := DefaultSettings()
	ini := NoIniModifiers()
	assert.Equal(int64(160), s.ResolveSustainCutoff(ini, 480, model.MidiFormat))
	assert.Equal(int64(0), s.ResolveSustainCutoff(ini, 480, model.ChartFormat))

	ini.SustainCutoff = 30
	assert.Equal(int64(30), s.ResolveSustainCutoff(ini, 480, model.MidiFormat))
}

func TestParseIni(t *testing.T) {
	assert := assert.New(t)
	ini := ParseIni(map[string]string{
		"five_lane_drums":          "True",
		"pro_drums":                "maybe",
		"multiplier_note":          "103",
		"sustain_cutoff_threshold": "-5",
		"name":                     "ignored",
	}, quiet())
	assert.Equal(On, ini.FiveLaneDrums)
	assert.Equal(Unset, ini.ProDrums)
	assert.Equal(int64(-1), ini.SustainCutoff)
	assert.Equal(uint8(LegacyOverdriveNote), DefaultSettings().ResolveOverdriveNote(ini))
	assert.Equal(uint8(OverdriveNote), DefaultSettings().ResolveOverdriveNote(NoIniModifiers()))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CHART_HOPO_THRESHOLD", "80")
	t.Setenv("CHART_SUSTAIN_CUTOFF", "abc")
	t.Setenv("CHART_INSTRUMENTS", "FiveFretGuitar, Vocals,Kazoo")
	t.Setenv("CHART_GUITAR_MODIFIER", "AllTaps")

	s := FromEnv(quiet())
	assert := assert.New(t)
	assert.Equal(int64(80), s.HopoThreshold)
	assert.Equal(int64(Derive), s.SustainCutoffThreshold)
	assert.True(s.ActiveInstruments.Has(model.Vocals))
	assert.False(s.ActiveInstruments.Has(model.ProKeys))
	assert.Equal(model.AllTaps, s.GuitarModifier)
}

package midiload

import (
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
)

type trackKind struct {
	// slot identifies the destination; two names sharing a slot are
	// duplicates of each other.
	slot string
	// instruments the track can produce. Empty means always loaded.
	instruments []model.Instrument
	load        func(l *loader, t *midi.Track) error
}

func fiveFretKind(slot string, inst model.Instrument) trackKind {
	return trackKind{slot, []model.Instrument{inst}, func(l *loader, t *midi.Track) error {
		return loadFiveFret(l, t, inst)
	}}
}

func sixFretKind(slot string, inst model.Instrument) trackKind {
	return trackKind{slot, []model.Instrument{inst}, func(l *loader, t *midi.Track) error {
		return loadSixFret(l, t, inst)
	}}
}

func proGuitarKind(slot string, inst model.Instrument) trackKind {
	return trackKind{slot, []model.Instrument{inst}, func(l *loader, t *midi.Track) error {
		return l.loadProGuitar(t, inst)
	}}
}

func proKeysKind(slot string, d model.Difficulty) trackKind {
	return trackKind{slot, []model.Instrument{model.ProKeys}, func(l *loader, t *midi.Track) error {
		return l.loadProKeys(t, d)
	}}
}

func vocalKind(slot string, inst model.Instrument, part int) trackKind {
	return trackKind{slot, []model.Instrument{inst}, func(l *loader, t *midi.Track) error {
		return l.loadVocals(t, part)
	}}
}

var trackKinds = map[string]trackKind{
	"PART GUITAR":      fiveFretKind("PART GUITAR", model.FiveFretGuitar),
	"T1 GEMS":          fiveFretKind("PART GUITAR", model.FiveFretGuitar),
	"PART BASS":        fiveFretKind("PART BASS", model.FiveFretBass),
	"PART RHYTHM":      fiveFretKind("PART RHYTHM", model.FiveFretRhythm),
	"PART GUITAR COOP": fiveFretKind("PART GUITAR COOP", model.FiveFretCoopGuitar),
	"PART KEYS":        fiveFretKind("PART KEYS", model.Keys),

	"PART GUITAR GHL":      sixFretKind("PART GUITAR GHL", model.SixFretGuitar),
	"PART BASS GHL":        sixFretKind("PART BASS GHL", model.SixFretBass),
	"PART RHYTHM GHL":      sixFretKind("PART RHYTHM GHL", model.SixFretRhythm),
	"PART GUITAR COOP GHL": sixFretKind("PART GUITAR COOP GHL", model.SixFretCoopGuitar),

	"PART DRUMS": {
		slot:        "PART DRUMS",
		instruments: []model.Instrument{model.FourLaneDrums, model.ProDrums, model.FiveLaneDrums},
		load:        (*loader).loadDrums,
	},

	"PART REAL_GUITAR":    proGuitarKind("PART REAL_GUITAR", model.ProGuitar17Fret),
	"PART REAL_GUITAR_22": proGuitarKind("PART REAL_GUITAR_22", model.ProGuitar22Fret),
	"PART REAL_BASS":      proGuitarKind("PART REAL_BASS", model.ProBass17Fret),
	"PART REAL_BASS_22":   proGuitarKind("PART REAL_BASS_22", model.ProBass22Fret),

	"PART REAL_KEYS_X": proKeysKind("PART REAL_KEYS_X", model.Expert),
	"PART REAL_KEYS_H": proKeysKind("PART REAL_KEYS_H", model.Hard),
	"PART REAL_KEYS_M": proKeysKind("PART REAL_KEYS_M", model.Medium),
	"PART REAL_KEYS_E": proKeysKind("PART REAL_KEYS_E", model.Easy),

	"PART VOCALS": vocalKind("PART VOCALS", model.Vocals, 0),
	"HARM1":       vocalKind("HARM1", model.Harmony, 1),
	"HARM2":       vocalKind("HARM2", model.Harmony, 2),
	"HARM3":       vocalKind("HARM3", model.Harmony, 3),

	"EVENTS": {slot: "EVENTS", load: (*loader).loadEvents},
	"VENUE":  {slot: "VENUE", load: (*loader).loadVenue},
	"BEAT":   {slot: "BEAT", load: (*loader).loadBeats},
}

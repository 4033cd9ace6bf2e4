package midiload

import (
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

var drumBases = [model.NumDifficulties]uint8{60, 72, 84, 96}

const (
	// expert+ second kick pedal, one below the expert kick
	doubleKickNote = 95
	// tom markers turn the yellow, blue and green cymbals into toms
	yellowTom = 110
	greenTom  = 112

	drumFillStart = 120
	drumRoll      = 126
	drumSwell     = 127

	accentVelocity = 127
	ghostVelocity  = 1
)

func drumPad(value uint8) (model.Difficulty, int, bool) {
	for d := model.Easy; d < model.NumDifficulties; d++ {
		if base := drumBases[d]; value >= base && value <= base+note.FifthPad {
			return d, int(value - base), true
		}
	}
	return 0, 0, false
}

// loadDrums fills the unknown drum track; the layout is settled once the
// whole file is read.
func (l *loader) loadDrums(t *midi.Track) error {
	track := l.chart.UnknownDrumTrack()
	phrases := l.instrumentPhrases()
	phrases[drumFillStart] = model.DrumFill
	phrases[drumRoll] = model.DrumRoll
	phrases[drumSwell] = model.DrumSpecialRoll
	tracker := song.NewPhraseTracker()

	var toms [note.NumFiveLanePads]bool
	dynamics := false

	return eachEvent(t, func(ev *midi.Event) error {
		if isText(ev) {
			text := string(ev.Payload)
			if trackFlag(text, chartDynamics) {
				dynamics = true
				return nil
			}
			song.AddEvent(track.Events, l.now(t), text)
			return nil
		}
		if l.phrase(ev, t, phrases, &tracker, track.Phrases) {
			return nil
		}
		if ev.Type != midi.NoteOn && ev.Type != midi.NoteOff {
			return nil
		}
		value, velocity := ev.Note()
		on := ev.IsNoteOn()

		if value >= yellowTom && value <= greenTom {
			toms[note.YellowPad+int(value-yellowTom)] = on
			if on {
				l.drums.ObserveCymbal()
			}
			return nil
		}
		if !on {
			return nil
		}

		d, pad, ok := drumPad(value)
		doubleKick := false
		if !ok {
			if value != doubleKickNote {
				return nil
			}
			d, pad, doubleKick = model.Expert, note.Kick, true
		}
		if pad == note.FifthPad {
			l.drums.ObserveFifthLane()
		}

		notes := track.GetOrCreate(d).Notes
		_, n := snapNote(notes, l.tracker, t.Position())
		n.Set(pad, model.DualTime{})
		if doubleKick {
			n.DoubleKick = true
		}
		if pad >= note.YellowPad && pad <= note.FourthPad && !toms[pad] {
			n.Cymbals |= 1 << pad
		}
		if dynamics && pad != note.Kick {
			switch velocity {
			case accentVelocity:
				n.SetDynamics(pad, note.Accent)
			case ghostVelocity:
				n.SetDynamics(pad, note.Ghost)
			}
		}
		return nil
	})
}

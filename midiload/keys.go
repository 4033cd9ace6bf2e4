package midiload

import (
	"fmt"

	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

const (
	proKeysSolo      = 115
	proKeysGlissando = 126
	proKeysTrill     = 127
)

// range shift notes, each naming the lowest key of the shown range
var rangeShifts = map[uint8]uint8{0: 48, 2: 50, 4: 52, 5: 53, 7: 55, 9: 57}

// loadProKeys reads one of the per difficulty PART REAL_KEYS tracks.
func (l *loader) loadProKeys(t *midi.Track, d model.Difficulty) error {
	track := l.chart.ProKeysTrack()
	diff := track.GetOrCreate(d)
	phrases := phraseNotes{
		l.settings.OverdriveMidiNote: model.Overdrive,
		proKeysSolo:                  model.Solo,
		proKeysGlissando:             model.Glissando,
		proKeysTrill:                 model.Trill,
	}
	tracker := song.NewPhraseTracker()
	open := make(map[uint8]model.DualTime, note.MaxKeys)

	return eachEvent(t, func(ev *midi.Event) error {
		if isText(ev) {
			song.AddEvent(diff.Events, l.now(t), string(ev.Payload))
			return nil
		}
		if l.phrase(ev, t, phrases, &tracker, diff.Phrases) {
			return nil
		}
		if ev.Type != midi.NoteOn && ev.Type != midi.NoteOff {
			return nil
		}
		value, _ := ev.Note()
		on := ev.IsNoteOn()

		if low, ok := rangeShifts[value]; ok {
			if on {
				pos := l.now(t)
				song.CommitPhrase(diff.Phrases, pos, model.DualTime{}, model.RangeShift)
				song.AddEvent(diff.Events, pos, fmt.Sprintf("range_shift %d", low))
			}
			return nil
		}
		if value < note.LowestKey || value > note.HighestKey {
			return nil
		}
		if !on {
			if start, ok := open[value]; ok {
				delete(open, value)
				if n, ok := noteAt(diff.Notes, start); ok {
					n.SetLength(value, l.until(start, t))
				}
			}
			return nil
		}
		pos, n := snapNote(diff.Notes, l.tracker, t.Position())
		if !n.Add(value, model.DualTime{}) {
			l.log.Printf("Warning: pro keys chord at tick %d has more than %d keys, dropping %d", pos.Ticks, note.MaxKeys, value)
			return nil
		}
		open[value] = pos
		return nil
	})
}

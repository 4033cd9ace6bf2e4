package midiload

import (
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

var proGuitarBases = [model.NumDifficulties]uint8{24, 48, 72, 96}

const (
	proHopo = note.NumProStrings + iota
	proSlide
	proArpeggio
	proEmphasis
)

const (
	fretVelocityOffset  = 100
	reverseSlideChannel = 11
	highEmphasisChannel = 13
	lowEmphasisChannel  = 15
	proGuitarSolo       = 115
	proGuitarTremolo    = 126
	proGuitarTrill      = 127
)

// proModifiers are the chord flags a held modifier note applies.
type proModifiers struct {
	hopo     bool
	slide    note.SlideType
	arpeggio bool
	emphasis note.Emphasis
}

func (m *proModifiers) apply(n *note.ProGuitar) {
	if m.hopo {
		n.Hopo = true
	}
	if m.slide != note.NoSlide {
		n.Slide = m.slide
	}
	if m.arpeggio {
		n.Arpeggio = true
	}
	if m.emphasis != note.NoEmphasis {
		n.Emphasis = m.emphasis
	}
}

func proGuitarLane(value uint8) (model.Difficulty, int, bool) {
	for d := model.Easy; d < model.NumDifficulties; d++ {
		if base := proGuitarBases[d]; value >= base && value <= base+proEmphasis {
			return d, int(value - base), true
		}
	}
	return 0, 0, false
}

func (l *loader) loadProGuitar(t *midi.Track, inst model.Instrument) error {
	maxFret := int8(17)
	if inst == model.ProGuitar22Fret || inst == model.ProBass22Fret {
		maxFret = 22
	}
	track := l.chart.ProGuitarTrack(inst)
	phrases := phraseNotes{
		l.settings.OverdriveMidiNote: model.Overdrive,
		proGuitarSolo:                model.Solo,
		proGuitarTremolo:             model.Tremolo,
		proGuitarTrill:               model.Trill,
	}
	tracker := song.NewPhraseTracker()

	var (
		held  [model.NumDifficulties]proModifiers
		lanes [model.NumDifficulties]openLanes
	)
	for i := range lanes {
		lanes[i] = newOpenLanes()
	}

	return eachEvent(t, func(ev *midi.Event) error {
		if isText(ev) {
			song.AddEvent(track.Events, l.now(t), string(ev.Payload))
			return nil
		}
		if l.phrase(ev, t, phrases, &tracker, track.Phrases) {
			return nil
		}
		if ev.Type != midi.NoteOn && ev.Type != midi.NoteOff {
			return nil
		}
		value, velocity := ev.Note()
		d, lane, ok := proGuitarLane(value)
		if !ok {
			return nil
		}
		on := ev.IsNoteOn()
		notes := track.GetOrCreate(d).Notes

		if lane >= note.NumProStrings {
			m := &held[d]
			switch lane {
			case proHopo:
				m.hopo = on
			case proSlide:
				m.slide = note.NoSlide
				if on {
					m.slide = note.Slide
					if ev.Channel == reverseSlideChannel {
						m.slide = note.ReverseSlide
					}
				}
			case proArpeggio:
				m.arpeggio = on
			case proEmphasis:
				m.emphasis = note.NoEmphasis
				if on && ev.Channel >= highEmphasisChannel && ev.Channel <= lowEmphasisChannel {
					m.emphasis = note.HighEmphasis + note.Emphasis(ev.Channel-highEmphasisChannel)
				}
			}
			if on {
				if n, ok := lastNear(notes, t.Position()); ok {
					m.apply(n)
				}
			}
			return nil
		}

		if !on {
			if start, open := lanes[d].close(lane); open {
				if n, ok := noteAt(notes, start); ok {
					n.SetLength(lane, l.until(start, t))
				}
			}
			return nil
		}

		fret := int8(int(velocity) - fretVelocityOffset)
		if int(velocity) < fretVelocityOffset || fret > maxFret {
			l.log.Printf("Warning: %s fret velocity %d out of range at tick %d", inst, velocity, t.Position())
			return nil
		}
		pos, n := snapNote(notes, l.tracker, t.Position())
		n.Set(lane, fret, maxFret, stringMode(ev.Channel), model.DualTime{})
		held[d].apply(n)
		lanes[d].open(lane, pos)
		return nil
	})
}

func stringMode(channel uint8) note.StringMode {
	if channel <= uint8(note.PinchHarmonics) {
		return note.StringMode(channel)
	}
	return note.NormalString
}

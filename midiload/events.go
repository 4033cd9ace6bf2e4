package midiload

import (
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/song"
)

const (
	beatMeasureNote = 12
	beatNote        = 13
)

func (l *loader) loadEvents(t *midi.Track) error {
	return eachEvent(t, func(ev *midi.Event) error {
		if !isText(ev) {
			return nil
		}
		text := string(ev.Payload)
		pos := l.now(t)
		if name, ok := song.SectionName(text); ok {
			*l.chart.Sections.GetOrAppendLast(pos) = name
		}
		song.AddEvent(l.chart.Events, pos, text)
		return nil
	})
}

func (l *loader) loadVenue(t *midi.Track) error {
	venue := l.chart.VenueTrack()
	return eachEvent(t, func(ev *midi.Event) error {
		switch {
		case isText(ev):
			song.AddEvent(venue.Events, l.now(t), string(ev.Payload))
		case ev.IsNoteOn():
			value, _ := ev.Note()
			venue.Cues.GetOrAppendLast(l.now(t)).Set(value)
		}
		return nil
	})
}

// loadBeats reads the authored beat grid. A measure and a beat on the same
// tick make a measure line.
func (l *loader) loadBeats(t *midi.Track) error {
	lines := l.chart.BeatLines
	return eachEvent(t, func(ev *midi.Event) error {
		if !ev.IsNoteOn() {
			return nil
		}
		value, _ := ev.Note()
		kind := model.Strong
		switch value {
		case beatMeasureNote:
			kind = model.Measure
		case beatNote:
		default:
			return nil
		}
		if line, ok := lines.TryGetLastValue(t.Position()); ok {
			if kind == model.Measure {
				*line = kind
			}
			return nil
		}
		lines.Append(l.now(t), kind)
		return nil
	})
}

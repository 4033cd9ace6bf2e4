package midiload

import (
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

const (
	vocalRangeShift  = 0
	vocalLyricShift  = 1
	percussionShown  = 96
	percussionHidden = 97
	lyricLineNote    = 105
	harmonyLineNote  = 106

	// overlapping notes longer than overlapLong ticks give back
	// overlapBuffer ticks, shorter ones are halved
	overlapLong   = 240
	overlapBuffer = 120
)

// loadVocals reads PART VOCALS (part 0) or one of the HARM tracks.
func (l *loader) loadVocals(t *midi.Track, part int) error {
	track := l.chart.VocalPart(part)
	phrases := phraseNotes{
		l.settings.OverdriveMidiNote: model.Overdrive,
		lyricLineNote:                model.LyricLine,
		harmonyLineNote:              model.HarmonyLine,
		vocalRangeShift:              model.RangeShift,
		vocalLyricShift:              model.LyricShift,
	}
	tracker := song.NewPhraseTracker()

	open := model.Inactive
	var openPitch uint8
	pendingLyric, lyricTicks := "", int64(-1)

	return eachEvent(t, func(ev *midi.Event) error {
		if ev.Type == midi.Lyric || ev.Type == midi.Text {
			text := string(ev.Payload)
			if ev.Type == midi.Text && (text == "" || text[0] == '[') {
				return nil
			}
			pos := l.now(t)
			*track.Lyrics.GetOrAppendLast(pos) = text
			if last := track.Notes.Last(); last != nil && last.Key.Ticks == pos.Ticks && last.Value.Lyric == "" {
				last.Value = note.NewVocal(last.Value.Pitch, text, last.Value.Length)
				return nil
			}
			pendingLyric, lyricTicks = text, pos.Ticks
			return nil
		}
		if l.phrase(ev, t, phrases, &tracker, track.Phrases) {
			return nil
		}
		if ev.Type != midi.NoteOn && ev.Type != midi.NoteOff {
			return nil
		}
		value, _ := ev.Note()
		on := ev.IsNoteOn()

		if value == percussionShown || value == percussionHidden {
			if on {
				*track.Percussion.GetOrAppendLast(l.now(t)) = note.Percussion{Hidden: value == percussionHidden}
			}
			return nil
		}
		if value < note.LowestVocal || value > note.HighestVocal {
			return nil
		}

		if !on {
			if open.IsActive() && value == openPitch {
				if n, ok := noteAt(track.Notes, open); ok {
					n.Length = l.until(open, t)
				}
				open = model.Inactive
			}
			return nil
		}

		if open.IsActive() {
			l.closeOverlap(track, open, t.Position())
		}
		pos := l.now(t)
		lyric := ""
		if lyricTicks == pos.Ticks {
			lyric = pendingLyric
		}
		pendingLyric, lyricTicks = "", -1
		*track.Notes.GetOrAppendLast(pos) = note.NewVocal(int8(value), lyric, model.DualTime{})
		open, openPitch = pos, value
		return nil
	})
}

// closeOverlap shortens a note that is still sounding when the next one
// starts at ticks. Malformed rips do this a lot.
func (l *loader) closeOverlap(track *song.VocalTrack, start model.DualTime, ticks int64) {
	n, ok := noteAt(track.Notes, start)
	if !ok {
		return
	}
	gap := ticks - start.Ticks
	length := gap / 2
	if gap > overlapLong {
		length = gap - overlapBuffer
	}
	n.Length = l.tracker.Duration(start, start.Ticks+length)
	l.log.Printf("Warning: overlapping vocal notes at tick %d", ticks)
}

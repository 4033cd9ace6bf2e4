package midiload

import (
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

const (
	tapNote = 104
	// 120-124 all mark the big rock ending; the first lane is enough
	bigRockEndStart = 120
)

// Phase Shift sysex: 'P' 'S' 0 0 difficulty type on/off
const (
	sysexAllDifficulties = 0xFF
	sysexOpen            = 1
	sysexTap             = 4
)

// fretLayout places the lanes of one fret instrument on the MIDI note range.
// Lane n of difficulty d is note base[d]+n.
type fretLayout struct {
	bases      [model.NumDifficulties]uint8
	numLanes   int
	forceHopo  int
	forceStrum int
	// five fret open notes need [ENHANCED_OPENS]
	opensNeedFlag bool
	// the lane sysex opens turn into open notes
	sysexOpenLane int
}

var fiveFretLayout = fretLayout{
	bases:         [model.NumDifficulties]uint8{59, 71, 83, 95},
	numLanes:      note.NumFiveFretLanes,
	forceHopo:     6,
	forceStrum:    7,
	opensNeedFlag: true,
	sysexOpenLane: note.Green,
}

var sixFretLayout = fretLayout{
	bases:         [model.NumDifficulties]uint8{58, 70, 82, 94},
	numLanes:      note.NumSixFretLanes,
	forceHopo:     7,
	forceStrum:    8,
	sysexOpenLane: -1,
}

// lane splits value into a difficulty and an offset from its base.
func (f *fretLayout) lane(value uint8) (model.Difficulty, int, bool) {
	for d := model.Expert; ; d-- {
		if base := f.bases[d]; value >= base && int(value-base) <= f.forceStrum {
			return d, int(value - base), true
		}
		if d == model.Easy {
			return 0, 0, false
		}
	}
}

type fretNote[N any] interface {
	song.GuitarNote[N]
	Set(lane int, length model.DualTime) bool
	SetLength(lane int, length model.DualTime)
	Disable(lane int)
}

func loadFiveFret(l *loader, t *midi.Track, inst model.Instrument) error {
	return loadFrets[note.FiveFret](l, t, l.chart.FiveFretTrack(inst), &fiveFretLayout)
}

func loadSixFret(l *loader, t *midi.Track, inst model.Instrument) error {
	return loadFrets[note.SixFret](l, t, l.chart.SixFretTrack(inst), &sixFretLayout)
}

type fretDifficulty[N any] struct {
	track      *song.DifficultyTrack[N]
	lanes      openLanes
	target     [maxLanes]int
	forceHopo  bool
	forceStrum bool
	sysexOpen  bool
	sysexTap   bool
}

func loadFrets[N any, P fretNote[N]](l *loader, t *midi.Track, track *song.InstrumentTrack[N], layout *fretLayout) error {
	var diffs [model.NumDifficulties]fretDifficulty[N]
	for i := range diffs {
		diffs[i].lanes = newOpenLanes()
	}
	get := func(d model.Difficulty) *fretDifficulty[N] {
		if diffs[d].track == nil {
			diffs[d].track = track.GetOrCreate(d)
		}
		return &diffs[d]
	}

	phrases := l.instrumentPhrases()
	phrases[bigRockEndStart] = model.BigRockEnding
	phrases[tapNote] = model.TapPhrase
	tracker := song.NewPhraseTracker()
	opensEnabled := !layout.opensNeedFlag

	forcing := func(fd *fretDifficulty[N], tapPhrase bool) note.Forcing {
		switch {
		case tapPhrase || fd.sysexTap:
			return note.ForceTap
		case fd.forceHopo:
			return note.ForceHopo
		case fd.forceStrum:
			return note.ForceStrum
		}
		return note.Natural
	}
	// a forcing marker also covers the chord it starts on
	reforce := func(fd *fretDifficulty[N], ticks int64) {
		if fd.track == nil {
			return
		}
		if n, ok := lastNear(fd.track.Notes, ticks); ok {
			P(n).Guitar().SetForcing(forcing(fd, tracker.IsOpen(model.TapPhrase)))
		}
	}

	return eachEvent(t, func(ev *midi.Event) error {
		switch {
		case isText(ev):
			text := string(ev.Payload)
			if trackFlag(text, enhancedOpens) {
				opensEnabled = true
				return nil
			}
			song.AddEvent(track.Events, l.now(t), text)
			return nil
		case ev.Type == midi.SysEx || ev.Type == midi.SysExEnd:
			diff, kind, on, ok := phaseShiftSysex(ev.Payload)
			if !ok {
				return nil
			}
			for d := model.Easy; d < model.NumDifficulties; d++ {
				if diff != sysexAllDifficulties && diff != uint8(d) {
					continue
				}
				fd := get(d)
				switch kind {
				case sysexOpen:
					fd.sysexOpen = on
					if on && layout.sysexOpenLane >= 0 {
						convertToOpen[N, P](fd, t.Position(), layout.sysexOpenLane)
					}
				case sysexTap:
					fd.sysexTap = on
					if on {
						reforce(fd, t.Position())
					}
				}
			}
			return nil
		}

		if l.phrase(ev, t, phrases, &tracker, track.Phrases) {
			value, _ := ev.Note()
			if value == tapNote && ev.IsNoteOn() {
				for d := range diffs {
					reforce(&diffs[d], t.Position())
				}
			}
			return nil
		}
		if ev.Type != midi.NoteOn && ev.Type != midi.NoteOff {
			return nil
		}

		value, _ := ev.Note()
		d, offset, ok := layout.lane(value)
		if !ok {
			return nil
		}
		fd := get(d)
		on := ev.IsNoteOn()

		switch offset {
		case layout.forceHopo:
			fd.forceHopo = on
			if on {
				reforce(fd, t.Position())
			}
			return nil
		case layout.forceStrum:
			fd.forceStrum = on
			if on {
				reforce(fd, t.Position())
			}
			return nil
		}
		if offset >= layout.numLanes || offset == 0 && !opensEnabled {
			return nil
		}

		if !on {
			start, open := fd.lanes.close(offset)
			if !open {
				return nil
			}
			if n, ok := noteAt(fd.track.Notes, start); ok {
				P(n).SetLength(fd.target[offset], l.until(start, t))
			}
			return nil
		}

		lane := offset
		if fd.sysexOpen && lane == layout.sysexOpenLane {
			lane = 0
		}
		pos, n := snapNote(fd.track.Notes, l.tracker, t.Position())
		P(n).Set(lane, model.DualTime{})
		P(n).Guitar().SetForcing(forcing(fd, tracker.IsOpen(model.TapPhrase)))
		fd.lanes.open(offset, pos)
		fd.target[offset] = lane
		return nil
	})
}

// convertToOpen turns the sysex lane of the chord at ticks into an open
// note, for open markers that arrive after their note.
func convertToOpen[N any, P fretNote[N]](fd *fretDifficulty[N], ticks int64, lane int) {
	if fd.track == nil {
		return
	}
	n, ok := lastNear(fd.track.Notes, ticks)
	if !ok || !P(n).Guitar().Mask.Has(lane) {
		return
	}
	P(n).Disable(lane)
	P(n).Set(0, model.DualTime{})
	fd.target[lane] = 0
}

// phaseShiftSysex decodes the Phase Shift modifier messages.
func phaseShiftSysex(payload []byte) (diff, kind uint8, on bool, ok bool) {
	if len(payload) < 7 || payload[0] != 'P' || payload[1] != 'S' || payload[2] != 0 || payload[3] != 0 {
		return 0, 0, false, false
	}
	return payload[4], payload[5], payload[6] == 1, true
}

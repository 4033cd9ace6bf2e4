package song

import (
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/timeline"
)

// GuitarNote is satisfied by *note.FiveFret and *note.SixFret.
type GuitarNote[N any] interface {
	*N
	Guitar() *note.Frets
	Sustains() []model.DualTime
}

// ResolveGuitarStates fills in the strum/hopo/tap state of every note.
//
// A single note is naturally a HOPO when it shares no lane with the note
// before it and starts at most threshold ticks after it. Chords and the first
// note are strums. Forcing then applies, and modifier last.
func ResolveGuitarStates[N any, P GuitarNote[N]](notes *timeline.Timeline[N], threshold int64, modifier model.GuitarModifier) {
	var prevMask note.LaneMask
	prevTicks := int64(-1)
	for i := range notes.Entries() {
		e := notes.At(i)
		frets := P(&e.Value).Guitar()

		natural := note.Strum
		if prevTicks >= 0 && !frets.IsChord() && frets.Mask&prevMask == 0 && e.Key.Ticks-prevTicks <= threshold {
			natural = note.Hopo
		}

		state := natural
		switch frets.Forcing {
		case note.Forced:
			if natural == note.Hopo {
				state = note.Strum
			} else {
				state = note.Hopo
			}
		case note.ForceHopo:
			state = note.Hopo
		case note.ForceStrum:
			state = note.Strum
		case note.ForceTap:
			state = note.Tap
		}
		frets.State = applyModifier(state, modifier)

		prevMask = frets.Mask
		prevTicks = e.Key.Ticks
	}
}

func applyModifier(state note.GuitarState, modifier model.GuitarModifier) note.GuitarState {
	switch modifier {
	case model.AllStrums:
		return note.Strum
	case model.AllHopos:
		return note.Hopo
	case model.AllTaps:
		return note.Tap
	case model.HoposToTaps:
		if state == note.Hopo {
			return note.Tap
		}
	case model.TapsToHopos:
		if state == note.Tap {
			return note.Hopo
		}
	}
	return state
}

// TruncateSustains zeroes every sustain that is not longer than cutoff.
func TruncateSustains[N any, P GuitarNote[N]](notes *timeline.Timeline[N], cutoff int64) {
	for i := range notes.Entries() {
		sustains := P(&notes.At(i).Value).Sustains()
		for lane := range sustains {
			sustains[lane] = sustains[lane].Truncate(cutoff)
		}
	}
}

// finalizeGuitar runs state resolution and sustain truncation over every
// difficulty of a five or six fret track.
func finalizeGuitar[N any, P GuitarNote[N]](track *InstrumentTrack[N], threshold, cutoff int64, modifier model.GuitarModifier) {
	if track == nil {
		return
	}
	for _, d := range track.Difficulties {
		if d == nil {
			continue
		}
		ResolveGuitarStates[N, P](d.Notes, threshold, modifier)
		TruncateSustains[N, P](d.Notes, cutoff)
	}
}

package chartload

import (
	"github.com/jsphweid/yargchart/dotchart"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

const (
	forcedLane = 5
	tapLane    = 6

	doubleKickLane = 32
	// accents and ghosts run red through five lane green
	accentLane     = 34
	ghostLane      = 40
	yellowCymbal   = 66
	greenCymbal    = 68

	soloStart = "solo"
	soloEnd   = "soloend"
)

var fiveFretLanes = map[int]int{
	0: note.Green,
	1: note.Red,
	2: note.Yellow,
	3: note.Blue,
	4: note.Orange,
	7: note.Open,
}

var sixFretLanes = map[int]int{
	0: note.White1,
	1: note.White2,
	2: note.White3,
	3: note.Black1,
	4: note.Black2,
	8: note.Black3,
	7: note.SixOpen,
}

// S events
var specialPhrases = map[int]model.PhraseType{
	0:  model.FaceOffP1,
	1:  model.FaceOffP2,
	2:  model.Overdrive,
	64: model.DrumFill,
	65: model.DrumRoll,
	66: model.DrumSpecialRoll,
}

type laneNote[N any] interface {
	song.GuitarNote[N]
	Set(lane int, length model.DualTime) bool
}

// eachNote walks one instrument section. Specials and text are handled
// here, note lines go to onNote. A note that ends up without any lane is
// removed once the next tick starts.
func eachNote[T dotchart.CodeUnit, N any](l *loader[T], diff *song.DifficultyTrack[N], empty func(*N) bool, onNote func(n *N, lane int, length model.DualTime)) {
	solo := song.NewPhraseTracker()
	popEmpty := func() {
		if last := diff.Notes.Last(); last != nil && empty(&last.Value) {
			diff.Notes.Pop()
		}
	}
	current := int64(-1)
	for {
		ev, ok := l.r.NextEvent()
		if !ok {
			break
		}
		pos, ok := l.position(ev)
		if !ok {
			continue
		}
		if ev.Ticks != current {
			popEmpty()
			current = ev.Ticks
		}

		switch ev.Kind {
		case dotchart.NoteEvent:
			lane, ok := dotchart.ExtractInteger[int](l.r)
			if !ok {
				continue
			}
			length, _ := dotchart.ExtractInteger[int64](l.r)
			onNote(diff.Notes.GetOrAppendLast(pos), lane, l.tracker.Duration(pos, ev.Ticks+length))
		case dotchart.SpecialEvent:
			kind, _ := dotchart.ExtractInteger[int](l.r)
			length, _ := dotchart.ExtractInteger[int64](l.r)
			if phrase, ok := specialPhrases[kind]; ok {
				song.CommitPhrase(diff.Phrases, pos, l.tracker.Duration(pos, ev.Ticks+length), phrase)
			}
		case dotchart.TextEvent:
			switch text := l.r.ExtractText(); text {
			case soloStart:
				solo.Start(model.Solo, pos)
			case soloEnd:
				// the end tick is part of the solo
				end := ev.Ticks + 1
				solo.End(diff.Phrases, model.Solo, model.DualTime{Ticks: end, Seconds: l.tracker.UnmovingConvert(end)})
			default:
				song.AddEvent(diff.Events, pos, text)
			}
		}
	}
	popEmpty()
}

func loadFrets[T dotchart.CodeUnit, N any, P laneNote[N]](l *loader[T], diff *song.DifficultyTrack[N], lanes map[int]int) {
	empty := func(n *N) bool {
		return P(n).Guitar().Mask == 0
	}
	eachNote(l, diff, empty, func(n *N, lane int, length model.DualTime) {
		switch lane {
		case forcedLane:
			P(n).Guitar().SetForcing(note.Forced)
			return
		case tapLane:
			P(n).Guitar().SetForcing(note.ForceTap)
			return
		}
		target, ok := lanes[lane]
		if !ok || !P(n).Set(target, length) {
			l.log.Printf("Warning: unknown lane %d at tick %d", lane, l.last)
		}
	})
}

func loadDrums[T dotchart.CodeUnit](l *loader[T], diff *song.DifficultyTrack[note.UnknownDrum]) {
	empty := func(n *note.UnknownDrum) bool {
		return n.Mask == 0
	}
	eachNote(l, diff, empty, func(n *note.UnknownDrum, lane int, length model.DualTime) {
		switch {
		case lane >= note.Kick && lane <= note.FifthPad:
			n.Set(lane, length)
			if lane == note.FifthPad {
				l.drums.ObserveFifthLane()
			}
		case lane == doubleKickLane:
			n.Set(note.Kick, length)
			n.DoubleKick = true
		case lane >= accentLane && lane < accentLane+note.FifthPad:
			n.SetDynamics(note.RedPad+lane-accentLane, note.Accent)
		case lane >= ghostLane && lane < ghostLane+note.FifthPad:
			n.SetDynamics(note.RedPad+lane-ghostLane, note.Ghost)
		case lane >= yellowCymbal && lane <= greenCymbal:
			n.Cymbals |= 1 << (note.YellowPad + lane - yellowCymbal)
			l.drums.ObserveCymbal()
		default:
			l.log.Printf("Warning: unknown drum lane %d at tick %d", lane, l.last)
		}
	})
}

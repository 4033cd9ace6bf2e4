package tempo

import (
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/timeline"
)

// Tracker converts ticks to seconds for callers that walk the timeline
// forward, which every format parser does. It keeps a cursor on the active
// tempo marker instead of searching the map on each query.
type Tracker struct {
	tempos     []timeline.Entry[Tempo]
	resolution float64
	position   int
}

func (m *Map) NewTracker() *Tracker {
	if !m.finalized {
		panic("tempo: tracker created before Finalize")
	}
	return &Tracker{tempos: m.Tempos.Entries(), resolution: float64(m.Resolution)}
}

func (t *Tracker) convert(position int, ticks int64) float64 {
	marker := &t.tempos[position]
	return float64(marker.Value.AnchorMicros)/1e6 +
		float64(ticks-marker.Key.Ticks)/t.resolution*float64(marker.Value.MicrosPerQuarter)/1e6
}

func (t *Tracker) advance(position int, ticks int64) int {
	for position+1 < len(t.tempos) && t.tempos[position+1].Key.Ticks <= ticks {
		position++
	}
	return position
}

// Traverse moves the cursor forward to ticks and returns the elapsed seconds.
// ticks must not be before the current marker.
func (t *Tracker) Traverse(ticks int64) float64 {
	if ticks < t.tempos[t.position].Key.Ticks {
		panic("tempo: tracker traversed backwards")
	}
	t.position = t.advance(t.position, ticks)
	return t.convert(t.position, ticks)
}

// UnmovingConvert answers like Traverse without moving the cursor. It is
// used for end times computed from an already stored start.
func (t *Tracker) UnmovingConvert(ticks int64) float64 {
	position := t.position
	if ticks < t.tempos[position].Key.Ticks {
		position = 0
	}
	return t.convert(t.advance(position, ticks), ticks)
}

// Time traverses to ticks and pairs the result up.
func (t *Tracker) Time(ticks int64) model.DualTime {
	return model.DualTime{Ticks: ticks, Seconds: t.Traverse(ticks)}
}

// Duration is the length from start to endTicks, computed without moving.
func (t *Tracker) Duration(start model.DualTime, endTicks int64) model.DualTime {
	if endTicks <= start.Ticks {
		return model.DualTime{}
	}
	return model.DualTime{
		Ticks:   endTicks - start.Ticks,
		Seconds: t.UnmovingConvert(endTicks) - start.Seconds,
	}
}

// Reset moves the cursor back to the first marker for a new pass.
func (t *Tracker) Reset() {
	t.position = 0
}

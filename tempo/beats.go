package tempo

import (
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/timeline"
)

// BeatLines derives measure and beat lines from the time signatures up to and
// including endTicks. Every time signature restarts the measure count.
func (m *Map) BeatLines(endTicks int64) *timeline.Timeline[model.BeatlineType] {
	tracker := m.NewTracker()
	sigs := m.TimeSigs.Entries()
	lines := timeline.New[model.BeatlineType](int(endTicks/int64(m.Resolution)) + 2)
	for i := range sigs {
		sig := sigs[i].Value
		segmentEnd := endTicks + 1
		if i+1 < len(sigs) {
			segmentEnd = sigs[i+1].Key.Ticks
		}
		beat := int64(m.Resolution) * 4 / int64(denominatorValue(sig.Denominator))
		if beat <= 0 {
			beat = int64(m.Resolution)
		}
		// Compound meters (6/8, 9/8, 12/8) get a strong line on every
		// dotted quarter and weak lines on the remaining eighths.
		strongEvery := 1
		if sig.Denominator >= 8 && sig.Numerator%3 == 0 && sig.Numerator > 3 {
			strongEvery = 3
		}
		for n, ticks := 0, sigs[i].Key.Ticks; ticks < segmentEnd; n, ticks = n+1, ticks+beat {
			kind := model.Weak
			switch {
			case n%int(sig.Numerator) == 0:
				kind = model.Measure
			case n%strongEvery == 0:
				kind = model.Strong
			}
			lines.Append(tracker.Time(ticks), kind)
		}
	}
	return lines
}

// Denominators are stored as literal values (MIDI's power of two is expanded
// by the loader).
func denominatorValue(d uint8) uint8 {
	if d == 0 {
		return 4
	}
	return d
}

package model

import "fmt"

// DualTime is a position (or a length) on the chart timeline. Ticks is the
// ordering key, Seconds is derived from it through the tempo map and has to
// be recomputed whenever Ticks changes.
type DualTime struct {
	Ticks   int64
	Seconds float64
}

// Inactive marks a lane, phrase or marker that is not sounding.
var Inactive = DualTime{Ticks: -1}

func (d DualTime) IsActive() bool {
	return d.Ticks >= 0
}

func (d DualTime) Add(o DualTime) DualTime {
	return DualTime{Ticks: d.Ticks + o.Ticks, Seconds: d.Seconds + o.Seconds}
}

func (d DualTime) Sub(o DualTime) DualTime {
	return DualTime{Ticks: d.Ticks - o.Ticks, Seconds: d.Seconds - o.Seconds}
}

// Compare orders by ticks only.
func (d DualTime) Compare(o DualTime) int {
	switch {
	case d.Ticks < o.Ticks:
		return -1
	case d.Ticks > o.Ticks:
		return 1
	}
	return 0
}

func (d DualTime) Less(o DualTime) bool {
	return d.Ticks < o.Ticks
}

// Normalize zeroes negative or degenerate lengths.
func (d DualTime) Normalize() DualTime {
	if d.Ticks <= 0 || d.Seconds < 0 {
		return DualTime{}
	}
	return d
}

// Truncate drops sustains that are not longer than cutoff ticks.
func (d DualTime) Truncate(cutoff int64) DualTime {
	if d.Ticks <= cutoff {
		return DualTime{}
	}
	return d.Normalize()
}

// ClampTo shortens a length so it is no longer than limit.
func (d DualTime) ClampTo(limit DualTime) DualTime {
	if d.Ticks > limit.Ticks {
		return limit.Normalize()
	}
	return d
}

// Max returns whichever of the two is further along the timeline.
func Max(a, b DualTime) DualTime {
	if b.Ticks > a.Ticks {
		return b
	}
	return a
}

func (d DualTime) String() string {
	return fmt.Sprintf("%d (%.3fs)", d.Ticks, d.Seconds)
}

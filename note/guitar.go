// Package note has one note type per instrument family. Loaders know the
// family at the call site, so there is no shared interface beyond the small
// constraints the generic helpers need.
package note

import (
	"math/bits"

	"github.com/jsphweid/yargchart/model"
)

// LaneMask has bit i set when lane (or string, or pad) i is sounding.
type LaneMask uint16

func (m LaneMask) Has(lane int) bool {
	return m&(1<<lane) != 0
}

func (m LaneMask) Count() int {
	return bits.OnesCount16(uint16(m))
}

type GuitarState uint8

const (
	Strum GuitarState = iota
	Hopo
	Tap
)

func (s GuitarState) String() string {
	switch s {
	case Hopo:
		return "Hopo"
	case Tap:
		return "Tap"
	}
	return "Strum"
}

// Forcing is what the chart asked for, before HOPO resolution.
type Forcing uint8

const (
	Natural Forcing = iota
	// Forced inverts the natural state (chart format)
	Forced
	ForceHopo
	ForceStrum
	ForceTap
)

// Frets is the part shared by five and six fret notes.
type Frets struct {
	Mask    LaneMask
	Forcing Forcing
	State   GuitarState
}

func (f *Frets) Guitar() *Frets {
	return f
}

// IsChord ignores the open lane, which never forms a chord.
func (f *Frets) IsChord() bool {
	return (f.Mask &^ 1).Count() > 1
}

// SetForcing keeps an explicit tap over any other request.
func (f *Frets) SetForcing(forcing Forcing) {
	if f.Forcing == ForceTap && forcing != ForceTap {
		return
	}
	f.Forcing = forcing
}

const (
	Open = iota
	Green
	Red
	Yellow
	Blue
	Orange

	NumFiveFretLanes
)

type FiveFret struct {
	Lanes [NumFiveFretLanes]model.DualTime
	Frets
}

// Set activates a lane; unknown lanes return false.
func (n *FiveFret) Set(lane int, length model.DualTime) bool {
	if lane < 0 || lane >= NumFiveFretLanes {
		return false
	}
	n.Lanes[lane] = length
	n.Mask |= 1 << lane
	return true
}

func (n *FiveFret) Disable(lane int) {
	n.Mask &^= 1 << lane
	n.Lanes[lane] = model.DualTime{}
}

func (n *FiveFret) SetLength(lane int, length model.DualTime) {
	if n.Mask.Has(lane) {
		n.Lanes[lane] = length
	}
}

func (n *FiveFret) LongestSustain() model.DualTime {
	return longest(n.Lanes[:], n.Mask)
}

func (n *FiveFret) Sustains() []model.DualTime {
	return n.Lanes[:]
}

const (
	SixOpen = iota
	White1
	White2
	White3
	Black1
	Black2
	Black3

	NumSixFretLanes
)

type SixFret struct {
	Lanes [NumSixFretLanes]model.DualTime
	Frets
}

func (n *SixFret) Set(lane int, length model.DualTime) bool {
	if lane < 0 || lane >= NumSixFretLanes {
		return false
	}
	n.Lanes[lane] = length
	n.Mask |= 1 << lane
	return true
}

func (n *SixFret) Disable(lane int) {
	n.Mask &^= 1 << lane
	n.Lanes[lane] = model.DualTime{}
}

func (n *SixFret) SetLength(lane int, length model.DualTime) {
	if n.Mask.Has(lane) {
		n.Lanes[lane] = length
	}
}

func (n *SixFret) LongestSustain() model.DualTime {
	return longest(n.Lanes[:], n.Mask)
}

func (n *SixFret) Sustains() []model.DualTime {
	return n.Lanes[:]
}

func longest(lanes []model.DualTime, mask LaneMask) model.DualTime {
	var max model.DualTime
	for i, l := range lanes {
		if mask.Has(i) && l.Ticks > max.Ticks {
			max = l
		}
	}
	return max
}

package note

import "github.com/jsphweid/yargchart/model"

type Dynamics uint8

const (
	NoDynamics Dynamics = iota
	Accent
	Ghost
)

// pads, left to right after the kick
const (
	Kick = iota
	RedPad
	YellowPad
	BluePad
	// GreenPad on four lane kits, OrangePad on five lane kits
	FourthPad
	// FifthPad only exists on five lane kits (green)
	FifthPad

	NumFourLanePads = FifthPad
	NumFiveLanePads = FifthPad + 1
)

const (
	GreenPad  = FourthPad
	OrangePad = FourthPad
	// five lane green
	FiveLaneGreen = FifthPad
)

type Pads struct {
	Mask       LaneMask
	DoubleKick bool
}

type FourLaneDrum struct {
	Lanes    [NumFourLanePads]model.DualTime
	Dynamics [NumFourLanePads]Dynamics
	// Cymbals flags yellow, blue and green pads played as cymbals (pro drums)
	Cymbals LaneMask
	Pads
}

func (n *FourLaneDrum) Set(pad int, length model.DualTime) bool {
	if pad < 0 || pad >= NumFourLanePads {
		return false
	}
	n.Lanes[pad] = length
	n.Mask |= 1 << pad
	return true
}

func (n *FourLaneDrum) LongestSustain() model.DualTime {
	return longest(n.Lanes[:], n.Mask)
}

func (n *FourLaneDrum) IsCymbal(pad int) bool {
	return n.Cymbals.Has(pad)
}

type FiveLaneDrum struct {
	Lanes    [NumFiveLanePads]model.DualTime
	Dynamics [NumFiveLanePads]Dynamics
	Pads
}

func (n *FiveLaneDrum) Set(pad int, length model.DualTime) bool {
	if pad < 0 || pad >= NumFiveLanePads {
		return false
	}
	n.Lanes[pad] = length
	n.Mask |= 1 << pad
	return true
}

func (n *FiveLaneDrum) LongestSustain() model.DualTime {
	return longest(n.Lanes[:], n.Mask)
}

// UnknownDrum is a drum note read before the kit layout is known. It keeps
// everything either concrete layout could need.
type UnknownDrum struct {
	Lanes    [NumFiveLanePads]model.DualTime
	Dynamics [NumFiveLanePads]Dynamics
	Cymbals  LaneMask
	Pads
}

func (n *UnknownDrum) Set(pad int, length model.DualTime) bool {
	if pad < 0 || pad >= NumFiveLanePads {
		return false
	}
	n.Lanes[pad] = length
	n.Mask |= 1 << pad
	return true
}

func (n *UnknownDrum) SetLength(pad int, length model.DualTime) {
	if n.Mask.Has(pad) {
		n.Lanes[pad] = length
	}
}

func (n *UnknownDrum) SetDynamics(pad int, d Dynamics) {
	if pad >= 0 && pad < NumFiveLanePads {
		n.Dynamics[pad] = d
	}
}

func (n *UnknownDrum) LongestSustain() model.DualTime {
	return longest(n.Lanes[:], n.Mask)
}

// ToFourLane keeps cymbal flags only for pro drums. A fifth pad cannot be
// represented and is dropped.
func (n *UnknownDrum) ToFourLane(pro bool) FourLaneDrum {
	var out FourLaneDrum
	copy(out.Lanes[:], n.Lanes[:NumFourLanePads])
	copy(out.Dynamics[:], n.Dynamics[:NumFourLanePads])
	out.Mask = n.Mask &^ (1 << FifthPad)
	out.DoubleKick = n.DoubleKick
	if pro {
		out.Cymbals = n.Cymbals & out.Mask
	}
	return out
}

func (n *UnknownDrum) ToFiveLane() FiveLaneDrum {
	return FiveLaneDrum{Lanes: n.Lanes, Dynamics: n.Dynamics, Pads: n.Pads}
}

package note

import "github.com/jsphweid/yargchart/model"

const NumProStrings = 6

type StringMode uint8

const (
	NormalString StringMode = iota
	GhostString
	BendString
	MutedString
	TappedString
	Harmonics
	PinchHarmonics
)

type SlideType uint8

const (
	NoSlide SlideType = iota
	Slide
	ReverseSlide
)

type Emphasis uint8

const (
	NoEmphasis Emphasis = iota
	HighEmphasis
	MiddleEmphasis
	LowEmphasis
)

type ProString struct {
	Fret   int8
	Mode   StringMode
	Length model.DualTime
}

type ProGuitar struct {
	Strings  [NumProStrings]ProString
	Mask     LaneMask
	Hopo     bool
	Slide    SlideType
	Arpeggio bool
	Emphasis Emphasis
}

// Set plays fret on string (0 is the low E). maxFret bounds the instrument
// (17 or 22).
func (n *ProGuitar) Set(str int, fret int8, maxFret int8, mode StringMode, length model.DualTime) bool {
	if str < 0 || str >= NumProStrings || fret < 0 || fret > maxFret {
		return false
	}
	n.Strings[str] = ProString{Fret: fret, Mode: mode, Length: length}
	n.Mask |= 1 << str
	return true
}

func (n *ProGuitar) SetLength(str int, length model.DualTime) {
	if n.Mask.Has(str) {
		n.Strings[str].Length = length
	}
}

func (n *ProGuitar) LongestSustain() model.DualTime {
	var max model.DualTime
	for i, s := range n.Strings {
		if n.Mask.Has(i) && s.Length.Ticks > max.Ticks {
			max = s.Length
		}
	}
	return max
}

const (
	MaxKeys     = 4
	LowestKey   = 48
	HighestKey  = 72
	NumKeyRange = HighestKey - LowestKey + 1
)

type Key struct {
	Pitch  uint8
	Length model.DualTime
}

// ProKeys holds up to MaxKeys simultaneous keys in the order they were added.
type ProKeys struct {
	Keys  [MaxKeys]Key
	Count uint8
}

// Add returns false when the chord is full or the pitch is out of range.
func (n *ProKeys) Add(pitch uint8, length model.DualTime) bool {
	if pitch < LowestKey || pitch > HighestKey || n.Count >= MaxKeys {
		return false
	}
	n.Keys[n.Count] = Key{Pitch: pitch, Length: length}
	n.Count++
	return true
}

func (n *ProKeys) SetLength(pitch uint8, length model.DualTime) {
	for i := range n.Keys[:n.Count] {
		if n.Keys[i].Pitch == pitch {
			n.Keys[i].Length = length
		}
	}
}

func (n *ProKeys) LongestSustain() model.DualTime {
	var max model.DualTime
	for _, k := range n.Keys[:n.Count] {
		if k.Length.Ticks > max.Ticks {
			max = k.Length
		}
	}
	return max
}

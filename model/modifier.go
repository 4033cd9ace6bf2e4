package model

// Format is the on-disk chart format a song was read from.
type Format uint8

const (
	UnknownFormat Format = iota
	ChartFormat
	MidiFormat
)

func (f Format) String() string {
	switch f {
	case ChartFormat:
		return ".chart"
	case MidiFormat:
		return "midi"
	}
	return "unknown"
}

// GuitarModifier rewrites the resolved strum/hopo/tap state of every five
// and six fret note.
type GuitarModifier uint8

const (
	NoModifier GuitarModifier = iota
	AllStrums
	AllHopos
	AllTaps
	HoposToTaps
	TapsToHopos
)

var guitarModifierNames = []string{"None", "AllStrums", "AllHopos", "AllTaps", "HoposToTaps", "TapsToHopos"}

func (m GuitarModifier) String() string {
	if int(m) < len(guitarModifierNames) {
		return guitarModifierNames[m]
	}
	return "Unknown"
}

func ParseGuitarModifier(name string) (GuitarModifier, bool) {
	for i, n := range guitarModifierNames {
		if n == name {
			return GuitarModifier(i), true
		}
	}
	return NoModifier, false
}

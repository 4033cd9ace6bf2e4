package model

type Instrument uint8

const (
	FiveFretGuitar Instrument = iota
	FiveFretBass
	FiveFretRhythm
	FiveFretCoopGuitar
	Keys

	SixFretGuitar
	SixFretBass
	SixFretRhythm
	SixFretCoopGuitar

	FourLaneDrums
	ProDrums
	FiveLaneDrums

	ProGuitar17Fret
	ProGuitar22Fret
	ProBass17Fret
	ProBass22Fret

	ProKeys

	Vocals
	Harmony

	NumInstruments
)

var instrumentNames = [NumInstruments]string{
	"FiveFretGuitar", "FiveFretBass", "FiveFretRhythm", "FiveFretCoopGuitar", "Keys",
	"SixFretGuitar", "SixFretBass", "SixFretRhythm", "SixFretCoopGuitar",
	"FourLaneDrums", "ProDrums", "FiveLaneDrums",
	"ProGuitar_17Fret", "ProGuitar_22Fret", "ProBass_17Fret", "ProBass_22Fret",
	"ProKeys",
	"Vocals", "Harmony",
}

func (i Instrument) String() string {
	if i < NumInstruments {
		return instrumentNames[i]
	}
	return "Unknown"
}

// ParseInstrument is case sensitive and matches String.
func ParseInstrument(name string) (Instrument, bool) {
	for i, n := range instrumentNames {
		if n == name {
			return Instrument(i), true
		}
	}
	return 0, false
}

func (i Instrument) IsDrums() bool {
	return i == FourLaneDrums || i == ProDrums || i == FiveLaneDrums
}

// InstrumentSet is a bitmask of instruments. The zero value means "no filter".
type InstrumentSet uint32

func NewInstrumentSet(instruments ...Instrument) InstrumentSet {
	var s InstrumentSet
	for _, i := range instruments {
		s |= 1 << i
	}
	return s
}

// Has reports whether i should be parsed. An empty set allows everything.
func (s InstrumentSet) Has(i Instrument) bool {
	return s == 0 || s&(1<<i) != 0
}

// HasAny reports whether at least one of the instruments should be parsed.
func (s InstrumentSet) HasAny(instruments ...Instrument) bool {
	for _, i := range instruments {
		if s.Has(i) {
			return true
		}
	}
	return false
}

type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert

	NumDifficulties
)

var difficultyNames = [NumDifficulties]string{"Easy", "Medium", "Hard", "Expert"}

func (d Difficulty) String() string {
	if d < NumDifficulties {
		return difficultyNames[d]
	}
	return "Unknown"
}

func ParseDifficulty(name string) (Difficulty, bool) {
	for i, n := range difficultyNames {
		if n == name {
			return Difficulty(i), true
		}
	}
	return 0, false
}

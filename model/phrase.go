package model

type PhraseType uint8

const (
	Overdrive PhraseType = iota
	Solo
	Trill
	Tremolo
	BigRockEnding
	FaceOffP1
	FaceOffP2
	TapPhrase
	RangeShift
	LyricLine
	LyricShift
	HarmonyLine
	DrumFill
	DrumRoll
	DrumSpecialRoll
	Glissando

	NumPhraseTypes
)

var phraseNames = [NumPhraseTypes]string{
	"Overdrive", "Solo", "Trill", "Tremolo", "BigRockEnding", "FaceOffP1", "FaceOffP2",
	"Tap", "RangeShift", "LyricLine", "LyricShift", "HarmonyLine",
	"DrumFill", "DrumRoll", "DrumSpecialRoll", "Glissando",
}

func (p PhraseType) String() string {
	if p < NumPhraseTypes {
		return phraseNames[p]
	}
	return "Unknown"
}

type BeatlineType uint8

const (
	Measure BeatlineType = iota
	Strong
	Weak
)

func (b BeatlineType) String() string {
	switch b {
	case Measure:
		return "Measure"
	case Strong:
		return "Strong"
	}
	return "Weak"
}

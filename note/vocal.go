package note

import (
	"strings"

	"github.com/jsphweid/yargchart/model"
)

const (
	Unpitched       int8 = -1
	LowestVocal          = 36
	HighestVocal         = 84
	talkieMarker         = '#'
	lenientMarker        = '^'
	pitchSlideLyric      = "+"
)

type TalkType uint8

const (
	Sung TalkType = iota
	Talkie
	LenientTalkie
)

type Vocal struct {
	Pitch  int8
	Length model.DualTime
	Lyric  string
	Talk   TalkType
}

// Percussion is a vocal percussion hit. Hidden hits are scored but not drawn.
type Percussion struct {
	Hidden bool
}

// NewVocal strips the talkie markers from lyric; talkies lose their pitch.
func NewVocal(pitch int8, lyric string, length model.DualTime) Vocal {
	v := Vocal{Pitch: pitch, Length: length, Lyric: lyric}
	switch {
	case strings.HasSuffix(lyric, string(lenientMarker)):
		v.Talk = LenientTalkie
		v.Lyric = strings.TrimSuffix(lyric, string(lenientMarker))
	case strings.HasSuffix(lyric, string(talkieMarker)):
		v.Talk = Talkie
		v.Lyric = strings.TrimSuffix(lyric, string(talkieMarker))
	}
	if v.Talk != Sung {
		v.Pitch = Unpitched
	}
	return v
}

func (v *Vocal) IsPitched() bool {
	return v.Pitch != Unpitched
}

// IsSlide reports a "+" lyric, which continues the previous syllable.
func (v *Vocal) IsSlide() bool {
	return v.Lyric == pitchSlideLyric
}

func (v *Vocal) LongestSustain() model.DualTime {
	return v.Length
}

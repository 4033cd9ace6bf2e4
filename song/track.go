package song

import (
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/timeline"
)

// Sustainer is satisfied by every note type through its pointer.
type Sustainer[N any] interface {
	*N
	LongestSustain() model.DualTime
}

type DifficultyTrack[N any] struct {
	Notes   *timeline.Timeline[N]
	Phrases *Phrases
	Events  *Events
}

func NewDifficultyTrack[N any]() *DifficultyTrack[N] {
	return &DifficultyTrack[N]{
		Notes:   timeline.New[N](timeline.DefaultNoteCapacity),
		Phrases: NewPhrases(),
		Events:  NewEvents(),
	}
}

func (t *DifficultyTrack[N]) IsEmpty() bool {
	return t == nil || t.Notes.IsEmpty() && t.Phrases.IsEmpty() && t.Events.IsEmpty()
}

func (t *DifficultyTrack[N]) TrimExcess() {
	t.Notes.TrimExcess()
	t.Phrases.TrimExcess()
	t.Events.TrimExcess()
}

func (t *DifficultyTrack[N]) Dispose() {
	if t == nil {
		return
	}
	t.Notes.Dispose()
	t.Phrases.Dispose()
	t.Events.Dispose()
}

// InstrumentTrack holds the difficulties of one instrument. Difficulties are
// allocated on first use.
type InstrumentTrack[N any] struct {
	Difficulties [model.NumDifficulties]*DifficultyTrack[N]
	// Phrases and Events shared by every difficulty
	Phrases *Phrases
	Events  *Events
}

func NewInstrumentTrack[N any]() *InstrumentTrack[N] {
	return &InstrumentTrack[N]{Phrases: NewPhrases(), Events: NewEvents()}
}

// Get returns nil for a difficulty that was never written.
func (t *InstrumentTrack[N]) Get(d model.Difficulty) *DifficultyTrack[N] {
	if t == nil {
		return nil
	}
	return t.Difficulties[d]
}

func (t *InstrumentTrack[N]) GetOrCreate(d model.Difficulty) *DifficultyTrack[N] {
	if t.Difficulties[d] == nil {
		t.Difficulties[d] = NewDifficultyTrack[N]()
	}
	return t.Difficulties[d]
}

func (t *InstrumentTrack[N]) IsEmpty() bool {
	if t == nil {
		return true
	}
	for _, d := range t.Difficulties {
		if !d.IsEmpty() {
			return false
		}
	}
	return t.Phrases.IsEmpty() && t.Events.IsEmpty()
}

// HasNotes reports whether any difficulty has at least one note.
func (t *InstrumentTrack[N]) HasNotes() bool {
	if t == nil {
		return false
	}
	for _, d := range t.Difficulties {
		if d != nil && !d.Notes.IsEmpty() {
			return true
		}
	}
	return false
}

func (t *InstrumentTrack[N]) TrimExcess() {
	for _, d := range t.Difficulties {
		if d != nil {
			d.TrimExcess()
		}
	}
	t.Phrases.TrimExcess()
	t.Events.TrimExcess()
}

func (t *InstrumentTrack[N]) Dispose() {
	if t == nil {
		return
	}
	for _, d := range t.Difficulties {
		d.Dispose()
	}
	t.Phrases.Dispose()
	t.Events.Dispose()
}

// NoteEnd is where the last note of notes stops sounding.
func NoteEnd[N any, P Sustainer[N]](notes *timeline.Timeline[N]) model.DualTime {
	last := notes.Last()
	if last == nil {
		return model.DualTime{}
	}
	return last.Key.Add(P(&last.Value).LongestSustain())
}

// EndTime is the furthest note end over all difficulties.
func EndTime[N any, P Sustainer[N]](t *InstrumentTrack[N]) model.DualTime {
	var end model.DualTime
	if t == nil {
		return end
	}
	for _, d := range t.Difficulties {
		if d != nil {
			end = model.Max(end, NoteEnd[N, P](d.Notes))
		}
	}
	return end
}

// ConvertTrack builds a track of another note type from src, which is
// disposed afterwards. Phrase and event containers change hands without a
// copy.
func ConvertTrack[S, D any](src *InstrumentTrack[S], convert func(*S) D) *InstrumentTrack[D] {
	dst := &InstrumentTrack[D]{Phrases: src.Phrases.Move(), Events: src.Events.Move()}
	for i, d := range src.Difficulties {
		if d == nil {
			continue
		}
		notes := timeline.New[D](d.Notes.Len())
		for j := range d.Notes.Entries() {
			e := d.Notes.At(j)
			notes.Append(e.Key, convert(&e.Value))
		}
		dst.Difficulties[i] = &DifficultyTrack[D]{
			Notes:   notes,
			Phrases: d.Phrases.Move(),
			Events:  d.Events.Move(),
		}
	}
	src.Dispose()
	return dst
}

type VocalTrack struct {
	Notes      *timeline.Timeline[note.Vocal]
	Lyrics     *timeline.Timeline[string]
	Percussion *timeline.Timeline[note.Percussion]
	Phrases    *Phrases
}

func NewVocalTrack() *VocalTrack {
	return &VocalTrack{
		Notes:      timeline.New[note.Vocal](1024),
		Lyrics:     timeline.New[string](1024),
		Percussion: timeline.New[note.Percussion](64),
		Phrases:    NewPhrases(),
	}
}

func (t *VocalTrack) IsEmpty() bool {
	return t == nil || t.Notes.IsEmpty() && t.Percussion.IsEmpty() && t.Lyrics.IsEmpty()
}

func (t *VocalTrack) EndTime() model.DualTime {
	if t == nil {
		return model.DualTime{}
	}
	return NoteEnd[note.Vocal](t.Notes)
}

func (t *VocalTrack) TrimExcess() {
	t.Notes.TrimExcess()
	t.Lyrics.TrimExcess()
	t.Percussion.TrimExcess()
	t.Phrases.TrimExcess()
}

func (t *VocalTrack) Dispose() {
	if t == nil {
		return
	}
	t.Notes.Dispose()
	t.Lyrics.Dispose()
	t.Percussion.Dispose()
	t.Phrases.Dispose()
}

// NoteMask is a set of MIDI note numbers.
type NoteMask [2]uint64

func (m *NoteMask) Set(n uint8) {
	m[n/64] |= 1 << (n % 64)
}

func (m NoteMask) Has(n uint8) bool {
	return m[n/64]&(1<<(n%64)) != 0
}

// VenueTrack carries camera, lighting and stage directions.
type VenueTrack struct {
	Events *Events
	Cues   *timeline.Timeline[NoteMask]
}

func NewVenueTrack() *VenueTrack {
	return &VenueTrack{Events: NewEvents(), Cues: timeline.New[NoteMask](256)}
}

func (t *VenueTrack) TrimExcess() {
	t.Events.TrimExcess()
	t.Cues.TrimExcess()
}

func (t *VenueTrack) Dispose() {
	if t == nil {
		return
	}
	t.Events.Dispose()
	t.Cues.Dispose()
}

package song

import (
	"strings"

	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/timeline"
)

// PhraseSet holds every phrase that starts on one tick, indexed by type.
type PhraseSet struct {
	Lengths [model.NumPhraseTypes]model.DualTime
	Mask    uint32
}

func (p *PhraseSet) Set(kind model.PhraseType, length model.DualTime) {
	p.Lengths[kind] = length
	p.Mask |= 1 << kind
}

func (p *PhraseSet) Has(kind model.PhraseType) bool {
	return p.Mask&(1<<kind) != 0
}

func (p *PhraseSet) Get(kind model.PhraseType) (model.DualTime, bool) {
	return p.Lengths[kind], p.Has(kind)
}

type Phrases = timeline.Timeline[PhraseSet]

func NewPhrases() *Phrases {
	return timeline.New[PhraseSet](16)
}

// CommitPhrase stores a closed phrase under its start tick. Phrases are
// closed out of start order, so the start is searched for from the end.
func CommitPhrase(phrases *Phrases, start, length model.DualTime, kind model.PhraseType) {
	i := phrases.TraverseBackwardsUntil(start.Ticks)
	if i >= 0 && phrases.At(i).Key.Ticks == start.Ticks {
		phrases.At(i).Value.Set(kind, length)
		return
	}
	phrases.InsertAt(i+1, start).Set(kind, length)
}

// PhraseTracker pairs phrase starts with their ends for one phrase container.
type PhraseTracker struct {
	open [model.NumPhraseTypes]model.DualTime
}

func NewPhraseTracker() PhraseTracker {
	var t PhraseTracker
	t.Reset()
	return t
}

func (t *PhraseTracker) Reset() {
	for i := range t.open {
		t.open[i] = model.Inactive
	}
}

// Start opens kind at position. An already open phrase keeps its start.
func (t *PhraseTracker) Start(kind model.PhraseType, position model.DualTime) {
	if !t.open[kind].IsActive() {
		t.open[kind] = position
	}
}

// End closes kind and commits it. Ends without a start are ignored.
func (t *PhraseTracker) End(phrases *Phrases, kind model.PhraseType, end model.DualTime) {
	start := t.open[kind]
	if !start.IsActive() {
		return
	}
	t.open[kind] = model.Inactive
	CommitPhrase(phrases, start, end.Sub(start).Normalize(), kind)
}

func (t *PhraseTracker) IsOpen(kind model.PhraseType) bool {
	return t.open[kind].IsActive()
}

// Events are free text events; several may share a tick.
type Events = timeline.Timeline[[]string]

func NewEvents() *Events {
	return timeline.New[[]string](16)
}

// AddEvent appends text at position, which may not be before the last event.
func AddEvent(events *Events, position model.DualTime, text string) {
	slot := events.GetOrAppendLast(position)
	*slot = append(*slot, text)
}

// SectionName extracts the practice section name of "[section x]",
// "[prc_x]" or "section x".
func SectionName(text string) (string, bool) {
	text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	for _, prefix := range []string{"section ", "prc_"} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(text[len(prefix):]), true
		}
	}
	return "", false
}

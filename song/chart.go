// Package song is the in-memory form of a loaded chart: a tempo map plus one
// sorted track per instrument and difficulty.
package song

import (
	"fmt"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/tempo"
	"github.com/jsphweid/yargchart/timeline"
)

const NumHarmonies = 3

type Metadata struct {
	Name    string
	Artist  string
	Album   string
	Genre   string
	Year    string
	Charter string
	// Offset shifts the audio against the chart, in seconds.
	Offset       float64
	PreviewStart float64
	PreviewEnd   float64
	Difficulty   int32
}

// Chart owns every container of a loaded song. Nothing in it is shared with
// another Chart, and Dispose releases it all.
type Chart struct {
	Resolution uint16
	Sync       *tempo.Map
	Metadata   Metadata

	// FiveFret is indexed from model.FiveFretGuitar through model.Keys.
	FiveFret [model.Keys - model.FiveFretGuitar + 1]*InstrumentTrack[note.FiveFret]
	// SixFret is indexed from model.SixFretGuitar.
	SixFret       [model.SixFretCoopGuitar - model.SixFretGuitar + 1]*InstrumentTrack[note.SixFret]
	FourLaneDrums *InstrumentTrack[note.FourLaneDrum]
	ProDrums      *InstrumentTrack[note.FourLaneDrum]
	FiveLaneDrums *InstrumentTrack[note.FiveLaneDrum]
	// DrumsType is the layout the drum track resolved to.
	DrumsType DrumsType
	// UnknownDrums only exists while a drum track is being loaded.
	UnknownDrums *InstrumentTrack[note.UnknownDrum]
	// ProGuitar is indexed from model.ProGuitar17Fret.
	ProGuitar [model.ProBass22Fret - model.ProGuitar17Fret + 1]*InstrumentTrack[note.ProGuitar]
	ProKeys   *InstrumentTrack[note.ProKeys]
	Vocals    *VocalTrack
	Harmonies [NumHarmonies]*VocalTrack

	Events    *Events
	Sections  *timeline.Timeline[string]
	Venue     *VenueTrack
	BeatLines *timeline.Timeline[model.BeatlineType]

	disposed bool
}

func NewChart(resolution uint16) *Chart {
	sync := tempo.NewMap(resolution)
	return &Chart{
		Resolution: sync.Resolution,
		Sync:       sync,
		Events:     NewEvents(),
		Sections:   timeline.New[string](32),
		BeatLines:  timeline.New[model.BeatlineType](0),
	}
}

func (c *Chart) FiveFretTrack(inst model.Instrument) *InstrumentTrack[note.FiveFret] {
	slot := &c.FiveFret[inst-model.FiveFretGuitar]
	if *slot == nil {
		*slot = NewInstrumentTrack[note.FiveFret]()
	}
	return *slot
}

func (c *Chart) SixFretTrack(inst model.Instrument) *InstrumentTrack[note.SixFret] {
	slot := &c.SixFret[inst-model.SixFretGuitar]
	if *slot == nil {
		*slot = NewInstrumentTrack[note.SixFret]()
	}
	return *slot
}

func (c *Chart) ProGuitarTrack(inst model.Instrument) *InstrumentTrack[note.ProGuitar] {
	slot := &c.ProGuitar[inst-model.ProGuitar17Fret]
	if *slot == nil {
		*slot = NewInstrumentTrack[note.ProGuitar]()
	}
	return *slot
}

func (c *Chart) UnknownDrumTrack() *InstrumentTrack[note.UnknownDrum] {
	if c.UnknownDrums == nil {
		c.UnknownDrums = NewInstrumentTrack[note.UnknownDrum]()
	}
	return c.UnknownDrums
}

func (c *Chart) ProKeysTrack() *InstrumentTrack[note.ProKeys] {
	if c.ProKeys == nil {
		c.ProKeys = NewInstrumentTrack[note.ProKeys]()
	}
	return c.ProKeys
}

// VocalPart returns the lead vocals for part 0 and harmony n for part n.
func (c *Chart) VocalPart(part int) *VocalTrack {
	slot := &c.Vocals
	if part > 0 {
		slot = &c.Harmonies[part-1]
	}
	if *slot == nil {
		*slot = NewVocalTrack()
	}
	return *slot
}

func (c *Chart) VenueTrack() *VenueTrack {
	if c.Venue == nil {
		c.Venue = NewVenueTrack()
	}
	return c.Venue
}

// Finalize runs once all tracks are loaded. settings must already be
// resolved against the chart (see config.LoaderSettings.Resolve). It derives
// beat lines when the chart brought none, resolves guitar states, drops short
// sustains and shrinks every container.
func (c *Chart) Finalize(settings config.LoaderSettings) {
	if !c.Sync.IsFinalized() {
		c.Sync.Finalize()
	}
	for _, t := range c.FiveFret {
		finalizeGuitar[note.FiveFret](t, settings.HopoThreshold, settings.SustainCutoffThreshold, settings.GuitarModifier)
	}
	for _, t := range c.SixFret {
		finalizeGuitar[note.SixFret](t, settings.HopoThreshold, settings.SustainCutoffThreshold, settings.GuitarModifier)
	}
	for _, t := range c.ProGuitar {
		truncateProGuitar(t, settings.SustainCutoffThreshold)
	}
	c.pruneEmpty()

	if c.BeatLines.IsEmpty() {
		c.BeatLines.Dispose()
		c.BeatLines = c.Sync.BeatLines(c.EndTime().Ticks)
	}
	c.TrimExcess()
}

func truncateProGuitar(t *InstrumentTrack[note.ProGuitar], cutoff int64) {
	if t == nil {
		return
	}
	for _, d := range t.Difficulties {
		if d == nil {
			continue
		}
		for i := range d.Notes.Entries() {
			n := &d.Notes.At(i).Value
			for s := range n.Strings {
				n.Strings[s].Length = n.Strings[s].Length.Truncate(cutoff)
			}
		}
	}
}

func pruneTrack[N any](slot **InstrumentTrack[N]) {
	if *slot != nil && (*slot).IsEmpty() {
		(*slot).Dispose()
		*slot = nil
	}
}

func pruneVocals(slot **VocalTrack) {
	if *slot != nil && (*slot).IsEmpty() {
		(*slot).Dispose()
		*slot = nil
	}
}

func (c *Chart) pruneEmpty() {
	for i := range c.FiveFret {
		pruneTrack(&c.FiveFret[i])
	}
	for i := range c.SixFret {
		pruneTrack(&c.SixFret[i])
	}
	for i := range c.ProGuitar {
		pruneTrack(&c.ProGuitar[i])
	}
	pruneTrack(&c.FourLaneDrums)
	pruneTrack(&c.ProDrums)
	pruneTrack(&c.FiveLaneDrums)
	pruneTrack(&c.ProKeys)
	pruneVocals(&c.Vocals)
	for i := range c.Harmonies {
		pruneVocals(&c.Harmonies[i])
	}
}

// EndTime is the latest note end over every track.
func (c *Chart) EndTime() model.DualTime {
	var end model.DualTime
	for _, t := range c.FiveFret {
		end = model.Max(end, EndTime[note.FiveFret](t))
	}
	for _, t := range c.SixFret {
		end = model.Max(end, EndTime[note.SixFret](t))
	}
	for _, t := range c.ProGuitar {
		end = model.Max(end, EndTime[note.ProGuitar](t))
	}
	end = model.Max(end, EndTime[note.FourLaneDrum](c.FourLaneDrums))
	end = model.Max(end, EndTime[note.FourLaneDrum](c.ProDrums))
	end = model.Max(end, EndTime[note.FiveLaneDrum](c.FiveLaneDrums))
	end = model.Max(end, EndTime[note.UnknownDrum](c.UnknownDrums))
	end = model.Max(end, EndTime[note.ProKeys](c.ProKeys))
	end = model.Max(end, c.Vocals.EndTime())
	for _, h := range c.Harmonies {
		end = model.Max(end, h.EndTime())
	}
	return end
}

func (c *Chart) TrimExcess() {
	c.Sync.TrimExcess()
	forEachTrack(c, func(t interface{ TrimExcess() }) { t.TrimExcess() })
	c.Events.TrimExcess()
	c.Sections.TrimExcess()
	c.BeatLines.TrimExcess()
}

// Dispose releases every container. Calling it twice is harmless.
func (c *Chart) Dispose() {
	if c == nil || c.disposed {
		return
	}
	c.disposed = true
	c.Sync.Dispose()
	forEachTrack(c, func(t interface{ Dispose() }) { t.Dispose() })
	c.UnknownDrums.Dispose()
	c.UnknownDrums = nil
	c.Events.Dispose()
	c.Sections.Dispose()
	c.BeatLines.Dispose()
}

func (c *Chart) IsDisposed() bool {
	return c.disposed
}

// forEachTrack calls fn for every non-nil instrument, vocal and venue track.
func forEachTrack[F any](c *Chart, fn func(F)) {
	visit := func(t any) {
		if f, ok := t.(F); ok {
			fn(f)
		}
	}
	for _, t := range c.FiveFret {
		if t != nil {
			visit(t)
		}
	}
	for _, t := range c.SixFret {
		if t != nil {
			visit(t)
		}
	}
	for _, t := range c.ProGuitar {
		if t != nil {
			visit(t)
		}
	}
	if c.FourLaneDrums != nil {
		visit(c.FourLaneDrums)
	}
	if c.ProDrums != nil {
		visit(c.ProDrums)
	}
	if c.FiveLaneDrums != nil {
		visit(c.FiveLaneDrums)
	}
	if c.ProKeys != nil {
		visit(c.ProKeys)
	}
	if c.Vocals != nil {
		visit(c.Vocals)
	}
	for _, h := range c.Harmonies {
		if h != nil {
			visit(h)
		}
	}
	if c.Venue != nil {
		visit(c.Venue)
	}
}

func summarize[N any](name string, t *InstrumentTrack[N]) []model.TrackSummary {
	var out []model.TrackSummary
	if t == nil {
		return out
	}
	for d, diff := range t.Difficulties {
		if diff == nil || diff.Notes.IsEmpty() {
			continue
		}
		out = append(out, model.TrackSummary{
			Instrument: name,
			Difficulty: model.Difficulty(d).String(),
			Notes:      diff.Notes.Len(),
			Phrases:    diff.Phrases.Len(),
		})
	}
	return out
}

// Summary lists every non-empty track in instrument order.
func (c *Chart) Summary() []model.TrackSummary {
	var out []model.TrackSummary
	for i, t := range c.FiveFret {
		out = append(out, summarize((model.FiveFretGuitar + model.Instrument(i)).String(), t)...)
	}
	for i, t := range c.SixFret {
		out = append(out, summarize((model.SixFretGuitar + model.Instrument(i)).String(), t)...)
	}
	out = append(out, summarize(model.FourLaneDrums.String(), c.FourLaneDrums)...)
	out = append(out, summarize(model.ProDrums.String(), c.ProDrums)...)
	out = append(out, summarize(model.FiveLaneDrums.String(), c.FiveLaneDrums)...)
	for i, t := range c.ProGuitar {
		out = append(out, summarize((model.ProGuitar17Fret + model.Instrument(i)).String(), t)...)
	}
	out = append(out, summarize(model.ProKeys.String(), c.ProKeys)...)
	if !c.Vocals.IsEmpty() {
		out = append(out, model.TrackSummary{Instrument: model.Vocals.String(), Notes: c.Vocals.Notes.Len(), Phrases: c.Vocals.Phrases.Len()})
	}
	for i, h := range c.Harmonies {
		if !h.IsEmpty() {
			out = append(out, model.TrackSummary{
				Instrument: fmt.Sprintf("%s%d", model.Harmony, i+1),
				Notes:      h.Notes.Len(),
				Phrases:    h.Phrases.Len(),
			})
		}
	}
	return out
}

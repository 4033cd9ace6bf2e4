// Package chartload fills a song.Chart from a .chart text file.
package chartload

import (
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/dotchart"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
	"github.com/jsphweid/yargchart/tempo"
)

const defaultResolution = 192

var ErrNoSections = errors.New("no sections found")

// chart section suffixes; drums are resolved later
var sectionInstruments = map[string]model.Instrument{
	"Single":       model.FiveFretGuitar,
	"DoubleGuitar": model.FiveFretCoopGuitar,
	"DoubleBass":   model.FiveFretBass,
	"DoubleRhythm": model.FiveFretRhythm,
	"Keyboard":     model.Keys,
	"Drums":        model.FourLaneDrums,
	"GHLGuitar":    model.SixFretGuitar,
	"GHLBass":      model.SixFretBass,
	"GHLRhythm":    model.SixFretRhythm,
	"GHLCoop":      model.SixFretCoopGuitar,
}

// parseSection splits "ExpertSingle" into its difficulty and instrument.
func parseSection(name string) (model.Difficulty, model.Instrument, bool) {
	for d := model.Easy; d < model.NumDifficulties; d++ {
		rest, ok := strings.CutPrefix(name, d.String())
		if !ok {
			continue
		}
		inst, ok := sectionInstruments[rest]
		return d, inst, ok
	}
	return 0, 0, false
}

type loader[T dotchart.CodeUnit] struct {
	r        *dotchart.Reader[T]
	chart    *song.Chart
	settings config.LoaderSettings
	drums    *song.DrumContext
	tracker  *tempo.Tracker
	log      *log.Logger
	loaded   map[string]bool
	// last tick read in the current section
	last int64
}

// Load parses a whole .chart file in whatever encoding Decode finds.
func Load(data []byte, settings config.LoaderSettings, ini config.IniModifiers) (*song.Chart, error) {
	src := dotchart.Decode(data)
	logger := settings.Log()
	switch {
	case src.UTF16 != nil:
		return load(dotchart.NewReader(src.UTF16, logger), settings, ini)
	case src.UTF32 != nil:
		return load(dotchart.NewReader(src.UTF32, logger), settings, ini)
	}
	return load(dotchart.NewReader(src.UTF8, logger), settings, ini)
}

func load[T dotchart.CodeUnit](r *dotchart.Reader[T], settings config.LoaderSettings, ini config.IniModifiers) (*song.Chart, error) {
	name, ok := r.NextSection()
	if !ok {
		return nil, ErrNoSections
	}
	l := &loader[T]{
		r:      r,
		drums:  song.NewDrumContext(ini),
		log:    settings.Log(),
		loaded: make(map[string]bool),
	}

	meta, resolution := song.Metadata{}, uint16(defaultResolution)
	if name == "Song" {
		meta, resolution = metadata(r.ExtractModifiers(dotchart.SongOutline))
		name, ok = r.NextSection()
	} else {
		l.log.Printf("Warning: no [Song] section, assuming resolution %d", defaultResolution)
	}
	l.chart = song.NewChart(resolution)
	l.chart.Metadata = meta
	l.settings = settings.Resolve(ini, l.chart.Resolution, model.ChartFormat)

	if ok && name == "SyncTrack" {
		l.loadSync()
		name, ok = r.NextSection()
	}
	l.chart.Sync.Finalize()
	l.tracker = l.chart.Sync.NewTracker()

	for ; ok; name, ok = r.NextSection() {
		l.tracker.Reset()
		l.last = 0
		l.loadSection(name)
	}
	l.chart.ResolveDrums(l.drums, l.settings.ActiveInstruments)
	l.chart.Finalize(l.settings)
	return l.chart, nil
}

func metadata(mods dotchart.Modifiers) (song.Metadata, uint16) {
	var m song.Metadata
	m.Name, _ = mods.String("name")
	m.Artist, _ = mods.String("artist")
	m.Album, _ = mods.String("album")
	m.Genre, _ = mods.String("genre")
	m.Charter, _ = mods.String("charter")
	if year, ok := mods.String("year"); ok {
		m.Year = strings.TrimSpace(strings.TrimPrefix(year, ","))
	}
	m.Offset, _ = mods.Float("offset")
	m.PreviewStart, _ = mods.Float("previewstart")
	m.PreviewEnd, _ = mods.Float("previewend")
	if preview, ok := mods["preview"]; ok && preview.Type == dotchart.FloatPairModifier {
		m.PreviewStart, m.PreviewEnd = preview.Floats[0], preview.Floats[1]
	}
	if d, ok := mods.Int("difficulty"); ok {
		m.Difficulty = int32(d)
	}

	resolution := uint16(defaultResolution)
	if res, ok := mods.Int("resolution"); ok && res > 0 {
		resolution = uint16(res)
	}
	return m, resolution
}

// loadSync reads B (milli-BPM), TS (numerator, power of two denominator)
// and A (anchor in microseconds) events.
func (l *loader[T]) loadSync() {
	sync := l.chart.Sync
	for {
		ev, ok := l.r.NextEvent()
		if !ok {
			return
		}
		switch ev.Kind {
		case dotchart.TempoEvent:
			milliBPM, ok := dotchart.ExtractInteger[int64](l.r)
			if !ok || milliBPM <= 0 {
				l.log.Printf("Warning: invalid tempo at tick %d", ev.Ticks)
				continue
			}
			sync.AddTempo(ev.Ticks, tempo.MicrosFromBPM(float64(milliBPM)/1000))
		case dotchart.TimeSigEvent:
			numerator, _ := dotchart.ExtractInteger[uint8](l.r)
			power := uint8(2)
			if l.r.HasMoreFields() {
				if p, ok := dotchart.ExtractInteger[uint8](l.r); ok && p <= 7 {
					power = p
				}
			}
			sync.AddTimeSig(ev.Ticks, tempo.TimeSig{
				Numerator:     numerator,
				Denominator:   1 << power,
				Metronome:     tempo.DefaultTimeSig.Metronome,
				ThirtySeconds: tempo.DefaultTimeSig.ThirtySeconds,
			})
		case dotchart.AnchorEvent:
			if micros, ok := dotchart.ExtractInteger[int64](l.r); ok {
				sync.AddAnchor(ev.Ticks, micros)
			}
		}
	}
}

func (l *loader[T]) loadSection(name string) {
	switch name {
	case "Events":
		l.loadEvents()
		return
	case "Song", "SyncTrack":
		l.log.Printf("Warning: [%s] out of place, skipped", name)
		l.r.SkipSection()
		return
	}

	d, inst, ok := parseSection(name)
	if !ok {
		l.r.SkipSection()
		return
	}
	if l.loaded[name] {
		l.log.Printf("Warning: duplicate section [%s] skipped", name)
		l.r.SkipSection()
		return
	}
	l.loaded[name] = true

	active := l.settings.ActiveInstruments
	switch {
	case inst.IsDrums():
		if !active.HasAny(model.FourLaneDrums, model.ProDrums, model.FiveLaneDrums) {
			l.r.SkipSection()
			return
		}
		loadDrums(l, l.chart.UnknownDrumTrack().GetOrCreate(d))
	case !active.Has(inst):
		l.r.SkipSection()
	case inst >= model.SixFretGuitar:
		loadFrets[T, note.SixFret](l, l.chart.SixFretTrack(inst).GetOrCreate(d), sixFretLanes)
	default:
		loadFrets[T, note.FiveFret](l, l.chart.FiveFretTrack(inst).GetOrCreate(d), fiveFretLanes)
	}
}

// loadEvents reads the global [Events] section. Sections, and lyrics for
// charts that carry their vocals here, are picked out of the text.
func (l *loader[T]) loadEvents() {
	var vocals *song.VocalTrack
	if l.settings.ActiveInstruments.Has(model.Vocals) {
		vocals = l.chart.VocalPart(0)
	}
	phrase := song.NewPhraseTracker()
	for {
		ev, ok := l.r.NextEvent()
		if !ok {
			return
		}
		pos, ok := l.position(ev)
		if !ok || ev.Kind != dotchart.TextEvent {
			continue
		}
		text := l.r.ExtractText()
		song.AddEvent(l.chart.Events, pos, text)
		if name, ok := song.SectionName(text); ok {
			*l.chart.Sections.GetOrAppendLast(pos) = name
			continue
		}
		if vocals == nil {
			continue
		}
		switch {
		case strings.HasPrefix(text, "lyric "):
			*vocals.Lyrics.GetOrAppendLast(pos) = strings.TrimPrefix(text, "lyric ")
		case text == "phrase_start":
			if phrase.IsOpen(model.LyricLine) {
				phrase.End(vocals.Phrases, model.LyricLine, pos)
			}
			phrase.Start(model.LyricLine, pos)
		case text == "phrase_end":
			phrase.End(vocals.Phrases, model.LyricLine, pos)
		}
	}
}

// position converts the tick of ev. Events must not go back in time within
// a section; the ones that do are dropped.
func (l *loader[T]) position(ev dotchart.Event) (model.DualTime, bool) {
	if ev.Ticks < l.last {
		l.log.Printf("Warning: event at tick %d is out of order, skipped", ev.Ticks)
		return model.DualTime{}, false
	}
	l.last = ev.Ticks
	return l.tracker.Time(ev.Ticks), true
}

// Package midiload fills a song.Chart from a Rock Band style MIDI file.
//
// The conductor track is read first so every other track can convert ticks
// to seconds while it is parsed. Instrument tracks are picked by name; the
// ones filtered out by the active instrument set are never parsed.
package midiload

import (
	"io"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/song"
	"github.com/jsphweid/yargchart/tempo"
	"github.com/jsphweid/yargchart/timeline"
)

// Note-ons closer than this to the previous note-on of the same difficulty
// join its chord.
const chordSnapThreshold = 16

const (
	enhancedOpens = "ENHANCED_OPENS"
	chartDynamics = "ENABLE_CHART_DYNAMICS"
)

type loader struct {
	chart    *song.Chart
	settings config.LoaderSettings
	drums    *song.DrumContext
	tracker  *tempo.Tracker
	log      *log.Logger
}

// Load parses a whole MIDI file. settings is resolved against the file's
// resolution and ini before use. Structural problems in the conductor track or
// any dispatched track fail the whole load.
func Load(data []byte, settings config.LoaderSettings, ini config.IniModifiers) (*song.Chart, error) {
	r, err := midi.NewReader(data)
	if err != nil {
		return nil, err
	}
	var tracks []*midi.Track
	for {
		t, err := r.LoadNextTrack()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", r.TrackIndex())
		}
		tracks = append(tracks, t)
	}

	chart := song.NewChart(r.Resolution)
	l := &loader{
		chart:    chart,
		settings: settings.Resolve(ini, chart.Resolution, model.MidiFormat),
		drums:    song.NewDrumContext(ini),
		log:      settings.Log(),
	}
	if err := l.load(tracks); err != nil {
		chart.Dispose()
		return nil, err
	}
	chart.ResolveDrums(l.drums, l.settings.ActiveInstruments)
	chart.Finalize(l.settings)
	return chart, nil
}

// dispatched is a track that passed the name, duplicate and filter checks.
type dispatched struct {
	index int
	name  string
	kind  trackKind
	track *midi.Track
}

func (l *loader) load(tracks []*midi.Track) error {
	plan, err := l.plan(tracks)
	if err != nil {
		return err
	}

	sync := l.chart.Sync
	if len(tracks) > 0 {
		if err := l.loadSync(0, tracks[0]); err != nil {
			return err
		}
	}
	for _, d := range plan {
		if d.index == 0 {
			continue
		}
		if err := l.loadSync(d.index, d.track); err != nil {
			return err
		}
	}
	sync.Finalize()
	l.tracker = sync.NewTracker()

	for _, d := range plan {
		l.tracker.Reset()
		if err := d.kind.load(l, d.track); err != nil {
			return errors.Wrapf(err, "track %q", d.name)
		}
	}
	return nil
}

// plan picks the tracks to parse from their names alone. Filtered out and
// duplicate tracks are never decoded past their tick-zero events.
func (l *loader) plan(tracks []*midi.Track) ([]dispatched, error) {
	var plan []dispatched
	loaded := make(map[string]bool)
	for i, t := range tracks {
		name, err := t.FindTrackName()
		if errors.Is(err, midi.ErrConflictingNames) {
			l.log.Printf("Warning: skipping track %d: %v", i, err)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", i)
		}
		kind, ok := trackKinds[name]
		if !ok {
			if i > 0 && name != "" {
				l.log.Printf("Warning: unrecognized track %q", name)
			}
			continue
		}
		if loaded[kind.slot] {
			l.log.Printf("Warning: duplicate track %q skipped", name)
			continue
		}
		loaded[kind.slot] = true
		if len(kind.instruments) > 0 && !l.settings.ActiveInstruments.HasAny(kind.instruments...) {
			continue
		}
		plan = append(plan, dispatched{index: i, name: name, kind: kind, track: t})
	}
	return plan, nil
}

// loadSync collects tempo and time signature events of one track. They
// belong in the first track, but strays in parsed tracks are kept too.
func (l *loader) loadSync(i int, t *midi.Track) error {
	sync := l.chart.Sync
	defer t.Reset()
	for {
		ok, err := t.ParseEvent()
		if err != nil {
			return errors.Wrapf(err, "track %d", i)
		}
		if !ok {
			return nil
		}
		ev := &t.Event
		switch ev.Type {
		case midi.TempoSetting:
			if mpq, ok := ev.Tempo(); ok {
				if i > 0 {
					l.log.Printf("Warning: tempo change outside the conductor track at tick %d", t.Position())
				}
				sync.AddTempo(t.Position(), mpq)
			}
		case midi.TimeSignature:
			if num, den, metronome, thirtySeconds, ok := ev.TimeSig(); ok {
				sync.AddTimeSig(t.Position(), tempo.TimeSig{
					Numerator:     num,
					Denominator:   den,
					Metronome:     metronome,
					ThirtySeconds: thirtySeconds,
				})
			}
		}
	}
}

// now converts the current event position.
func (l *loader) now(t *midi.Track) model.DualTime {
	return l.tracker.Time(t.Position())
}

// until is the length from start to the current event.
func (l *loader) until(start model.DualTime, t *midi.Track) model.DualTime {
	return l.tracker.Duration(start, t.Position())
}

// eachEvent runs fn over every event of t. Text and lyric payloads are only
// turned into strings by the callbacks that need them.
func eachEvent(t *midi.Track, fn func(ev *midi.Event) error) error {
	for {
		ok, err := t.ParseEvent()
		if err != nil || !ok {
			return err
		}
		if err := fn(&t.Event); err != nil {
			return err
		}
	}
}

// isText skips track names, which FindTrackName already consumed.
func isText(ev *midi.Event) bool {
	return ev.Type.IsText() && ev.Type != midi.TrackName
}

// trackFlag reports bracketed or bare text events like [ENHANCED_OPENS].
func trackFlag(text, flag string) bool {
	return strings.TrimSuffix(strings.TrimPrefix(text, "["), "]") == flag
}

// snapNote returns the note a note-on at ticks belongs to: the previous one
// when it is within the snapping threshold, a new one otherwise.
func snapNote[N any](notes *timeline.Timeline[N], tracker *tempo.Tracker, ticks int64) (model.DualTime, *N) {
	if last := notes.Last(); last != nil && ticks-last.Key.Ticks < chordSnapThreshold {
		return last.Key, &last.Value
	}
	pos := tracker.Time(ticks)
	var zero N
	return pos, notes.Append(pos, zero)
}

// lastNear returns the last note when it is the chord sounding at ticks.
func lastNear[N any](notes *timeline.Timeline[N], ticks int64) (*N, bool) {
	if last := notes.Last(); last != nil && ticks-last.Key.Ticks < chordSnapThreshold {
		return &last.Value, true
	}
	return nil, false
}

// noteAt finds the note that starts exactly at start, searching from the
// end.
func noteAt[N any](notes *timeline.Timeline[N], start model.DualTime) (*N, bool) {
	i := notes.TraverseBackwardsUntil(start.Ticks)
	if i < 0 || notes.At(i).Key.Ticks != start.Ticks {
		return nil, false
	}
	return &notes.At(i).Value, true
}

const maxLanes = 16

// openLanes remembers where each sounding lane's note starts.
type openLanes [maxLanes]model.DualTime

func newOpenLanes() openLanes {
	var o openLanes
	for i := range o {
		o[i] = model.Inactive
	}
	return o
}

func (o *openLanes) open(lane int, pos model.DualTime) {
	o[lane] = pos
}

func (o *openLanes) close(lane int) (model.DualTime, bool) {
	pos := o[lane]
	o[lane] = model.Inactive
	return pos, pos.IsActive()
}

// phraseNotes maps the phrase marker notes of a track to phrase types.
type phraseNotes map[uint8]model.PhraseType

// phrase handles ev when it is a phrase marker, committing closed phrases
// into phrases.
func (l *loader) phrase(ev *midi.Event, t *midi.Track, kinds phraseNotes, tracker *song.PhraseTracker, phrases *song.Phrases) bool {
	if ev.Type != midi.NoteOn && ev.Type != midi.NoteOff {
		return false
	}
	value, _ := ev.Note()
	kind, ok := kinds[value]
	if !ok {
		return false
	}
	if ev.IsNoteOn() {
		tracker.Start(kind, l.now(t))
	} else {
		tracker.End(phrases, kind, l.now(t))
	}
	return true
}

// instrumentPhrases are the phrase markers shared by the five fret, six fret
// and drum tracks.
func (l *loader) instrumentPhrases() phraseNotes {
	kinds := phraseNotes{
		l.settings.OverdriveMidiNote: model.Overdrive,
		105:                          model.FaceOffP1,
		106:                          model.FaceOffP2,
		126:                          model.Tremolo,
		127:                          model.Trill,
	}
	if l.settings.OverdriveMidiNote != config.LegacyOverdriveNote {
		kinds[103] = model.Solo
	}
	return kinds
}

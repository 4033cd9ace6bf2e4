package tempo

import (
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/timeline"
)

const (
	DefaultMicrosPerQuarter = 500000 // 120 BPM
	DefaultResolution       = 480
	microsPerMinute         = 60000000
)

type Tempo struct {
	MicrosPerQuarter int32
	// AnchorMicros is the elapsed time at the marker. Filled by Finalize.
	AnchorMicros int64
	// Anchored is set by chart-format "A" events, which pin the marker to
	// an authored time.
	Anchored bool
}

func (t Tempo) BPM() float64 {
	if t.MicrosPerQuarter == 0 {
		return 0
	}
	return microsPerMinute / float64(t.MicrosPerQuarter)
}

// MicrosFromBPM converts a beats-per-minute value.
func MicrosFromBPM(bpm float64) int32 {
	if bpm <= 0 {
		return DefaultMicrosPerQuarter
	}
	return int32(microsPerMinute/bpm + 0.5)
}

type TimeSig struct {
	Numerator   uint8
	Denominator uint8
	// Metronome is the number of MIDI clocks per click.
	Metronome     uint8
	ThirtySeconds uint8
}

var DefaultTimeSig = TimeSig{Numerator: 4, Denominator: 4, Metronome: 24, ThirtySeconds: 8}

// Map is the sync track: tempo and time signature markers keyed by tick.
type Map struct {
	Resolution uint16
	Tempos     *timeline.Timeline[Tempo]
	TimeSigs   *timeline.Timeline[TimeSig]

	finalized bool
}

func NewMap(resolution uint16) *Map {
	if resolution == 0 {
		resolution = DefaultResolution
	}
	return &Map{
		Resolution: resolution,
		Tempos:     timeline.New[Tempo](64),
		TimeSigs:   timeline.New[TimeSig](16),
	}
}

// AddTempo records a tempo change. Later markers at the same tick replace
// earlier ones.
func (m *Map) AddTempo(ticks int64, microsPerQuarter int32) {
	if microsPerQuarter <= 0 {
		microsPerQuarter = DefaultMicrosPerQuarter
	}
	t := m.Tempos.TryFindOrInsert(model.DualTime{Ticks: ticks})
	t.MicrosPerQuarter = microsPerQuarter
	m.finalized = false
}

// AddAnchor pins the tempo marker at ticks, creating it from the active
// tempo when there is none yet.
func (m *Map) AddAnchor(ticks int64, micros int64) {
	idx, ok := m.Tempos.Find(ticks)
	if !ok {
		mpq := int32(DefaultMicrosPerQuarter)
		if idx > 0 {
			mpq = m.Tempos.At(idx - 1).Value.MicrosPerQuarter
		}
		m.AddTempo(ticks, mpq)
		idx, _ = m.Tempos.Find(ticks)
	}
	t := &m.Tempos.At(idx).Value
	t.Anchored = true
	t.AnchorMicros = micros
}

func (m *Map) AddTimeSig(ticks int64, sig TimeSig) {
	if sig.Numerator == 0 {
		sig.Numerator = 4
	}
	if sig.Denominator == 0 {
		sig.Denominator = 4
	}
	*m.TimeSigs.TryFindOrInsert(model.DualTime{Ticks: ticks}) = sig
}

// Finalize injects the 120 BPM and 4/4 defaults at tick zero when missing
// and accumulates every marker's anchor in a single forward pass. It has to
// run before any Tracker touches the map.
func (m *Map) Finalize() {
	if m.Tempos.IsEmpty() || m.Tempos.At(0).Key.Ticks != 0 {
		m.Tempos.TryFindOrInsert(model.DualTime{}).MicrosPerQuarter = DefaultMicrosPerQuarter
	}
	if m.TimeSigs.IsEmpty() || m.TimeSigs.At(0).Key.Ticks != 0 {
		*m.TimeSigs.TryFindOrInsert(model.DualTime{}) = DefaultTimeSig
	}

	entries := m.Tempos.Entries()
	entries[0].Value.AnchorMicros = 0
	entries[0].Key.Seconds = 0
	for i := 1; i < len(entries); i++ {
		prev := &entries[i-1]
		curr := &entries[i]
		if !curr.Value.Anchored {
			delta := curr.Key.Ticks - prev.Key.Ticks
			curr.Value.AnchorMicros = prev.Value.AnchorMicros + delta*int64(prev.Value.MicrosPerQuarter)/int64(m.Resolution)
		}
		curr.Key.Seconds = float64(curr.Value.AnchorMicros) / 1e6
	}
	m.finalized = true

	tracker := m.NewTracker()
	sigs := m.TimeSigs.Entries()
	for i := range sigs {
		sigs[i].Key.Seconds = tracker.Traverse(sigs[i].Key.Ticks)
	}
}

func (m *Map) IsFinalized() bool {
	return m.finalized
}

func (m *Map) TrimExcess() {
	m.Tempos.TrimExcess()
	m.TimeSigs.TrimExcess()
}

func (m *Map) Dispose() {
	m.Tempos.Dispose()
	m.TimeSigs.Dispose()
}

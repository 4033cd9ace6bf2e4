package midiload

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
	"github.com/jsphweid/yargchart/song"
)

const resolution = 480

func settings() config.LoaderSettings {
	s := config.DefaultSettings()
	s.Logger = log.New(io.Discard, "", 0)
	return s
}

// conductor runs at 60 BPM so a 480 tick beat lasts one second.
func conductor() smf.Track {
	var t smf.Track
	t.Add(0, smf.MetaTempo(60))
	t.Add(0, smf.MetaMeter(4, 4))
	t.Close(0)
	return t
}

// named starts a track with its name at tick zero.
func named(name string) smf.Track {
	var t smf.Track
	t.Add(0, smf.MetaTrackSequenceName(name))
	return t
}

func write(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func load(t *testing.T, data []byte) *song.Chart {
	t.Helper()
	chart, err := Load(data, settings(), config.NoIniModifiers())
	require.NoError(t, err)
	return chart
}

func expertGuitar(t *testing.T, chart *song.Chart) *song.DifficultyTrack[note.FiveFret] {
	t.Helper()
	track := chart.FiveFret[model.FiveFretGuitar]
	require.NotNil(t, track)
	expert := track.Get(model.Expert)
	require.NotNil(t, expert)
	return expert
}

func TestLoadSingleNote(t *testing.T) {
	guitar := named("PART GUITAR")
	guitar.Add(0, gomidi.NoteOn(0, 96, 100))
	guitar.Add(480, gomidi.NoteOff(0, 96))
	guitar.Close(0)

	chart := load(t, write(t, conductor(), guitar))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 1, notes.Len())
	e := notes.At(0)
	assert.Equal(t, int64(0), e.Key.Ticks)
	assert.True(t, e.Value.Mask.Has(note.Green))
	assert.Equal(t, 1, e.Value.Mask.Count())
	assert.Equal(t, int64(480), e.Value.Lanes[note.Green].Ticks)
	assert.InDelta(t, 1.0, e.Value.Lanes[note.Green].Seconds, 1e-9)
	assert.Equal(t, note.Strum, e.Value.State)
	assert.Nil(t, chart.FiveFret[model.FiveFretBass])
}

func TestLoadSingleTrackFile(t *testing.T) {
	guitar := named("PART GUITAR")
	guitar.Add(0, smf.MetaTempo(120))
	guitar.Add(0, gomidi.NoteOn(0, 96, 100))
	guitar.Add(480, gomidi.NoteOff(0, 96))
	guitar.Close(0)

	chart := load(t, write(t, guitar))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 1, notes.Len())
	assert.InDelta(t, 0.5, notes.At(0).Value.Lanes[note.Green].Seconds, 1e-9)
}

func TestChordSnapping(t *testing.T) {
	guitar := named("PART GUITAR")
	guitar.Add(0, gomidi.NoteOn(0, 96, 100))
	guitar.Add(15, gomidi.NoteOn(0, 97, 100))
	guitar.Add(1, gomidi.NoteOff(0, 96))
	guitar.Add(0, gomidi.NoteOff(0, 97))
	// 16 ticks apart is already a new note
	guitar.Add(464, gomidi.NoteOn(0, 98, 100))
	guitar.Add(16, gomidi.NoteOn(0, 99, 100))
	guitar.Add(10, gomidi.NoteOff(0, 98))
	guitar.Add(0, gomidi.NoteOff(0, 99))
	guitar.Close(0)

	chart := load(t, write(t, conductor(), guitar))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 3, notes.Len())
	chord := notes.At(0).Value
	assert.True(t, chord.Mask.Has(note.Green))
	assert.True(t, chord.Mask.Has(note.Red))
	assert.True(t, chord.IsChord())
	assert.Equal(t, int64(480), notes.At(1).Key.Ticks)
	assert.Equal(t, int64(496), notes.At(2).Key.Ticks)
	// 16 ticks after a different single note
	assert.Equal(t, note.Hopo, notes.At(2).Value.State)
}

func TestForcingAndOpens(t *testing.T) {
	guitar := named("PART GUITAR")
	guitar.Add(0, smf.MetaText("[ENHANCED_OPENS]"))
	guitar.Add(0, gomidi.NoteOn(0, 95, 100))
	guitar.Add(10, gomidi.NoteOff(0, 95))
	// close enough for a natural hopo, forced to strum
	guitar.Add(90, gomidi.NoteOn(0, 97, 100))
	guitar.Add(0, gomidi.NoteOn(0, 102, 100))
	guitar.Add(10, gomidi.NoteOff(0, 97))
	guitar.Add(0, gomidi.NoteOff(0, 102))
	// tap phrase
	guitar.Add(380, gomidi.NoteOn(0, 104, 100))
	guitar.Add(0, gomidi.NoteOn(0, 98, 100))
	guitar.Add(10, gomidi.NoteOff(0, 98))
	guitar.Add(0, gomidi.NoteOff(0, 104))
	guitar.Close(0)

	chart := load(t, write(t, conductor(), guitar))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 3, notes.Len())
	assert.True(t, notes.At(0).Value.Mask.Has(note.Open))
	assert.Equal(t, note.Strum, notes.At(1).Value.State)
	assert.Equal(t, note.Tap, notes.At(2).Value.State)

	tap, ok := chart.FiveFret[model.FiveFretGuitar].Phrases.FindValue(490)
	require.True(t, ok)
	assert.True(t, tap.Has(model.TapPhrase))
}

func TestOpensIgnoredWithoutFlag(t *testing.T) {
	guitar := named("PART GUITAR")
	guitar.Add(0, gomidi.NoteOn(0, 95, 100))
	guitar.Add(10, gomidi.NoteOff(0, 95))
	guitar.Add(0, gomidi.NoteOn(0, 96, 100))
	guitar.Add(10, gomidi.NoteOff(0, 96))
	guitar.Close(0)

	chart := load(t, write(t, conductor(), guitar))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 1, notes.Len())
	assert.False(t, notes.At(0).Value.Mask.Has(note.Open))
}

func TestDuplicateTrackSkipped(t *testing.T) {
	first := named("PART GUITAR")
	first.Add(0, gomidi.NoteOn(0, 96, 100))
	first.Add(10, gomidi.NoteOff(0, 96))
	first.Close(0)
	second := named("T1 GEMS")
	second.Add(960, gomidi.NoteOn(0, 97, 100))
	second.Add(10, gomidi.NoteOff(0, 97))
	second.Close(0)

	chart := load(t, write(t, conductor(), first, second))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 1, notes.Len())
	assert.Equal(t, int64(0), notes.At(0).Key.Ticks)
}

func TestActiveInstrumentFilter(t *testing.T) {
	guitar := named("PART GUITAR")
	guitar.Add(0, gomidi.NoteOn(0, 96, 100))
	guitar.Add(10, gomidi.NoteOff(0, 96))
	guitar.Close(0)
	bass := named("PART BASS")
	bass.Add(0, gomidi.NoteOn(0, 96, 100))
	bass.Add(10, gomidi.NoteOff(0, 96))
	bass.Close(0)

	s := settings()
	s.ActiveInstruments = model.NewInstrumentSet(model.FiveFretBass)
	chart, err := Load(write(t, conductor(), guitar, bass), s, config.NoIniModifiers())
	require.NoError(t, err)
	defer chart.Dispose()

	assert.Nil(t, chart.FiveFret[model.FiveFretGuitar])
	require.NotNil(t, chart.FiveFret[model.FiveFretBass])
	assert.Equal(t, 1, chart.FiveFret[model.FiveFretBass].Get(model.Expert).Notes.Len())
}

func TestFilteredTrackNotParsed(t *testing.T) {
	var conductor rawTrack
	conductor = conductor.event(t, 0, 0xFF, 0x51, 0x03, 0x0F, 0x42, 0x40)

	var guitar rawTrack
	guitar = guitar.name(t, "PART GUITAR")
	guitar = guitar.event(t, 0, 0x90, 96, 100)
	guitar = guitar.event(t, 480, 0x80, 96, 0)

	var bass rawTrack
	bass = bass.name(t, "PART BASS")
	bass = bass.event(t, 0, 0x90, 96, 100)
	// note-off cut short after its key
	bass = bass.event(t, 10, 0x80, 96)
	data := rawFile(t, conductor.end(t), guitar.end(t), bass)

	s := settings()
	s.ActiveInstruments = model.NewInstrumentSet(model.FiveFretGuitar)
	chart, err := Load(data, s, config.NoIniModifiers())
	require.NoError(t, err)
	defer chart.Dispose()
	assert.Nil(t, chart.FiveFret[model.FiveFretBass])
	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 1, notes.Len())
	assert.Equal(t, 1.0, notes.At(0).Value.Lanes[note.Green].Seconds)

	_, err = Load(data, settings(), config.NoIniModifiers())
	assert.True(t, errors.Is(err, midi.ErrTruncated))
}

func drumsTrack(notes ...uint8) smf.Track {
	tr := named("PART DRUMS")
	for _, n := range notes {
		tr.Add(0, gomidi.NoteOn(9, n, 100))
	}
	for _, n := range notes {
		tr.Add(10, gomidi.NoteOff(9, n))
	}
	tr.Close(0)
	return tr
}

func TestDrumsLayout(t *testing.T) {
	t.Run("four lane", func(t *testing.T) {
		chart := load(t, write(t, conductor(), drumsTrack(96, 97, 98)))
		defer chart.Dispose()
		require.NotNil(t, chart.FourLaneDrums)
		assert.Nil(t, chart.UnknownDrums)
		n := chart.FourLaneDrums.Get(model.Expert).Notes.At(0).Value
		assert.True(t, n.Mask.Has(note.Kick))
		assert.True(t, n.Mask.Has(note.YellowPad))
		assert.Zero(t, n.Cymbals)
	})
	t.Run("five lane", func(t *testing.T) {
		chart := load(t, write(t, conductor(), drumsTrack(96, 101)))
		defer chart.Dispose()
		require.NotNil(t, chart.FiveLaneDrums)
		assert.Nil(t, chart.FourLaneDrums)
		n := chart.FiveLaneDrums.Get(model.Expert).Notes.At(0).Value
		assert.True(t, n.Mask.Has(note.FiveLaneGreen))
	})
	t.Run("pro from tom markers", func(t *testing.T) {
		chart := load(t, write(t, conductor(), drumsTrack(110, 98, 99)))
		defer chart.Dispose()
		require.NotNil(t, chart.ProDrums)
		n := chart.ProDrums.Get(model.Expert).Notes.At(0).Value
		assert.False(t, n.IsCymbal(note.YellowPad))
		assert.True(t, n.IsCymbal(note.BluePad))
	})
	t.Run("ini forces five lane", func(t *testing.T) {
		ini := config.NoIniModifiers()
		ini.FiveLaneDrums = config.On
		chart, err := Load(write(t, conductor(), drumsTrack(96)), settings(), ini)
		require.NoError(t, err)
		defer chart.Dispose()
		assert.NotNil(t, chart.FiveLaneDrums)
	})
}

func TestDrumDynamics(t *testing.T) {
	drums := named("PART DRUMS")
	drums.Add(0, smf.MetaText("[ENABLE_CHART_DYNAMICS]"))
	drums.Add(0, gomidi.NoteOn(9, 96, 127))
	drums.Add(0, gomidi.NoteOn(9, 97, 127))
	drums.Add(0, gomidi.NoteOn(9, 98, 1))
	drums.Add(10, gomidi.NoteOff(9, 96))
	drums.Close(0)

	chart := load(t, write(t, conductor(), drums))
	defer chart.Dispose()

	n := chart.FourLaneDrums.Get(model.Expert).Notes.At(0).Value
	assert.Equal(t, note.NoDynamics, n.Dynamics[note.Kick])
	assert.Equal(t, note.Accent, n.Dynamics[note.RedPad])
	assert.Equal(t, note.Ghost, n.Dynamics[note.YellowPad])
}

func TestVocals(t *testing.T) {
	vocals := named("PART VOCALS")
	vocals.Add(0, gomidi.NoteOn(0, 105, 100))
	vocals.Add(0, smf.MetaLyric("Hel-"))
	vocals.Add(0, gomidi.NoteOn(0, 60, 100))
	// the next note starts before this one ends
	vocals.Add(480, gomidi.NoteOn(0, 62, 100))
	vocals.Add(0, smf.MetaLyric("lo#"))
	vocals.Add(10, gomidi.NoteOff(0, 60))
	vocals.Add(90, gomidi.NoteOff(0, 62))
	vocals.Add(0, gomidi.NoteOn(0, 96, 100))
	vocals.Add(0, gomidi.NoteOff(0, 105))
	vocals.Add(10, gomidi.NoteOff(0, 96))
	vocals.Close(0)

	chart := load(t, write(t, conductor(), vocals))
	defer chart.Dispose()

	require.NotNil(t, chart.Vocals)
	notes := chart.Vocals.Notes
	require.Equal(t, 2, notes.Len())

	first := notes.At(0).Value
	assert.Equal(t, "Hel-", first.Lyric)
	assert.Equal(t, int8(60), first.Pitch)
	assert.Equal(t, int64(360), first.Length.Ticks)

	second := notes.At(1).Value
	assert.Equal(t, "lo", second.Lyric)
	assert.Equal(t, note.Talkie, second.Talk)
	assert.False(t, second.IsPitched())
	assert.Equal(t, int64(100), second.Length.Ticks)

	assert.Equal(t, 2, chart.Vocals.Lyrics.Len())
	assert.Equal(t, 1, chart.Vocals.Percussion.Len())
	line, ok := chart.Vocals.Phrases.FindValue(0)
	require.True(t, ok)
	length, _ := line.Get(model.LyricLine)
	assert.Equal(t, int64(580), length.Ticks)
}

func TestProKeysChordLimit(t *testing.T) {
	keys := named("PART REAL_KEYS_X")
	for _, p := range []uint8{48, 50, 52, 53, 55} {
		keys.Add(0, gomidi.NoteOn(0, p, 100))
	}
	keys.Add(0, gomidi.NoteOn(0, 5, 100))
	keys.Add(240, gomidi.NoteOff(0, 48))
	keys.Close(0)

	chart := load(t, write(t, conductor(), keys))
	defer chart.Dispose()

	expert := chart.ProKeys.Get(model.Expert)
	n := expert.Notes.At(0).Value
	assert.Equal(t, uint8(note.MaxKeys), n.Count)
	assert.Equal(t, int64(240), n.LongestSustain().Ticks)

	phrase, ok := expert.Phrases.FindValue(0)
	require.True(t, ok)
	assert.True(t, phrase.Has(model.RangeShift))
	events, ok := expert.Events.FindValue(0)
	require.True(t, ok)
	assert.Contains(t, *events, "range_shift 53")
}

func TestProGuitar(t *testing.T) {
	pro := named("PART REAL_GUITAR")
	// expert low E, fret 5, then a muted fret 3 on the A string
	pro.Add(0, gomidi.NoteOn(0, 96, 105))
	pro.Add(0, gomidi.NoteOn(3, 97, 103))
	pro.Add(0, gomidi.NoteOn(0, 102, 100))
	pro.Add(240, gomidi.NoteOff(0, 96))
	pro.Add(0, gomidi.NoteOff(3, 97))
	pro.Add(0, gomidi.NoteOff(0, 102))
	// fret 18 does not exist on a 17 fret guitar
	pro.Add(240, gomidi.NoteOn(0, 96, 118))
	pro.Add(10, gomidi.NoteOff(0, 96))
	pro.Close(0)

	chart := load(t, write(t, conductor(), pro))
	defer chart.Dispose()

	notes := chart.ProGuitar[model.ProGuitar17Fret-model.ProGuitar17Fret].Get(model.Expert).Notes
	require.Equal(t, 1, notes.Len())
	n := notes.At(0).Value
	assert.Equal(t, int8(5), n.Strings[0].Fret)
	assert.Equal(t, int8(3), n.Strings[1].Fret)
	assert.Equal(t, note.MutedString, n.Strings[1].Mode)
	assert.True(t, n.Hopo)
	assert.Equal(t, int64(240), n.Strings[0].Length.Ticks)
}

func TestEventsAndSections(t *testing.T) {
	events := named("EVENTS")
	events.Add(0, smf.MetaText("[section intro]"))
	events.Add(480, smf.MetaText("[prc_verse_1]"))
	events.Add(480, smf.MetaText("[end]"))
	events.Close(0)

	beat := named("BEAT")
	beat.Add(0, gomidi.NoteOn(0, 12, 100))
	beat.Add(0, gomidi.NoteOn(0, 13, 100))
	beat.Add(240, gomidi.NoteOff(0, 12))
	beat.Add(0, gomidi.NoteOff(0, 13))
	beat.Add(240, gomidi.NoteOn(0, 13, 100))
	beat.Add(240, gomidi.NoteOff(0, 13))
	beat.Close(0)

	chart := load(t, write(t, conductor(), events, beat))
	defer chart.Dispose()

	require.Equal(t, 2, chart.Sections.Len())
	assert.Equal(t, "intro", chart.Sections.At(0).Value)
	assert.Equal(t, "verse_1", chart.Sections.At(1).Value)
	end, ok := chart.Events.FindValue(960)
	require.True(t, ok)
	assert.Equal(t, []string{"[end]"}, *end)

	require.Equal(t, 2, chart.BeatLines.Len())
	assert.Equal(t, model.Measure, chart.BeatLines.At(0).Value)
	assert.Equal(t, model.Strong, chart.BeatLines.At(1).Value)
}

// rawFile builds a format 1 file by hand. gomidi does not give control over
// how sysex lands in a track.
func rawFile(t *testing.T, tracks ...[]byte) []byte {
	t.Helper()
	data := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, byte(len(tracks)), resolution >> 8, resolution & 0xFF}
	for _, body := range tracks {
		n := len(body)
		data = append(data, 'M', 'T', 'r', 'k', byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		data = append(data, body...)
	}
	return data
}

type rawTrack []byte

func (r rawTrack) event(t *testing.T, delta uint32, msg ...byte) rawTrack {
	t.Helper()
	out, err := midi.AppendVLQ(r, delta)
	require.NoError(t, err)
	return append(out, msg...)
}

func (r rawTrack) sysex(t *testing.T, delta uint32, payload ...byte) rawTrack {
	body := append(payload, 0xF7)
	r = r.event(t, delta, 0xF0)
	out, err := midi.AppendVLQ(r, uint32(len(body)))
	require.NoError(t, err)
	return append(out, body...)
}

func (r rawTrack) name(t *testing.T, name string) rawTrack {
	r = r.event(t, 0, 0xFF, 0x03, byte(len(name)))
	return append(r, name...)
}

func (r rawTrack) end(t *testing.T) []byte {
	return r.event(t, 0, 0xFF, 0x2F, 0x00)
}

func TestPhaseShiftSysex(t *testing.T) {
	var tempoTrack rawTrack
	tempoTrack = tempoTrack.event(t, 0, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20)

	var guitar rawTrack
	guitar = guitar.name(t, "PART GUITAR")
	// green becomes open on expert
	guitar = guitar.event(t, 0, 0x90, 96, 100)
	guitar = guitar.sysex(t, 0, 'P', 'S', 0, 0, byte(model.Expert), 1, 1)
	guitar = guitar.event(t, 240, 0x80, 96, 0)
	guitar = guitar.sysex(t, 0, 'P', 'S', 0, 0, byte(model.Expert), 1, 0)
	// tap on every difficulty
	guitar = guitar.sysex(t, 240, 'P', 'S', 0, 0, 0xFF, 4, 1)
	guitar = guitar.event(t, 0, 0x90, 97, 100)
	guitar = guitar.event(t, 10, 0x80, 97, 0)
	guitar = guitar.sysex(t, 0, 'P', 'S', 0, 0, 0xFF, 4, 0)

	chart := load(t, rawFile(t, tempoTrack.end(t), guitar.end(t)))
	defer chart.Dispose()

	notes := expertGuitar(t, chart).Notes
	require.Equal(t, 2, notes.Len())
	open := notes.At(0).Value
	assert.True(t, open.Mask.Has(note.Open))
	assert.False(t, open.Mask.Has(note.Green))
	assert.Equal(t, int64(240), open.Lanes[note.Open].Ticks)
	assert.Equal(t, note.Tap, notes.At(1).Value.State)
}

func TestConflictingTrackNamesSkipped(t *testing.T) {
	var guitar rawTrack
	guitar = guitar.name(t, "PART GUITAR")
	guitar = guitar.name(t, "PART BASS")
	guitar = guitar.event(t, 0, 0x90, 96, 100)
	guitar = guitar.event(t, 10, 0x80, 96, 0)

	var tempoTrack rawTrack
	chart := load(t, rawFile(t, tempoTrack.end(t), guitar.end(t)))
	defer chart.Dispose()
	assert.Nil(t, chart.FiveFret[model.FiveFretGuitar])
	assert.Nil(t, chart.FiveFret[model.FiveFretBass])
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("not a midi file"), settings(), config.NoIniModifiers())
	assert.Error(t, err)
}

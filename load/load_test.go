package load

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
)

func settings() config.LoaderSettings {
	s := config.DefaultSettings()
	s.Logger = log.New(io.Discard, "", 0)
	return s
}

func midiFile(t *testing.T) []byte {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var guitar smf.Track
	guitar.Add(0, smf.MetaTrackSequenceName("PART GUITAR"))
	guitar.Add(0, smf.MetaTempo(120))
	guitar.Add(0, gomidi.NoteOn(0, 96, 100))
	guitar.Add(480, gomidi.NoteOff(0, 96))
	guitar.Close(0)
	require.NoError(t, s.Add(guitar))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

const chartFile = `[Song]
{
  Resolution = 192
}
[ExpertSingle]
{
  0 = N 0 192
}
`

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, model.MidiFormat, DetectFormat(midiFile(t)))
	assert.Equal(t, model.ChartFormat, DetectFormat([]byte(chartFile)))
	assert.Equal(t, model.ChartFormat, DetectFormat([]byte{0xFF, 0xFE, '[', 0, 'S', 0}))
	assert.Equal(t, model.UnknownFormat, DetectFormat([]byte("hello")))
	assert.Equal(t, model.UnknownFormat, DetectFormat(nil))
}

func TestLoadBothFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"midi":  midiFile(t),
		"chart": []byte(chartFile),
	} {
		t.Run(name, func(t *testing.T) {
			chart, err := Load(data, settings(), config.NoIniModifiers())
			require.NoError(t, err)
			defer chart.Dispose()

			notes := chart.FiveFret[model.FiveFretGuitar].Get(model.Expert).Notes
			require.Equal(t, 1, notes.Len())
			e := notes.At(0)
			assert.True(t, e.Value.Mask.Has(note.Green))
			// one beat at 120 BPM
			assert.InDelta(t, 0.5, e.Value.LongestSustain().Seconds, 1e-9)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]byte("hello"), settings(), config.NoIniModifiers())
	var loadErr *Error
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, model.UnknownFormat, loadErr.Format)
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	badTrack := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 1, 1, 0xE0, 'M', 'T', 'x', 'x', 0, 0, 0, 0}
	_, err = Load(badTrack, settings(), config.NoIniModifiers())
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, model.MidiFormat, loadErr.Format)
	assert.Contains(t, err.Error(), "load midi")
	assert.True(t, errors.Is(err, midi.ErrInvalidTag))
}

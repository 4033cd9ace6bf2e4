//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/yargchart/cmd"
	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/util"
)

const dotChart = `[Song]
{
  Name = "Chart Song"
  Resolution = 192
}
[SyncTrack]
{
  0 = B 120000
}
[ExpertDrums]
{
  0 = N 0 0
  0 = N 2 0
  0 = N 66 0
}
`

func midiSong(t *testing.T) []byte {
	t.Helper()
	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(4, 4))
	conductor.Add(0, smf.MetaTempo(120))
	conductor.Close(0)

	var guitar smf.Track
	guitar.Add(0, smf.MetaTrackSequenceName("PART GUITAR"))
	guitar.Add(0, midi.NoteOn(0, 96, 100))
	guitar.Add(480, midi.NoteOff(0, 96))
	guitar.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	require.NoError(t, s.Add(conductor))
	require.NoError(t, s.Add(guitar))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func songsDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel string, data []byte) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	write("artist/midi song/notes.mid", midiSong(t))
	write("artist/midi song/song.ini", []byte("[song]\nname = Midi Song\n"))
	write("chart song/notes.chart", []byte(dotChart))
	write("chart song/song.ini", []byte("[Song]\npro_drums = True\n"))
	write("not a song/readme.txt", []byte("hello"))
	return root
}

func quiet() config.LoaderSettings {
	s := config.DefaultSettings()
	s.Logger = log.New(io.Discard, "", 0)
	return s
}

func TestLoadSongFolders(t *testing.T) {
	root := songsDir(t)
	dirs, err := util.GatherSongDirs(root, 0)
	require.NoError(t, err)
	require.Len(t, dirs, 2)

	for _, dir := range dirs {
		chart, err := cmd.LoadSong(dir, quiet())
		require.NoError(t, err, dir)
		assert.NotEmpty(t, chart.Summary(), dir)
		chart.Dispose()
	}
}

func TestIniDrivesDrumLayout(t *testing.T) {
	chart, err := cmd.LoadSong(filepath.Join(songsDir(t), "chart song"), quiet())
	require.NoError(t, err)
	defer chart.Dispose()

	require.NotNil(t, chart.ProDrums)
	assert.Nil(t, chart.FourLaneDrums)
	notes := chart.ProDrums.Get(model.Expert).Notes
	require.Equal(t, 1, notes.Len())
	assert.True(t, notes.At(0).Value.IsCymbal(2))
}

func TestServeMidiUpload(t *testing.T) {
	server := httptest.NewServer(cmd.NewRouter())
	defer server.Close()

	resp, err := http.Post(server.URL+"/load", "audio/midi", bytes.NewReader(midiSong(t)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.LoadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "midi", res.Format)
	assert.Equal(t, uint16(480), res.Resolution)
	assert.Equal(t, []model.TrackSummary{
		{Instrument: "FiveFretGuitar", Difficulty: "Expert", Notes: 1},
	}, res.Tracks)
	// a single beat sustain at 120 BPM
	assert.Equal(t, int64(480), res.EndTicks)
	assert.Equal(t, 0.5, res.EndSeconds)
}

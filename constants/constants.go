package constants

import "os"

// GetSongsDir is where the watch command looks when no folder is given.
func GetSongsDir() string {
	path := os.Getenv("SONGS_PATH")
	if path != "" {
		return path
	}
	return "./songs"
}

func GetListenAddr() string {
	addr := os.Getenv("LISTEN_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// chart files a song folder may contain, in order of preference
var ChartFileNames = []string{"notes.mid", "notes.midi", "notes.chart"}

const IniFileName = "song.ini"

// MaxChartSize bounds uploads to the load endpoint.
const MaxChartSize = 32 * 1024 * 1024

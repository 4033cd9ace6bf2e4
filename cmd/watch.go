package cmd

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/constants"
	"github.com/jsphweid/yargchart/util"
)

const reloadDelay = 500 * time.Millisecond

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [songs folder]",
	Short: "Reloads charts whenever they change",
	Long: `Loads every chart under the folder (SONGS_PATH by default) and loads
it again whenever its chart file or song.ini is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := constants.GetSongsDir()
		if len(args) == 1 {
			root = args[0]
		}
		return watch(root)
	},
}

// reloader debounces reloads per song folder; editors write a file in
// several steps.
type reloader struct {
	settings config.LoaderSettings
	mu       sync.Mutex
	pending  map[string]func(func())
}

func (r *reloader) trigger(dir string) {
	r.mu.Lock()
	debounced, ok := r.pending[dir]
	if !ok {
		debounced = debounce.New(reloadDelay)
		r.pending[dir] = debounced
	}
	r.mu.Unlock()
	debounced(func() { r.reload(dir) })
}

func (r *reloader) reload(dir string) {
	start := time.Now()
	chart, err := LoadSong(dir, r.settings)
	if err != nil {
		logger.Printf("ERROR: %s: %v", dir, err)
		return
	}
	defer chart.Dispose()
	logger.Printf("%s: %d tracks, ends at %s (%v)", dir, len(chart.Summary()), chart.EndTime(), time.Since(start))
}

func watch(root string) error {
	r := &reloader{settings: config.FromEnv(logger), pending: make(map[string]func(func()))}

	dirs, err := util.GatherSongDirs(root, 0)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, dir := range dirs {
		r.reload(dir)
		if err := watcher.Add(dir); err != nil {
			logger.Printf("ERROR: watching %s: %v", dir, err)
		}
	}
	logger.Printf("Watching %d song folders under %s", len(dirs), root)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if util.IsChartFile(name) || name == constants.IniFileName {
				r.trigger(filepath.Dir(event.Name))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("ERROR: Watcher error: %v", err)
		}
	}
}

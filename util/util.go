package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
	"gopkg.in/ini.v1"

	"github.com/jsphweid/yargchart/constants"
)

var ErrNoChart = errors.New("no chart file found")

func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsChartFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".mid" || ext == ".midi" || ext == ".chart"
}

// FindChart returns the chart file of a song folder. A path to a file is
// returned as is.
func FindChart(path string) (string, error) {
	if !IsDirectory(path) {
		return path, nil
	}
	for _, name := range constants.ChartFileNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.Wrap(ErrNoChart, path)
}

// GatherSongDirs lists every folder under root holding a chart file, at
// most maxNum of them unless maxNum is 0.
func GatherSongDirs(root string, maxNum int) ([]string, error) {
	var res []string
	seen := make(map[string]bool)
	err := filepath.WalkDir(root, func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsChartFile(s) {
			return nil
		}
		dir := filepath.Dir(s)
		if !seen[dir] && (maxNum == 0 || len(res) < maxNum) {
			seen[dir] = true
			res = append(res, dir)
		}
		return nil
	})
	return res, err
}

// ReadChart reads the chart at path (a file or a song folder) together with
// the song.ini next to it. A missing ini is not an error.
func ReadChart(path string) ([]byte, map[string]string, error) {
	chartPath, err := FindChart(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(chartPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read chart")
	}
	ini, err := ReadIni(filepath.Join(filepath.Dir(chartPath), constants.IniFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}
	return data, ini, nil
}

// ReadIni reads the key = value lines of the [song] section, plus any that
// come before the first section. Keys are lower-cased.
func ReadIni(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "read song.ini")
	}

	values := make(map[string]string)
	for _, name := range []string{ini.DefaultSection, "song"} {
		section, err := file.GetSection(name)
		if err != nil {
			continue
		}
		for _, key := range section.Keys() {
			values[strings.ToLower(key.Name())] = key.Value()
		}
	}
	return values, nil
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

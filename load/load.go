// Package load is the entry point: it sniffs the format of a chart buffer
// and hands it to the matching loader.
package load

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jsphweid/yargchart/chartload"
	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/midi"
	"github.com/jsphweid/yargchart/midiload"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/song"
)

var ErrUnknownFormat = errors.New("unrecognized chart format")

// Error is a failed load. Err is the loader's own error.
type Error struct {
	Format model.Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("load %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

// DetectFormat checks for the MIDI header tag. Anything else with a
// section bracket somewhere is taken for a .chart file, in any encoding.
func DetectFormat(data []byte) model.Format {
	switch {
	case midi.IsMidi(data):
		return model.MidiFormat
	case bytes.IndexByte(data, '[') >= 0:
		return model.ChartFormat
	}
	return model.UnknownFormat
}

// Load parses data into a finalized chart.
func Load(data []byte, settings config.LoaderSettings, ini config.IniModifiers) (*song.Chart, error) {
	format := DetectFormat(data)
	var (
		chart *song.Chart
		err   error
	)
	switch format {
	case model.MidiFormat:
		chart, err = midiload.Load(data, settings, ini)
	case model.ChartFormat:
		chart, err = chartload.Load(data, settings, ini)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, &Error{Format: format, Err: err}
	}
	settings.Log().Printf("Loaded %s chart: %d tempo markers, ends at %s", format, chart.Sync.Tempos.Len(), chart.EndTime())
	return chart, nil
}

package song

import (
	"github.com/pkg/errors"

	"github.com/jsphweid/yargchart/config"
	"github.com/jsphweid/yargchart/model"
	"github.com/jsphweid/yargchart/note"
)

var ErrIncompatibleDrums = errors.New("five lane drums cannot be converted to four lanes")

// DrumsType is the layout of a drum track as far as it is known.
type DrumsType uint8

const (
	UnknownDrums DrumsType = iota
	// FourOrPro is four lanes for sure, pro only if cymbals show up.
	FourOrPro
	// FourOrFive has no pro markings, five lanes only if a fifth pad shows up.
	FourOrFive
	FourLane
	ProDrums
	FiveLane
)

var drumsTypeNames = []string{"Unknown", "FourOrPro", "FourOrFive", "FourLane", "ProDrums", "FiveLane"}

func (t DrumsType) String() string {
	if int(t) < len(drumsTypeNames) {
		return drumsTypeNames[t]
	}
	return "Invalid"
}

func (t DrumsType) IsResolved() bool {
	return t >= FourLane
}

// DrumContext is the drum layout classification of a single chart load. It
// is threaded through the drum loaders instead of living in package state.
type DrumContext struct {
	Type DrumsType
}

// NewDrumContext seeds the classification from song.ini.
func NewDrumContext(ini config.IniModifiers) *DrumContext {
	ctx := &DrumContext{}
	switch {
	case ini.FiveLaneDrums == config.On:
		ctx.Type = FiveLane
	case ini.ProDrums == config.On:
		ctx.Type = ProDrums
	case ini.FiveLaneDrums == config.Off:
		ctx.Type = FourOrPro
	case ini.ProDrums == config.Off:
		ctx.Type = FourOrFive
	}
	return ctx
}

// ObserveFifthLane records a pad only five lane kits have.
func (c *DrumContext) ObserveFifthLane() {
	if c.Type == UnknownDrums || c.Type == FourOrFive {
		c.Type = FiveLane
	}
}

// ObserveCymbal records a pro drums marking.
func (c *DrumContext) ObserveCymbal() {
	if c.Type == UnknownDrums || c.Type == FourOrPro {
		c.Type = ProDrums
	}
}

// Resolve settles anything still open on plain four lanes. The result
// sticks.
func (c *DrumContext) Resolve() DrumsType {
	if !c.Type.IsResolved() {
		c.Type = FourLane
	}
	return c.Type
}

// Instrument is the concrete track the classification maps to.
func (t DrumsType) Instrument() model.Instrument {
	switch t {
	case FiveLane:
		return model.FiveLaneDrums
	case ProDrums:
		return model.ProDrums
	}
	return model.FourLaneDrums
}

// ResolveDrums materializes the unknown drum track into its concrete layout
// and disposes it. Layouts filtered out by active are dropped.
func (c *Chart) ResolveDrums(ctx *DrumContext, active model.InstrumentSet) {
	if c.UnknownDrums == nil {
		return
	}
	typ := ctx.Resolve()
	c.DrumsType = typ
	if !active.Has(typ.Instrument()) {
		c.UnknownDrums.Dispose()
		c.UnknownDrums = nil
		return
	}
	switch typ {
	case FiveLane:
		c.FiveLaneDrums = ConvertTrack(c.UnknownDrums, func(n *note.UnknownDrum) note.FiveLaneDrum {
			return n.ToFiveLane()
		})
	case ProDrums:
		c.ProDrums = ConvertTrack(c.UnknownDrums, func(n *note.UnknownDrum) note.FourLaneDrum {
			return n.ToFourLane(true)
		})
	default:
		c.FourLaneDrums = ConvertTrack(c.UnknownDrums, func(n *note.UnknownDrum) note.FourLaneDrum {
			return n.ToFourLane(false)
		})
	}
	c.UnknownDrums = nil
}

// ConvertToFourLane resolves the unknown drum track into a four lane (or pro)
// track. A five lane classification cannot be represented and is rejected.
func (c *Chart) ConvertToFourLane(ctx *DrumContext) error {
	if ctx.Resolve() == FiveLane {
		return errors.Wrapf(ErrIncompatibleDrums, "drum track classified as %s", ctx.Type)
	}
	c.ResolveDrums(ctx, 0)
	return nil
}

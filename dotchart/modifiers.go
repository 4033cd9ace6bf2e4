package dotchart

import "strings"

type ModifierType uint8

const (
	StringModifier ModifierType = iota
	Int64Modifier
	Int32Modifier
	Uint16Modifier
	BoolModifier
	FloatModifier
	FloatPairModifier
)

// Outline maps the lower-cased keys a section may carry to their types.
// Keys missing from the outline are ignored.
type Outline map[string]ModifierType

type Modifier struct {
	Type   ModifierType
	String string
	Int    int64
	Bool   bool
	Floats [2]float64
}

// Modifiers keeps the first occurrence of every key.
type Modifiers map[string]Modifier

// SongOutline covers the [Song] section keys the loaders care about.
var SongOutline = Outline{
	"name":         StringModifier,
	"artist":       StringModifier,
	"charter":      StringModifier,
	"album":        StringModifier,
	"year":         StringModifier,
	"genre":        StringModifier,
	"player2":      StringModifier,
	"mediatype":    StringModifier,
	"musicstream":  StringModifier,
	"guitarstream": StringModifier,
	"bassstream":   StringModifier,
	"drumstream":   StringModifier,
	"offset":       FloatModifier,
	"resolution":   Uint16Modifier,
	"difficulty":   Int32Modifier,
	"previewstart": FloatModifier,
	"previewend":   FloatModifier,
	"preview":      FloatPairModifier,
	"length":       Int64Modifier,
	"modchart":     BoolModifier,
}

// ExtractModifiers reads the "key = value" lines of the current section,
// typed through outline, and leaves the cursor past the closing brace.
func (r *Reader[T]) ExtractModifiers(outline Outline) Modifiers {
	mods := make(Modifiers)
	r.finishLine()
	for r.IsStillCurrentSection() {
		key := r.modifierKey()
		if key == "" || !r.skipEquals() {
			r.pos = r.lineEnd
			continue
		}
		kind, ok := outline[strings.ToLower(key)]
		if !ok {
			r.pos = r.lineEnd
			continue
		}
		name := strings.ToLower(key)
		if _, dup := mods[name]; dup {
			r.log.Printf("Warning: duplicate modifier %q ignored", key)
			r.pos = r.lineEnd
			continue
		}
		mod := Modifier{Type: kind}
		switch kind {
		case StringModifier:
			mod.String = r.ExtractText()
		case Int64Modifier:
			mod.Int, _ = ExtractInteger[int64](r)
		case Int32Modifier:
			v, _ := ExtractInteger[int32](r)
			mod.Int = int64(v)
		case Uint16Modifier:
			v, _ := ExtractInteger[uint16](r)
			mod.Int = int64(v)
		case BoolModifier:
			mod.Bool, _ = r.ExtractBool()
		case FloatModifier:
			mod.Floats[0], _ = r.ExtractFloat()
		case FloatPairModifier:
			mod.Floats[0], _ = r.ExtractFloat()
			mod.Floats[1], _ = r.ExtractFloat()
		}
		mods[name] = mod
		r.pos = r.lineEnd
	}
	return mods
}

func (r *Reader[T]) modifierKey() string {
	r.skipLineSpace()
	start := r.pos
	for r.pos < r.lineEnd && !isSpace(r.buf[r.pos]) && r.buf[r.pos] != '=' {
		r.pos++
	}
	return unitsToString(r.buf[start:r.pos])
}

func (m Modifiers) String(key string) (string, bool) {
	mod, ok := m[key]
	return mod.String, ok && mod.Type == StringModifier
}

func (m Modifiers) Int(key string) (int64, bool) {
	mod, ok := m[key]
	if !ok {
		return 0, false
	}
	switch mod.Type {
	case Int64Modifier, Int32Modifier, Uint16Modifier:
		return mod.Int, true
	}
	return 0, false
}

func (m Modifiers) Float(key string) (float64, bool) {
	mod, ok := m[key]
	return mod.Floats[0], ok && (mod.Type == FloatModifier || mod.Type == FloatPairModifier)
}

func (m Modifiers) Bool(key string) (bool, bool) {
	mod, ok := m[key]
	return mod.Bool, ok && mod.Type == BoolModifier
}

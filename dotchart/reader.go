// Package dotchart reads the line based .chart text format:
//
//	[Section]
//	{
//	  key = value
//	  768 = N 0 192
//	}
//
// The reader works on code units of one width (8, 16 or 32 bit) picked once
// per file by Decode; Go generics give every width its own instantiation.
package dotchart

import (
	"log"
	"strconv"
	"unicode/utf16"

	"golang.org/x/exp/constraints"
)

type EventKind uint8

const (
	UnknownEvent EventKind = iota
	NoteEvent              // N
	SpecialEvent           // S
	TextEvent              // E
	TempoEvent             // B
	TimeSigEvent           // TS
	AnchorEvent            // A
)

type Event struct {
	Ticks int64
	Kind  EventKind
}

type Reader[T CodeUnit] struct {
	buf []T
	pos int
	// end of the line currently being read
	lineEnd int
	// set while the fields of a returned line are being extracted
	inLine bool
	log    *log.Logger
}

func NewReader[T CodeUnit](buf []T, logger *log.Logger) *Reader[T] {
	if logger == nil {
		logger = log.Default()
	}
	return &Reader[T]{buf: buf, log: logger}
}

func isSpace[T CodeUnit](c T) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isLineBreak[T CodeUnit](c T) bool {
	return c == '\n' || c == '\r'
}

func (r *Reader[T]) skipWhitespace() {
	for r.pos < len(r.buf) && isSpace(r.buf[r.pos]) {
		r.pos++
	}
}

// skipLineSpace skips blanks without leaving the current line.
func (r *Reader[T]) skipLineSpace() {
	for r.pos < r.lineEnd && (r.buf[r.pos] == ' ' || r.buf[r.pos] == '\t') {
		r.pos++
	}
}

func (r *Reader[T]) findLineEnd() {
	r.lineEnd = r.pos
	for r.lineEnd < len(r.buf) && !isLineBreak(r.buf[r.lineEnd]) {
		r.lineEnd++
	}
}

func (r *Reader[T]) gotoNextLine() {
	r.pos = r.lineEnd
	r.skipWhitespace()
	r.findLineEnd()
}

// NextSection advances to the next "[Name]" header followed by "{" and
// returns the name. Stray lines between sections are skipped.
func (r *Reader[T]) NextSection() (string, bool) {
	r.finishLine()
	for {
		r.skipWhitespace()
		if r.pos >= len(r.buf) {
			return "", false
		}
		r.findLineEnd()
		if r.buf[r.pos] != '[' {
			r.pos = r.lineEnd
			continue
		}
		start := r.pos + 1
		end := start
		for end < r.lineEnd && r.buf[end] != ']' {
			end++
		}
		name := unitsToString(r.buf[start:end])
		r.pos = r.lineEnd
		r.skipWhitespace()
		if r.pos < len(r.buf) && r.buf[r.pos] == '{' {
			r.pos++
			r.findLineEnd()
			r.gotoNextLine()
			return name, true
		}
		r.log.Printf("Warning: section [%s] has no opening brace", name)
	}
}

// IsStillCurrentSection reports whether the cursor is inside the section
// body. On the closing brace it consumes it and returns false.
func (r *Reader[T]) IsStillCurrentSection() bool {
	r.skipWhitespace()
	if r.pos >= len(r.buf) {
		return false
	}
	r.findLineEnd()
	if r.buf[r.pos] == '}' {
		r.pos++
		return false
	}
	// a missing closing brace before the next header ends the section too
	return r.buf[r.pos] != '['
}

// SkipSection moves past the closing brace of the current section.
func (r *Reader[T]) SkipSection() {
	r.finishLine()
	for r.IsStillCurrentSection() {
		r.pos = r.lineEnd
	}
}

// NextEvent parses "ticks = Kind" at the start of the next line of the
// section. The remaining fields are read with the Extract functions. It
// returns false at the end of the section.
func (r *Reader[T]) NextEvent() (Event, bool) {
	r.finishLine()
	for r.IsStillCurrentSection() {
		ticks, ok := ExtractInteger[int64](r)
		if !ok || !r.skipEquals() {
			r.log.Printf("Warning: skipping malformed line %q", r.currentLine())
			r.pos = r.lineEnd
			continue
		}
		r.skipLineSpace()
		start := r.pos
		for r.pos < r.lineEnd && !isSpace(r.buf[r.pos]) {
			r.pos++
		}
		ev := Event{Ticks: ticks, Kind: eventKind(r.buf[start:r.pos])}
		r.skipLineSpace()
		r.inLine = true
		return ev, true
	}
	return Event{}, false
}

// finishLine drops whatever the caller left unread on the current line.
func (r *Reader[T]) finishLine() {
	if r.inLine {
		r.pos = r.lineEnd
		r.inLine = false
	}
}

func (r *Reader[T]) skipEquals() bool {
	r.skipLineSpace()
	if r.pos < r.lineEnd && r.buf[r.pos] == '=' {
		r.pos++
		r.skipLineSpace()
		return true
	}
	return false
}

func (r *Reader[T]) currentLine() string {
	start := r.pos
	for start > 0 && !isLineBreak(r.buf[start-1]) {
		start--
	}
	return unitsToString(r.buf[start:r.lineEnd])
}

func eventKind[T CodeUnit](token []T) EventKind {
	switch len(token) {
	case 1:
		switch token[0] {
		case 'N':
			return NoteEvent
		case 'S':
			return SpecialEvent
		case 'E':
			return TextEvent
		case 'B':
			return TempoEvent
		case 'A':
			return AnchorEvent
		}
	case 2:
		if token[0] == 'T' && token[1] == 'S' {
			return TimeSigEvent
		}
	}
	return UnknownEvent
}

// ExtractInteger reads a signed decimal field on the current line. A field
// that is missing, malformed or out of N's range reports false and yields
// zero; the cursor still moves past it.
func ExtractInteger[N constraints.Integer, T CodeUnit](r *Reader[T]) (N, bool) {
	r.skipLineSpace()
	start := r.pos
	negative := false
	if r.pos < r.lineEnd && (r.buf[r.pos] == '-' || r.buf[r.pos] == '+') {
		negative = r.buf[r.pos] == '-'
		r.pos++
	}
	var value int64
	digits := 0
	overflow := false
	for r.pos < r.lineEnd && r.buf[r.pos] >= '0' && r.buf[r.pos] <= '9' {
		if value > (1<<62)/5 {
			overflow = true
		}
		value = value*10 + int64(r.buf[r.pos]-'0')
		digits++
		r.pos++
	}
	clean := digits > 0 && !overflow && (r.pos == r.lineEnd || isSpace(r.buf[r.pos]) || r.buf[r.pos] == '=')
	for r.pos < r.lineEnd && !isSpace(r.buf[r.pos]) && r.buf[r.pos] != '=' {
		r.pos++
	}
	if !clean {
		if r.pos > start {
			r.log.Printf("Warning: malformed integer %q, using 0", unitsToString(r.buf[start:r.pos]))
		}
		return 0, false
	}
	if negative {
		value = -value
	}
	n := N(value)
	if int64(n) != value || (value < 0) != (n < 0) {
		r.log.Printf("Warning: integer %d out of range, using 0", value)
		return 0, false
	}
	return n, true
}

func (r *Reader[T]) token() string {
	r.skipLineSpace()
	start := r.pos
	for r.pos < r.lineEnd && !isSpace(r.buf[r.pos]) {
		r.pos++
	}
	return unitsToString(r.buf[start:r.pos])
}

// ExtractFloat reads a decimal field, logging and yielding zero on failure.
func (r *Reader[T]) ExtractFloat() (float64, bool) {
	tok := r.token()
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		r.log.Printf("Warning: malformed float %q, using 0", tok)
		return 0, false
	}
	return f, true
}

// ExtractBool accepts true/false and 1/0.
func (r *Reader[T]) ExtractBool() (bool, bool) {
	switch tok := r.token(); tok {
	case "true", "True", "TRUE", "1":
		return true, true
	case "false", "False", "FALSE", "0":
		return false, true
	default:
		r.log.Printf("Warning: malformed bool %q, using false", tok)
		return false, false
	}
}

// ExtractText returns the rest of the line. Surrounding quotes are removed.
func (r *Reader[T]) ExtractText() string {
	r.skipLineSpace()
	start, end := r.pos, r.lineEnd
	for end > start && isSpace(r.buf[end-1]) {
		end--
	}
	if end-start >= 2 && r.buf[start] == '"' && r.buf[end-1] == '"' {
		start++
		end--
	} else if end-start >= 1 && r.buf[start] == '"' {
		start++
	}
	r.pos = r.lineEnd
	return unitsToString(r.buf[start:end])
}

// HasMoreFields reports whether anything but blanks is left on the line.
func (r *Reader[T]) HasMoreFields() bool {
	r.skipLineSpace()
	return r.pos < r.lineEnd
}

func unitsToString[T CodeUnit](units []T) string {
	switch u := any(units).(type) {
	case []uint8:
		return string(u)
	case []uint16:
		return string(utf16.Decode(u))
	case []uint32:
		runes := make([]rune, len(u))
		for i, c := range u {
			runes[i] = rune(c)
		}
		return string(runes)
	}
	return ""
}

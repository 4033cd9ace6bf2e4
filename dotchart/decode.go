package dotchart

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CodeUnit is the width of one character of the buffer being parsed.
type CodeUnit interface {
	uint8 | uint16 | uint32
}

// Source holds the file as code units of a single width. Exactly one of the
// slices is set.
type Source struct {
	UTF8  []byte
	UTF16 []uint16
	UTF32 []uint32
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// Decode sniffs the byte order mark once. Without one, valid UTF-8 is used as
// is and anything else is treated as a Windows-1252 file, which is what
// older editors wrote.
func Decode(data []byte) Source {
	switch {
	case bytes.HasPrefix(data, bomUTF32LE):
		return Source{UTF32: units32(data[4:], binary.LittleEndian)}
	case bytes.HasPrefix(data, bomUTF32BE):
		return Source{UTF32: units32(data[4:], binary.BigEndian)}
	case bytes.HasPrefix(data, bomUTF8):
		return Source{UTF8: data[3:]}
	case bytes.HasPrefix(data, bomUTF16LE):
		return Source{UTF16: units16(data[2:], binary.LittleEndian)}
	case bytes.HasPrefix(data, bomUTF16BE):
		return Source{UTF16: units16(data[2:], binary.BigEndian)}
	}
	if utf8.Valid(data) {
		return Source{UTF8: data}
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return Source{UTF8: data}
	}
	return Source{UTF8: decoded}
}

func units16(data []byte, order binary.ByteOrder) []uint16 {
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = order.Uint16(data[i*2:])
	}
	return units
}

func units32(data []byte, order binary.ByteOrder) []uint32 {
	units := make([]uint32, len(data)/4)
	for i := range units {
		units[i] = order.Uint32(data[i*4:])
	}
	return units
}

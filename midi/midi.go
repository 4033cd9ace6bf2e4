// Package midi walks a standard MIDI file held in memory. Tracks and event
// payloads are sub-slices of the original buffer, nothing is copied.
package midi

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	headerTag       = "MThd"
	trackTag        = "MTrk"
	headerLength    = 6
	chunkHeaderSize = 8
)

type Reader struct {
	data []byte
	pos  int

	Format     uint16
	NumTracks  uint16
	Resolution uint16

	tracksRead int
}

// IsMidi reports whether data starts with the header tag.
func IsMidi(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == headerTag
}

// NewReader validates the header chunk.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < chunkHeaderSize+headerLength {
		return nil, errors.Wrap(ErrTruncated, "header chunk")
	}
	if string(data[:4]) != headerTag {
		return nil, errors.Wrapf(ErrInvalidTag, "expected %q, found %q", headerTag, data[:4])
	}
	length := binary.BigEndian.Uint32(data[4:8])
	if length != headerLength {
		return nil, errors.Wrapf(ErrInvalidHeader, "header length %d", length)
	}
	r := &Reader{
		data:       data,
		pos:        chunkHeaderSize + headerLength,
		Format:     binary.BigEndian.Uint16(data[8:10]),
		NumTracks:  binary.BigEndian.Uint16(data[10:12]),
		Resolution: binary.BigEndian.Uint16(data[12:14]),
	}
	if r.Format > 2 {
		return nil, errors.Wrapf(ErrInvalidHeader, "format %d", r.Format)
	}
	if r.Resolution&0x8000 != 0 {
		return nil, errors.Wrap(ErrInvalidHeader, "SMPTE time division is not supported")
	}
	if r.Resolution == 0 {
		return nil, errors.Wrap(ErrInvalidHeader, "zero resolution")
	}
	return r, nil
}

// TrackIndex is the index of the track returned by the last LoadNextTrack.
func (r *Reader) TrackIndex() int {
	return r.tracksRead - 1
}

// LoadNextTrack validates the next track chunk and returns a view over it.
// io.EOF means every declared track has been read.
func (r *Reader) LoadNextTrack() (*Track, error) {
	if r.tracksRead >= int(r.NumTracks) || r.pos == len(r.data) {
		return nil, io.EOF
	}
	if r.pos+chunkHeaderSize > len(r.data) {
		return nil, errors.Wrapf(ErrTruncated, "track %d header", r.tracksRead)
	}
	tag := r.data[r.pos : r.pos+4]
	if string(tag) != trackTag {
		return nil, errors.Wrapf(ErrInvalidTag, "track %d: expected %q, found %q", r.tracksRead, trackTag, tag)
	}
	length := int(binary.BigEndian.Uint32(r.data[r.pos+4 : r.pos+8]))
	start := r.pos + chunkHeaderSize
	if length < 0 || start+length > len(r.data) {
		return nil, errors.Wrapf(ErrTruncated, "track %d declares %d bytes, %d remain", r.tracksRead, length, len(r.data)-start)
	}
	r.pos = start + length
	r.tracksRead++
	return newTrack(r.data[start : start+length]), nil
}

package midi

import "github.com/pkg/errors"

// MaxVLQ is the largest value a four byte variable length quantity holds.
const MaxVLQ = 0x0FFFFFFF

const maxVLQBytes = 4

// ReadVLQ decodes a variable length quantity at data[pos:] and returns the
// value and the number of bytes consumed. A fourth byte that still carries
// the continuation bit is rejected.
func ReadVLQ(data []byte, pos int) (uint32, int, error) {
	var value uint32
	for i := 0; i < maxVLQBytes; i++ {
		if pos+i >= len(data) {
			return 0, 0, errors.Wrapf(ErrTruncated, "variable length quantity at offset %d", pos)
		}
		b := data[pos+i]
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrInvalidVLQ, "offset %d", pos)
}

// AppendVLQ encodes value, which must not exceed MaxVLQ.
func AppendVLQ(dst []byte, value uint32) ([]byte, error) {
	if value > MaxVLQ {
		return dst, errors.Wrapf(ErrInvalidVLQ, "value %#x does not fit in %d bytes", value, maxVLQBytes)
	}
	var buf [maxVLQBytes]byte
	i := maxVLQBytes - 1
	buf[i] = byte(value & 0x7F)
	for value >>= 7; value > 0; value >>= 7 {
		i--
		buf[i] = byte(value&0x7F) | 0x80
	}
	return append(dst, buf[i:]...), nil
}

package midi

import "github.com/pkg/errors"

// Structural errors. Any of these makes the file unusable.
var (
	ErrInvalidTag       = errors.New("midi: invalid chunk tag")
	ErrInvalidHeader    = errors.New("midi: invalid header chunk")
	ErrTruncated        = errors.New("midi: read past end of chunk")
	ErrInvalidVLQ       = errors.New("midi: invalid variable length quantity")
	ErrRunningStatus    = errors.New("midi: running status without a previous channel event")
	ErrInvalidStatus    = errors.New("midi: unsupported status byte")
	ErrConflictingNames = errors.New("midi: conflicting track names")
)

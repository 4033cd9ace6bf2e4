package midi

import (
	"github.com/pkg/errors"
)

// EventType shares one space for channel voice statuses (high nibble, 0x80
// and up), sysex statuses and meta event types (below 0x80).
type EventType uint8

const (
	// meta events
	SequenceNumber EventType = 0x00
	Text           EventType = 0x01
	Copyright      EventType = 0x02
	TrackName      EventType = 0x03
	InstrumentName EventType = 0x04
	Lyric          EventType = 0x05
	Marker         EventType = 0x06
	CuePoint       EventType = 0x07
	ChannelPrefix  EventType = 0x20
	EndOfTrack     EventType = 0x2F
	TempoSetting   EventType = 0x51
	SMPTEOffset    EventType = 0x54
	TimeSignature  EventType = 0x58
	KeySignature   EventType = 0x59
	SequencerSpec  EventType = 0x7F

	// channel voice events
	NoteOff         EventType = 0x80
	NoteOn          EventType = 0x90
	KeyPressure     EventType = 0xA0
	ControlChange   EventType = 0xB0
	ProgramChange   EventType = 0xC0
	ChannelPressure EventType = 0xD0
	PitchWheel      EventType = 0xE0

	SysEx    EventType = 0xF0
	SysExEnd EventType = 0xF7

	metaStatus = 0xFF
)

// IsText reports whether the meta event carries text (0x01-0x0F).
func (t EventType) IsText() bool {
	return t >= Text && t <= 0x0F
}

type Event struct {
	Type    EventType
	Channel uint8
	// Payload aliases the file buffer.
	Payload []byte
}

// IsNoteOn treats a note-on with zero velocity as a note-off.
func (e *Event) IsNoteOn() bool {
	return e.Type == NoteOn && len(e.Payload) == 2 && e.Payload[1] > 0
}

func (e *Event) IsNoteOff() bool {
	return e.Type == NoteOff || e.Type == NoteOn && len(e.Payload) == 2 && e.Payload[1] == 0
}

func (e *Event) Note() (value, velocity uint8) {
	return e.Payload[0], e.Payload[1]
}

// Tempo decodes a tempo meta payload as microseconds per quarter note.
func (e *Event) Tempo() (int32, bool) {
	if e.Type != TempoSetting || len(e.Payload) < 3 {
		return 0, false
	}
	p := e.Payload
	return int32(p[0])<<16 | int32(p[1])<<8 | int32(p[2]), true
}

// TimeSig decodes a time signature meta payload. The denominator comes back
// as its literal value, not the stored power of two.
func (e *Event) TimeSig() (numerator, denominator, metronome, thirtySeconds uint8, ok bool) {
	if e.Type != TimeSignature || len(e.Payload) < 2 {
		return 0, 0, 0, 0, false
	}
	p := e.Payload
	numerator = p[0]
	if p[1] > 7 {
		return 0, 0, 0, 0, false
	}
	denominator = 1 << p[1]
	metronome, thirtySeconds = 24, 8
	if len(p) >= 4 {
		metronome, thirtySeconds = p[2], p[3]
	}
	return numerator, denominator, metronome, thirtySeconds, true
}

// Track is a cursor over one track chunk.
type Track struct {
	data     []byte
	pos      int
	position int64

	// last channel voice status, for running status
	running byte
	ended   bool

	Event Event
}

func newTrack(data []byte) *Track {
	return &Track{data: data}
}

// Position is the absolute tick of the current event.
func (t *Track) Position() int64 {
	return t.position
}

// Reset rewinds the cursor to the start of the track.
func (t *Track) Reset() {
	t.pos = 0
	t.position = 0
	t.running = 0
	t.ended = false
	t.Event = Event{}
}

func (t *Track) need(n int) error {
	if t.pos+n > len(t.data) {
		return errors.Wrapf(ErrTruncated, "need %d bytes at offset %d, track has %d", n, t.pos, len(t.data))
	}
	return nil
}

// ParseEvent decodes the next event into t.Event. It returns false at the end
// of track marker or when the chunk is exhausted.
func (t *Track) ParseEvent() (bool, error) {
	if t.ended || t.pos >= len(t.data) {
		t.ended = true
		return false, nil
	}

	delta, n, err := ReadVLQ(t.data, t.pos)
	if err != nil {
		return false, err
	}
	t.pos += n
	t.position += int64(delta)

	if err := t.need(1); err != nil {
		return false, err
	}
	status := t.data[t.pos]
	if status < 0x80 {
		if t.running == 0 {
			return false, errors.Wrapf(ErrRunningStatus, "offset %d", t.pos)
		}
		status = t.running
	} else {
		t.pos++
	}

	switch {
	case status < 0xF0:
		t.running = status
		t.Event.Type = EventType(status & 0xF0)
		t.Event.Channel = status & 0x0F
		length := 2
		if t.Event.Type == ProgramChange || t.Event.Type == ChannelPressure {
			length = 1
		}
		if err := t.need(length); err != nil {
			return false, err
		}
		t.Event.Payload = t.data[t.pos : t.pos+length]
		t.pos += length
	case status == metaStatus:
		if err := t.need(1); err != nil {
			return false, err
		}
		t.Event.Type = EventType(t.data[t.pos])
		t.Event.Channel = 0
		t.pos++
		if err := t.readVariablePayload(); err != nil {
			return false, err
		}
		if t.Event.Type == EndOfTrack {
			t.ended = true
			return false, nil
		}
	case status == byte(SysEx) || status == byte(SysExEnd):
		t.Event.Type = EventType(status)
		t.Event.Channel = 0
		if err := t.readVariablePayload(); err != nil {
			return false, err
		}
	default:
		return false, errors.Wrapf(ErrInvalidStatus, "status %#x at offset %d", status, t.pos-1)
	}
	return true, nil
}

func (t *Track) readVariablePayload() error {
	length, n, err := ReadVLQ(t.data, t.pos)
	if err != nil {
		return err
	}
	t.pos += n
	if err := t.need(int(length)); err != nil {
		return err
	}
	t.Event.Payload = t.data[t.pos : t.pos+int(length)]
	t.pos += int(length)
	return nil
}

// FindTrackName scans the tick zero events for track names and rewinds the
// cursor afterwards. Different names at tick zero are rejected. An empty
// name means the track has none.
func (t *Track) FindTrackName() (string, error) {
	defer t.Reset()
	var name string
	found := false
	for {
		ok, err := t.ParseEvent()
		if err != nil {
			if t.position > 0 {
				// past tick zero; the error is for whoever parses the track
				break
			}
			return "", err
		}
		if !ok || t.position > 0 {
			break
		}
		if t.Event.Type != TrackName {
			continue
		}
		curr := string(t.Event.Payload)
		if found && curr != name {
			return "", errors.Wrapf(ErrConflictingNames, "%q and %q", name, curr)
		}
		name, found = curr, true
	}
	return name, nil
}

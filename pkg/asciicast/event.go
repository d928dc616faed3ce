package asciicast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/castkit-project/castkit/pkg/errclass"
)

// EventCode identifies the kind of an event. The four known kinds have
// named values; any other single character is carried through unchanged so
// foreign event types survive a decode/encode round trip.
type EventCode rune

const (
	Output EventCode = 'o'
	Input  EventCode = 'i'
	Resize EventCode = 'r'
	Marker EventCode = 'm'
)

// OtherCode returns the code for an event kind outside the known set.
func OtherCode(r rune) EventCode {
	return EventCode(r)
}

// ParseEventCode parses the code field of an event line. Only the first
// character is significant.
func ParseEventCode(s string) (EventCode, error) {
	if s == "" {
		return 0, errclass.ErrMissingEventCode.WithMessage("missing event code")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return EventCode(r), nil
}

// Known reports whether c is one of output, input, resize or marker.
func (c EventCode) Known() bool {
	switch c {
	case Output, Input, Resize, Marker:
		return true
	}
	return false
}

func (c EventCode) String() string {
	return string(rune(c))
}

// Event is a single timestamped record. Time is in microseconds since the
// start of the recording.
type Event struct {
	Time uint64
	Code EventCode
	Data string
}

// NewOutput returns an output event. Invalid UTF-8 in data is replaced.
func NewOutput(time uint64, data []byte) Event {
	return Event{Time: time, Code: Output, Data: lossyString(data)}
}

// NewInput returns an input event. Invalid UTF-8 in data is replaced.
func NewInput(time uint64, data []byte) Event {
	return Event{Time: time, Code: Input, Data: lossyString(data)}
}

// NewResize returns a resize event with data "<cols>x<rows>".
func NewResize(time uint64, cols, rows uint16) Event {
	return Event{Time: time, Code: Resize, Data: fmt.Sprintf("%dx%d", cols, rows)}
}

// NewMarker returns a marker event.
func NewMarker(time uint64, label string) Event {
	return Event{Time: time, Code: Marker, Data: label}
}

// lossyString replaces each maximal ill-formed subsequence of data with a
// single U+FFFD, so a truncated multi-byte character becomes one
// replacement character rather than one per byte.
func lossyString(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	s, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}
	return string(s)
}

// UnmarshalJSON decodes an event line of the form [time, code, data].
func (e *Event) UnmarshalJSON(b []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return errclass.ErrDecode.Wrap(err)
	}
	if len(fields) != 3 {
		return errclass.ErrDecode.WithMessagef("expected 3 event fields, got %d", len(fields))
	}

	time, err := DecodeTime(fields[0])
	if err != nil {
		return err
	}

	var code string
	if err := json.Unmarshal(fields[1], &code); err != nil {
		return errclass.ErrDecode.Wrap(err)
	}
	c, err := ParseEventCode(code)
	if err != nil {
		return err
	}

	var data string
	if err := json.Unmarshal(fields[2], &data); err != nil {
		return errclass.ErrDecode.Wrap(err)
	}

	*e = Event{Time: time, Code: c, Data: data}
	return nil
}

// marshalString encodes s as a JSON string without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

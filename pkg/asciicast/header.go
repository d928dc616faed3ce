package asciicast

import (
	"bytes"
	"encoding/json"

	"github.com/castkit-project/castkit/pkg/errclass"
)

// Header holds recording metadata. Nil pointers and a nil Env mean the field
// is absent. Timestamp and IdleTimeLimit are only ever populated for
// version 2 recordings.
type Header struct {
	Version       int
	Cols          uint16
	Rows          uint16
	Timestamp     *uint64
	IdleTimeLimit *float64
	Command       *string
	Title         *string
	Env           map[string]string
}

// v2Header is the first line of a version 2 recording.
type v2Header struct {
	Version       uint8             `json:"version"`
	Width         uint16            `json:"width"`
	Height        uint16            `json:"height"`
	Timestamp     *uint64           `json:"timestamp"`
	IdleTimeLimit *float64          `json:"idle_time_limit,omitempty"`
	Command       *string           `json:"command,omitempty"`
	Title         *string           `json:"title,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
}

// v1Document is a complete version 1 recording.
type v1Document struct {
	Version uint8             `json:"version"`
	Width   uint16            `json:"width"`
	Height  uint16            `json:"height"`
	Command *string           `json:"command"`
	Title   *string           `json:"title"`
	Env     map[string]string `json:"env"`
	Stdout  []v1Stdout        `json:"stdout"`
}

type v1Stdout struct {
	Time uint64
	Data string
}

// UnmarshalJSON accepts both the [time, data] pair used by recorders and the
// {"time": ..., "data": ...} object form.
func (s *v1Stdout) UnmarshalJSON(b []byte) error {
	var rawTime, rawData json.RawMessage

	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return errclass.ErrDecode.WithMessagef("expected 2 stdout fields, got %d", len(pair))
		}
		rawTime, rawData = pair[0], pair[1]
	} else {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if err := requireFields(obj, "time", "data"); err != nil {
			return err
		}
		rawTime, rawData = obj["time"], obj["data"]
	}

	time, err := DecodeTime(rawTime)
	if err != nil {
		return err
	}
	var data string
	if err := json.Unmarshal(rawData, &data); err != nil {
		return err
	}

	*s = v1Stdout{Time: time, Data: data}
	return nil
}

// requireFields reports an error unless every name is present and non-null.
func requireFields(obj map[string]json.RawMessage, names ...string) error {
	for _, name := range names {
		raw, ok := obj[name]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			return errclass.ErrDecode.WithMessagef("missing field `%s`", name)
		}
	}
	return nil
}

func decodeV2Header(line []byte) (*v2Header, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(line, &obj); err != nil {
		return nil, err
	}
	if err := requireFields(obj, "version", "width", "height"); err != nil {
		return nil, err
	}

	var h v2Header
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func decodeV1Document(doc []byte) (*v1Document, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc, &obj); err != nil {
		return nil, err
	}
	if err := requireFields(obj, "version", "width", "height", "stdout"); err != nil {
		return nil, err
	}

	var d v1Document
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *v2Header) toHeader() Header {
	return Header{
		Version:       2,
		Cols:          h.Width,
		Rows:          h.Height,
		Timestamp:     h.Timestamp,
		IdleTimeLimit: h.IdleTimeLimit,
		Command:       h.Command,
		Title:         h.Title,
		Env:           h.Env,
	}
}

func (d *v1Document) toHeader() Header {
	return Header{
		Version: 1,
		Cols:    d.Width,
		Rows:    d.Height,
		Command: d.Command,
		Title:   d.Title,
		Env:     d.Env,
	}
}

func newV2Header(h *Header) *v2Header {
	return &v2Header{
		Version:       2,
		Width:         h.Cols,
		Height:        h.Rows,
		Timestamp:     h.Timestamp,
		IdleTimeLimit: h.IdleTimeLimit,
		Command:       h.Command,
		Title:         h.Title,
		Env:           h.Env,
	}
}

// marshalLine encodes the header as a single line terminated by '\n'.
// idle_time_limit uses the shortest float form, so 2.0 is written as 2.
func (h *v2Header) marshalLine() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package asciicast

import (
	"bufio"
	"io"
)

// Writer emits a version 2 recording. Each line is flushed as soon as it is
// written so a process tailing the file sees events immediately.
type Writer struct {
	w          *bufio.Writer
	timeOffset uint64
}

// NewWriter returns a Writer that adds timeOffset microseconds to every
// event it writes. A non-zero offset is used when appending to a recording
// that already has elapsed time.
func NewWriter(w io.Writer, timeOffset uint64) *Writer {
	return &Writer{w: bufio.NewWriter(w), timeOffset: timeOffset}
}

// WriteHeader writes the header line. It is always written as version 2.
func (w *Writer) WriteHeader(h *Header) error {
	line, err := newV2Header(h).marshalLine()
	if err != nil {
		return err
	}
	return w.writeLine(line)
}

// WriteEvent writes one event line, shifted by the writer's time offset.
func (w *Writer) WriteEvent(e Event) error {
	e.Time += w.timeOffset

	line, err := serializeEvent(e)
	if err != nil {
		return err
	}
	return w.writeLine(append(line, '\n'))
}

func (w *Writer) writeLine(line []byte) error {
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	return w.w.Flush()
}

// serializeEvent renders [time, "code", data]. The time is written verbatim
// from EncodeTime rather than through a JSON encoder.
func serializeEvent(e Event) ([]byte, error) {
	code, err := marshalString(e.Code.String())
	if err != nil {
		return nil, err
	}
	data, err := marshalString(e.Data)
	if err != nil {
		return nil, err
	}

	line := make([]byte, 0, len(data)+len(code)+24)
	line = append(line, '[')
	line = append(line, EncodeTime(e.Time)...)
	line = append(line, ", "...)
	line = append(line, code...)
	line = append(line, ", "...)
	line = append(line, data...)
	line = append(line, ']')
	return line, nil
}

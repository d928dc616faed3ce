package asciicast

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/castkit-project/castkit/internal/compression"
	"github.com/castkit-project/castkit/pkg/errclass"
)

// Reader is an opened recording. Events is single-pass: it pulls from the
// underlying input as it is iterated and cannot be restarted.
type Reader struct {
	Header Header
	Events iter.Seq2[Event, error]

	closer io.Closer
}

// Close releases the file behind a Reader returned by OpenFromPath.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// OpenFromPath opens a recording file. Gzip-compressed files are
// decompressed transparently.
func OpenFromPath(path string) (*Reader, error) {
	rc, err := compression.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open asciicast file: %w", err)
	}

	r, err := Open(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("can't open asciicast file: %w", err)
	}
	r.closer = rc
	return r, nil
}

// Open detects the format version from the first line of input.
//
// A first line holding a version 2 header selects the streaming path: each
// following line is decoded only when Events is pulled. Otherwise the whole
// input is read into memory and decoded as a version 1 document.
func Open(input io.Reader) (*Reader, error) {
	br := bufio.NewReader(input)

	first, err := readLine(br)
	if err == io.EOF {
		return nil, errclass.ErrEmptyInput.WithMessage("empty file")
	}
	if err != nil {
		return nil, err
	}

	if h, err := decodeV2Header(first); err == nil {
		if h.Version != 2 {
			return nil, errclass.ErrUnsupportedVersion.WithMessagef("unsupported asciicast version %d", h.Version)
		}
		return &Reader{Header: h.toHeader(), Events: streamEvents(br)}, nil
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	doc, err := decodeV1Document(append(append(first, '\n'), rest...))
	if err != nil {
		return nil, asDecodeError(err)
	}
	if doc.Version != 1 {
		return nil, errclass.ErrUnsupportedVersion.WithMessagef("unsupported asciicast version %d", doc.Version)
	}

	events := make([]Event, 0, len(doc.Stdout))
	for _, s := range doc.Stdout {
		events = append(events, NewOutput(s.Time, []byte(s.Data)))
	}
	return &Reader{Header: doc.toHeader(), Events: sliceEvents(events)}, nil
}

// streamEvents decodes one event per line. Blank lines are skipped. A line
// that fails to decode yields an error tagged with its line number and the
// sequence carries on with the next line if the consumer keeps pulling.
func streamEvents(br *bufio.Reader) iter.Seq2[Event, error] {
	lineNo := 1
	return func(yield func(Event, error) bool) {
		for {
			line, err := readLine(br)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Event{}, err)
				return
			}
			lineNo++

			if len(line) == 0 {
				continue
			}

			var e Event
			if err := json.Unmarshal(line, &e); err != nil {
				if !yield(Event{}, fmt.Errorf("line %d: %w", lineNo, asDecodeError(err))) {
					return
				}
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func sliceEvents(events []Event) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for _, e := range events {
			if !yield(e, nil) {
				return
			}
		}
	}
}

// readLine returns the next line without its terminator. io.EOF is only
// returned when no bytes remain.
func readLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return nil, err
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line, nil
}

func asDecodeError(err error) error {
	var ce *errclass.CastError
	if errors.As(err, &ce) {
		return err
	}
	return errclass.ErrDecode.Wrap(err)
}

// Collect pulls every event, stopping at the first error.
func Collect(events iter.Seq2[Event, error]) ([]Event, error) {
	var out []Event
	for e, err := range events {
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// LastTime drains events and returns the time of the last one, or 0 when
// there are none. If the final item is an error, that error is returned;
// earlier errors are passed over.
func LastTime(events iter.Seq2[Event, error]) (uint64, error) {
	var last uint64
	var lastErr error
	for e, err := range events {
		last, lastErr = e.Time, err
	}
	if lastErr != nil {
		return 0, lastErr
	}
	return last, nil
}

// Duration returns the time of the last event in the recording at path.
func Duration(path string) (uint64, error) {
	r, err := OpenFromPath(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	return LastTime(r.Events)
}

// Package compression provides transparent gzip support for recording files.
package compression

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// CompressionLevel represents the compression level.
type CompressionLevel int

const (
	// LevelNone disables compression.
	LevelNone CompressionLevel = 0
	// LevelFast uses fastest compression (gzip level 1).
	LevelFast CompressionLevel = 1
	// LevelDefault uses default compression (gzip level 6).
	LevelDefault CompressionLevel = 6
	// LevelMax uses maximum compression (gzip level 9).
	LevelMax CompressionLevel = 9
)

// CompressionType represents the compression algorithm.
type CompressionType string

const (
	TypeGzip CompressionType = "gzip"
	TypeNone CompressionType = "none"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Compressor wraps writers according to its type and level.
type Compressor struct {
	Type  CompressionType
	Level CompressionLevel
}

// NewCompressor creates a new compressor with the specified level.
// Level 0 means no compression.
func NewCompressor(level CompressionLevel) *Compressor {
	if level <= LevelNone {
		return &Compressor{Type: TypeNone, Level: LevelNone}
	}
	return &Compressor{Type: TypeGzip, Level: level}
}

// NewCompressorFromString creates a compressor from a string level.
// Valid values: "none", "fast", "default", "max"
func NewCompressorFromString(level string) (*Compressor, error) {
	switch strings.ToLower(level) {
	case "none", "0":
		return NewCompressor(LevelNone), nil
	case "fast", "1":
		return NewCompressor(LevelFast), nil
	case "default", "6":
		return NewCompressor(LevelDefault), nil
	case "max", "9":
		return NewCompressor(LevelMax), nil
	default:
		return nil, fmt.Errorf("invalid compression level: %s (must be none, fast, default, or max)", level)
	}
}

// ForPath picks default gzip compression for paths ending in .gz and no
// compression otherwise.
func ForPath(path string) *Compressor {
	if strings.HasSuffix(path, ".gz") {
		return NewCompressor(LevelDefault)
	}
	return NewCompressor(LevelNone)
}

// IsEnabled returns true if compression is enabled.
func (c *Compressor) IsEnabled() bool {
	return c.Type != TypeNone
}

// String returns the string representation of the compressor.
func (c *Compressor) String() string {
	switch c.Level {
	case LevelNone:
		return "none"
	case LevelFast:
		return "fast"
	case LevelDefault:
		return "default"
	case LevelMax:
		return "max"
	default:
		return fmt.Sprintf("level-%d", c.Level)
	}
}

// NewWriter wraps w. Closing the returned writer flushes the gzip stream but
// does not close w.
func (c *Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	if !c.IsEnabled() {
		return nopWriteCloser{w}, nil
	}
	gw, err := gzip.NewWriterLevel(w, int(c.Level))
	if err != nil {
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}
	return gw, nil
}

// NewReader returns a reader over r that is decompressed when r starts with
// the gzip magic number and passed through otherwise.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek header: %w", err)
	}
	if !IsGzip(head) {
		return io.NopCloser(br), nil
	}

	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return gr, nil
}

// Open opens the file at path through NewReader. Closing the result closes
// the file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fileReader{ReadCloser: r, file: f}, nil
}

// IsGzip reports whether head begins with the gzip magic number.
func IsGzip(head []byte) bool {
	return len(head) >= len(gzipMagic) && head[0] == gzipMagic[0] && head[1] == gzipMagic[1]
}

type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (r *fileReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

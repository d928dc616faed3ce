package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/castkit-project/castkit/pkg/asciicast"
	"github.com/castkit-project/castkit/pkg/color"
)

var recordingExts = []string{".cast", ".json", ".gz"}

// openRecording opens path and, when the file does not exist, attaches a
// hint naming similar recordings from the same directory.
func openRecording(path string) (*asciicast.Reader, error) {
	r, err := asciicast.OpenFromPath(path)
	if err == nil {
		return r, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		if hint := suggestRecordings(path); hint != "" {
			return nil, fmt.Errorf("%w\n  %s", err, color.Dim(hint))
		}
	}
	return nil, err
}

// suggestRecordings returns a "Did you mean" hint for a missing recording,
// or "" when nothing in its directory looks close.
func suggestRecordings(path string) string {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(recordingExts, filepath.Ext(e.Name())) {
			continue
		}
		candidates = append(candidates, e.Name())
	}

	query := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	if query == "" {
		return ""
	}

	// prefix matches first, then substring
	var matches []string
	for _, name := range candidates {
		if strings.HasPrefix(strings.ToLower(name), query) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		for _, name := range candidates {
			if strings.Contains(strings.ToLower(name), query) {
				matches = append(matches, name)
			}
		}
	}
	if len(matches) == 0 {
		return ""
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}

	for i, m := range matches {
		matches[i] = filepath.Join(filepath.Dir(path), m)
	}
	hint := "Did you mean"
	if len(matches) > 1 {
		hint += " one of"
	}
	return fmt.Sprintf("%s: %s?", hint, strings.Join(matches, ", "))
}

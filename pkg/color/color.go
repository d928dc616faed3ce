// Package color adds ANSI styling to CLI output.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"os"
	"sync"
)

var state struct {
	mu      sync.Mutex
	once    sync.Once
	enabled bool
}

// Init decides once whether output is colored, from NO_COLOR, TERM=dumb and
// the --no-color flag.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		_, noColor := os.LookupEnv("NO_COLOR")
		enabled := !noColor && os.Getenv("TERM") != "dumb" && !noColorFlag

		state.mu.Lock()
		state.enabled = enabled
		state.mu.Unlock()
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.enabled
}

// Disable turns off color output.
func Disable() { set(false) }

func set(enabled bool) {
	state.once.Do(func() {})
	state.mu.Lock()
	state.enabled = enabled
	state.mu.Unlock()
}

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + reset
}

// Error formats s in red.
func Error(s string) string { return wrap(red, s) }

// Success formats s in green.
func Success(s string) string { return wrap(green, s) }

// Highlight formats s in yellow.
func Highlight(s string) string { return wrap(yellow, s) }

// Code formats an event code in cyan.
func Code(s string) string { return wrap(cyan, s) }

// Header formats s in bold.
func Header(s string) string { return wrap(bold, s) }

// Dim formats secondary information.
func Dim(s string) string { return wrap(dim, s) }

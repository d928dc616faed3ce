// Package progress reports progress of long-running recording operations.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// DefaultInterval is how many increments pass between redraws.
const DefaultInterval = 500

// Counter is a single-line terminal counter for operations whose total is
// not known upfront, such as streaming a recording.
type Counter struct {
	writer   io.Writer
	op       string
	interval int64
	current  atomic.Int64
	lastLen  atomic.Int64
	enabled  atomic.Bool
}

// NewCounter creates a counter that draws to w.
func NewCounter(w io.Writer, op string, enabled bool) *Counter {
	c := &Counter{writer: w, op: op, interval: DefaultInterval}
	c.enabled.Store(enabled)
	return c
}

// Increment advances the counter; at is the recording time reached, in
// microseconds.
func (c *Counter) Increment(at uint64) {
	n := c.current.Add(1)
	if !c.enabled.Load() || n%c.interval != 0 {
		return
	}
	c.render(fmt.Sprintf("%d events (%.1fs)", n, float64(at)/1e6))
}

// Count returns the number of increments so far.
func (c *Counter) Count() int64 {
	return c.current.Load()
}

func (c *Counter) render(message string) {
	line := fmt.Sprintf("%s... %s", c.op, message)
	fmt.Fprint(c.writer, c.clearLine()+line)
	c.lastLen.Store(int64(len(line)))
}

func (c *Counter) clearLine() string {
	if last := c.lastLen.Load(); last > 0 {
		return "\r" + strings.Repeat(" ", int(last)) + "\r"
	}
	return "\r"
}

// Done replaces the counter line with a final summary.
func (c *Counter) Done(finalMessage string) {
	if !c.enabled.Load() {
		return
	}
	if finalMessage == "" {
		finalMessage = fmt.Sprintf("%s complete (%d events)", c.op, c.current.Load())
	}
	fmt.Fprintln(c.writer, c.clearLine()+finalMessage)
	c.lastLen.Store(0)
}

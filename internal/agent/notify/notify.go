// Package notify delivers short user-facing status messages. The session
// manager reports auth outcomes through a Notifier instead of writing to
// the terminal directly.
package notify

import (
	"fmt"
	"io"
)

// Notifier shows a one-line message to the user.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// Writer prints prefixed messages to an io.Writer, typically stdout.
type Writer struct {
	out io.Writer
}

var _ Notifier = (*Writer)(nil)

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Success(msg string) { fmt.Fprintf(w.out, "[ok] %s\n", msg) }
func (w *Writer) Info(msg string)    { fmt.Fprintf(w.out, "[..] %s\n", msg) }
func (w *Writer) Error(msg string)   { fmt.Fprintf(w.out, "[!!] %s\n", msg) }

// Discard drops all messages. Useful in tests and headless runs.
type Discard struct{}

var _ Notifier = Discard{}

func (Discard) Success(string) {}
func (Discard) Info(string)    {}
func (Discard) Error(string)   {}

// Package instr implements the instrumentation sink contract of §6:
// Instr.use_with(rule, m) is invoked by the evaluator at every rule
// firing to emit a trace token.
package instr

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// Sink is the instrumentation contract. UseWith wraps one rule firing:
// it must run fn and return its error unchanged, its only license is to
// observe and record which rule fired.
type Sink interface {
	UseWith(rule string, fn func() error) error
}

// NoopSink is the valid no-op sink §6 requires.
type NoopSink struct{}

func (NoopSink) UseWith(_ string, fn func() error) error { return fn() }

// TextSink writes one line per rule firing to Out, colorized when Out is
// a terminal (detected via mattn/go-isatty).
type TextSink struct {
	Out     io.Writer
	color   bool
	counter uint64
}

// NewTextSink builds a TextSink over out. If out is an *os.File attached
// to a terminal, rule names are colorized.
type fdProvider interface {
	Fd() uintptr
}

func NewTextSink(out io.Writer) *TextSink {
	color := false
	if f, ok := out.(fdProvider); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &TextSink{Out: out, color: color}
}

func (s *TextSink) UseWith(rule string, fn func() error) error {
	n := atomic.AddUint64(&s.counter, 1)
	if s.color {
		fmt.Fprintf(s.Out, "\x1b[36m[%04d]\x1b[0m %s\n", n, rule)
	} else {
		fmt.Fprintf(s.Out, "[%04d] %s\n", n, rule)
	}
	return fn()
}

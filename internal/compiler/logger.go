package compiler

import (
	"fmt"
	"io"
	"os"

	"github.com/KromDaniel/iregex/internal/automaton"
)

// Logger provides verbose output for compilation steps.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger creates a new logger instance writing to stderr.
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput sets the output writer for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(l.out, "[iregex] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l.enabled {
		fmt.Fprintf(l.out, "\n[iregex] === %s ===\n", name)
	}
}

// Automaton prints the size of an automaton built for part of an
// expression.
func (l *Logger) Automaton(part string, a *automaton.Automaton) {
	if !l.enabled {
		return
	}
	transitions, epsilons := 0, 0
	for q := 0; q < a.NumStates(); q++ {
		transitions += len(a.Transitions(q))
		epsilons += len(a.Epsilons(q))
	}
	l.Log("%s: %d states, %d transitions, %d epsilons, %d tags",
		part, a.NumStates(), transitions, epsilons, len(a.Tags()))
}

// Enabled returns whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

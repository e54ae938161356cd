// Package logging wraps the standard library log package with a level
// gate and level-prefixed, file:line-stamped output, generalizing vision3's plain
// log.Printf("LEVEL: message", ...) convention (internal/scheduler,
// internal/sshauth) into a level-checked Logger instead of unconditional
// Printf calls.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level orders the verbosity tiers raised by repeated -d/--debug flags.
type Level int

const (
	Info Level = iota
	Debug
	Trace
)

// Logger gates log.Printf calls by level. Lines use the standard log
// package's own timestamp/file flags after a level prefix:
// "LEVEL | YYYY/MM/DD HH:MM:SS file.go:LINE: MESSAGE". The
// "YYYY-MM-DD HH:MM:SS | LEVEL | FILE:LINE — MESSAGE" layout is not produced.
type Logger struct {
	level Level
	info  *log.Logger
	debug *log.Logger
	trace *log.Logger
}

// New constructs a Logger writing to w at the given level. level is
// typically derived from counting -d occurrences (0=Info, 1=Debug,
// 2+=Trace).
func New(w io.Writer, level Level) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		level: level,
		info:  log.New(w, "INFO | ", flags),
		debug: log.New(w, "DEBUG | ", flags),
		trace: log.New(w, "TRACE | ", flags),
	}
}

// NewStderr is the default Logger used before --log is parsed.
func NewStderr(level Level) *Logger {
	return New(os.Stderr, level)
}

// Infof always logs.
func (l *Logger) Infof(format string, args ...any) {
	l.info.Output(2, fmt.Sprintf(format, args...))
}

// Debugf logs only at Debug level or above.
func (l *Logger) Debugf(format string, args ...any) {
	if l.level < Debug {
		return
	}
	l.debug.Output(2, fmt.Sprintf(format, args...))
}

// Tracef logs only at Trace level.
func (l *Logger) Tracef(format string, args ...any) {
	if l.level < Trace {
		return
	}
	l.trace.Output(2, fmt.Sprintf(format, args...))
}

// Fatalf logs at Info level and exits the process, matching vision3's
// log.Fatal(f) usage for unrecoverable startup errors.
func (l *Logger) Fatalf(format string, args ...any) {
	l.info.Output(2, fmt.Sprintf(format, args...))
	os.Exit(1)
}

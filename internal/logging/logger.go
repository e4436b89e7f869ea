// Package logging provides the leveled logger used for warnings and
// debug traces.
package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger writes leveled messages to a single writer. Debug messages are
// dropped unless debug mode is on.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	debug bool
	now   func() time.Time
}

// New returns a logger writing to out.
func New(out io.Writer, debug bool) *Logger {
	return &Logger{out: out, debug: debug, now: time.Now}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Debugf logs a debug message, timestamped.
func (l *Logger) Debugf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.debug {
		return
	}
	fmt.Fprintf(l.out, "%s [DEBUG] %s\n", l.now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.write("WARN", format, args...)
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.write("ERROR", format, args...)
}

func (l *Logger) write(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

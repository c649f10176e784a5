package diag

import (
	"strings"
	"sync"
)

// Log is an append-only list of diagnostic lines. Lines are never edited or
// removed for the life of the Log.
type Log struct {
	mu    sync.RWMutex
	lines []string
}

// Append adds lines to the end of the log.
func (l *Log) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, lines...)
}

// Lines returns a copy of every line so far.
func (l *Log) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.lines))
	copy(out, l.lines)

	return out
}

// Len returns the number of lines.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.lines)
}

// String joins all lines with newlines.
func (l *Log) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return strings.Join(l.lines, "\n")
}

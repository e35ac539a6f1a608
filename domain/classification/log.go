package classification

import (
	"fmt"
	"strings"
)

// LogEntries is the user-facing diagnostic log of one batch. Append-only; not
// safe for concurrent use since a batch runs sequentially.
type LogEntries struct {
	lines []string
}

// NewLogEntries returns an empty log.
func NewLogEntries() *LogEntries {
	return &LogEntries{}
}

// Append adds one line.
func (l *LogEntries) Append(line string) {
	if l == nil {
		return
	}
	l.lines = append(l.lines, line)
}

// Appendf adds one formatted line.
func (l *LogEntries) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the logged lines in order.
func (l *LogEntries) Lines() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.lines...)
}

// Len is the number of logged lines.
func (l *LogEntries) Len() int {
	if l == nil {
		return 0
	}
	return len(l.lines)
}

// String joins the log with newlines.
func (l *LogEntries) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(l.lines, "\n")
}

// Package logging gates the standard logger by the [LEVEL] tag each line carries.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
)

// Level orders the tags used in log lines
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var tags = []struct {
	tag   []byte
	level Level
}{
	{[]byte("[DEBUG]"), LevelDebug},
	{[]byte("[INFO]"), LevelInfo},
	{[]byte("[WARN]"), LevelWarn},
	{[]byte("[ERROR]"), LevelError},
}

// tagWindow is how far into a line the tag is looked for; it follows the timestamp
const tagWindow = 48

// ParseLevel converts a flag value such as "debug" or "WARN" into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// LevelWriter drops lines tagged below its minimum level. Untagged lines pass.
type LevelWriter struct {
	out io.Writer
	min Level
}

// NewLevelWriter wraps out
func NewLevelWriter(out io.Writer, min Level) *LevelWriter {
	return &LevelWriter{out: out, min: min}
}

func (w *LevelWriter) Write(p []byte) (int, error) {
	if level, ok := levelOf(p); ok && level < w.min {
		return len(p), nil
	}
	return w.out.Write(p)
}

func levelOf(line []byte) (Level, bool) {
	head := line
	if len(head) > tagWindow {
		head = head[:tagWindow]
	}
	for _, t := range tags {
		if bytes.Contains(head, t.tag) {
			return t.level, true
		}
	}
	return 0, false
}

// Setup routes the standard logger through a LevelWriter on out
func Setup(out io.Writer, level string) error {
	min, err := ParseLevel(level)
	log.SetOutput(NewLevelWriter(out, min))
	return err
}

package testutils

import (
	"strings"
	"sync"
)

// CapturedEntry is a single recorded log call.
type CapturedEntry struct {
	Level   string
	Message string
	Fields  []any
}

// CaptureLogger records log calls for assertions. It satisfies the backend
// Logger interface structurally and is safe for use from multiple goroutines
// (dispatcher watchdogs log from timers).
type CaptureLogger struct {
	mu      sync.Mutex
	entries []CapturedEntry
}

func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) record(level, msg string, fields []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, CapturedEntry{Level: level, Message: msg, Fields: fields})
}

func (c *CaptureLogger) Debug(msg string, fields ...any) {
	c.record("DEBUG", msg, fields)
}

func (c *CaptureLogger) Info(msg string, fields ...any) {
	c.record("INFO", msg, fields)
}

func (c *CaptureLogger) Warn(msg string, fields ...any) {
	c.record("WARN", msg, fields)
}

func (c *CaptureLogger) Error(msg string, fields ...any) {
	c.record("ERROR", msg, fields)
}

// Entries returns a copy of all recorded entries.
func (c *CaptureLogger) Entries() []CapturedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CapturedEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// EntriesAtLevel returns recorded entries matching the given level.
func (c *CaptureLogger) EntriesAtLevel(level string) []CapturedEntry {
	var out []CapturedEntry
	for _, e := range c.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any entry at the given level contains the substring.
func (c *CaptureLogger) Contains(level, substring string) bool {
	for _, e := range c.EntriesAtLevel(level) {
		if strings.Contains(e.Message, substring) {
			return true
		}
	}
	return false
}

// Reset discards all recorded entries.
func (c *CaptureLogger) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

package resources

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogEntry is a single structured log record held by the ring buffer.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// LogBuffer is a bounded, drop-oldest ring buffer of log entries. It
// is an explicitly constructed dependency, not a package singleton,
// and is safe for concurrent appends.
type LogBuffer struct {
	entries  []LogEntry
	capacity int
	mu       sync.RWMutex
}

// NewLogBuffer creates a buffer holding at most capacity entries.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &LogBuffer{capacity: capacity}
}

// Append adds an entry, silently discarding the oldest entries once
// the capacity is exceeded.
func (b *LogBuffer) Append(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

// Recent returns the most recent n entries, oldest first.
func (b *LogBuffer) Recent(n int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]LogEntry, n)
	copy(out, b.entries[len(b.entries)-n:])
	return out
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Run implements zerolog.Hook so the buffer can capture the live log
// stream.
func (b *LogBuffer) Run(e *zerolog.Event, level zerolog.Level, message string) {
	if level == zerolog.NoLevel || message == "" {
		return
	}
	b.Append(LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
	})
}

// Seed fills the buffer with illustrative sample entries so the logs
// resource has content before any real log line arrives.
func (b *LogBuffer) Seed() {
	now := time.Now().UTC()
	samples := []struct {
		offset  time.Duration
		level   string
		message string
	}{
		{-5 * time.Minute, "info", "MCP server started"},
		{-4 * time.Minute, "info", "Tool registry populated"},
		{-3 * time.Minute, "debug", "Evaluating expression"},
		{-2 * time.Minute, "info", "File operation completed"},
		{-1 * time.Minute, "warn", "Unsupported operation requested"},
	}
	for _, s := range samples {
		b.Append(LogEntry{
			Timestamp: now.Add(s.offset).Format(time.RFC3339),
			Level:     s.level,
			Message:   s.message,
		})
	}
}

package resources

import (
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogBuffer_DropOldest(t *testing.T) {
	buffer := NewLogBuffer(3)

	for i := 0; i < 5; i++ {
		buffer.Append(LogEntry{Message: fmt.Sprintf("entry-%d", i)})
	}

	if buffer.Len() != 3 {
		t.Fatalf("Expected capacity to cap at 3, got %d", buffer.Len())
	}

	recent := buffer.Recent(3)
	expected := []string{"entry-2", "entry-3", "entry-4"}
	for i, want := range expected {
		if recent[i].Message != want {
			t.Errorf("Expected %s at %d, got %s", want, i, recent[i].Message)
		}
	}
}

func TestLogBuffer_RecentBounds(t *testing.T) {
	buffer := NewLogBuffer(10)
	buffer.Append(LogEntry{Message: "only"})

	if got := len(buffer.Recent(50)); got != 1 {
		t.Errorf("Expected request beyond length to return everything, got %d", got)
	}
	if got := len(buffer.Recent(0)); got != 1 {
		t.Errorf("Expected non-positive n to return everything, got %d", got)
	}
}

func TestLogBuffer_RecentReturnsCopy(t *testing.T) {
	buffer := NewLogBuffer(10)
	buffer.Append(LogEntry{Message: "original"})

	recent := buffer.Recent(1)
	recent[0].Message = "mutated"

	if buffer.Recent(1)[0].Message != "original" {
		t.Error("Expected Recent to return a copy")
	}
}

func TestLogBuffer_ZeroCapacityDefaults(t *testing.T) {
	buffer := NewLogBuffer(0)
	if buffer.capacity != 1000 {
		t.Errorf("Expected default capacity 1000, got %d", buffer.capacity)
	}
}

func TestLogBuffer_Seed(t *testing.T) {
	buffer := NewLogBuffer(1000)
	buffer.Seed()

	if buffer.Len() == 0 {
		t.Fatal("Expected seeded entries")
	}
	for _, entry := range buffer.Recent(0) {
		if entry.Timestamp == "" || entry.Level == "" || entry.Message == "" {
			t.Errorf("Expected fully populated entry, got %+v", entry)
		}
	}
}

func TestLogBuffer_ZerologHook(t *testing.T) {
	buffer := NewLogBuffer(10)
	logger := zerolog.New(io.Discard).Hook(buffer)

	logger.Info().Msg("captured")

	if buffer.Len() != 1 {
		t.Fatalf("Expected one captured entry, got %d", buffer.Len())
	}
	entry := buffer.Recent(1)[0]
	if entry.Message != "captured" {
		t.Errorf("Expected message 'captured', got %q", entry.Message)
	}
	if entry.Level != "info" {
		t.Errorf("Expected level 'info', got %q", entry.Level)
	}
}

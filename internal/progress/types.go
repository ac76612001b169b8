package progress

import (
	"sort"
	"strings"
	"time"
)

// EventType represents the type of progress event
type EventType int

const (
	EventRunStart EventType = iota
	EventRunComplete
	EventProfilesLoaded
	EventDocumentStart
	EventDocumentIdentified
	EventDocumentFailed
	EventSkipped
	EventFileWritten
	EventInfo
)

// Event represents something that happened during a run
type Event struct {
	Type     EventType
	Path     string
	Language string
	Score    float64
	Info     string
	Reason   string
	Count    int // documents, profiles or trigrams depending on Type
	Duration time.Duration
}

// Reporter is the interface components use to report events
type Reporter interface {
	Report(event Event)
}

// Handler processes events and produces output
type Handler interface {
	Handle(event Event)
}

// TimingEntry records how long one document took
type TimingEntry struct {
	Path     string
	Duration time.Duration
}

// getTimingIcon returns the appropriate icon for a duration
func getTimingIcon(seconds float64) string {
	if seconds >= 1.0 {
		return "🔴" // Slow
	} else if seconds >= 0.1 {
		return "🟡" // Medium
	}
	return "🟢" // Fast
}

// shortenPath shortens a path for display if it's too long
func shortenPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	parts := strings.Split(path, "/")
	if len(parts) > 3 {
		return "..." + "/" + strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}

// sortTimingsByDuration sorts timings by duration descending
func sortTimingsByDuration(timings []TimingEntry) []TimingEntry {
	sorted := make([]TimingEntry, len(timings))
	copy(sorted, timings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})
	return sorted
}

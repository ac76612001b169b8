package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Progress is the centralized verbose system. It is safe for concurrent use.
type Progress struct {
	mu          sync.Mutex
	enabled     bool
	handler     Handler
	withTimings bool
}

var _ Reporter = (*Progress)(nil)

// New creates a new progress reporter
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewSimpleHandler(os.Stderr)
	}
	return &Progress{
		enabled: enabled,
		handler: handler,
	}
}

// EnableTimings adds per-document durations to the output
func (p *Progress) EnableTimings() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.withTimings = true
}

// Report sends an event to the handler (only if enabled)
func (p *Progress) Report(event Event) {
	if p == nil || !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.withTimings && event.Type == EventDocumentIdentified {
		event.Duration = 0
	}
	p.handler.Handle(event)
}

// Convenience methods for reporting events

func (p *Progress) RunStart(documents int, excludePatterns []string) {
	p.Report(Event{
		Type:  EventRunStart,
		Count: documents,
		Info:  strings.Join(excludePatterns, ", "),
	})
}

func (p *Progress) RunComplete(documents int, duration time.Duration) {
	p.Report(Event{
		Type:     EventRunComplete,
		Count:    documents,
		Duration: duration,
	})
}

func (p *Progress) ProfilesLoaded(dir string, codes []string) {
	p.Report(Event{
		Type:  EventProfilesLoaded,
		Path:  dir,
		Count: len(codes),
		Info:  strings.Join(codes, ", "),
	})
}

func (p *Progress) DocumentStart(path string) {
	p.Report(Event{
		Type: EventDocumentStart,
		Path: path,
	})
}

func (p *Progress) DocumentIdentified(path, language string, score float64, trigrams int, duration time.Duration) {
	p.Report(Event{
		Type:     EventDocumentIdentified,
		Path:     path,
		Language: language,
		Score:    score,
		Count:    trigrams,
		Duration: duration,
	})
}

func (p *Progress) DocumentFailed(path string, err error) {
	p.Report(Event{
		Type:   EventDocumentFailed,
		Path:   path,
		Reason: err.Error(),
	})
}

func (p *Progress) Skipped(path, reason string) {
	p.Report(Event{
		Type:   EventSkipped,
		Path:   path,
		Reason: reason,
	})
}

func (p *Progress) FileWritten(path string) {
	p.Report(Event{
		Type: EventFileWritten,
		Path: path,
	})
}

func (p *Progress) Info(message string) {
	p.Report(Event{
		Type: EventInfo,
		Info: message,
	})
}

func (p *Progress) Infof(format string, args ...interface{}) {
	p.Info(fmt.Sprintf(format, args...))
}

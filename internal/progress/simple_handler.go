package progress

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// SimpleHandler outputs events as simple lines
type SimpleHandler struct {
	writer    io.Writer
	timings   []TimingEntry  // Track document timings for summary
	languages map[string]int // Documents per identified language
	failures  int
	skipped   int
}

func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{
		writer:    writer,
		timings:   make([]TimingEntry, 0),
		languages: make(map[string]int),
	}
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventRunStart:
		fmt.Fprintf(h.writer, "[RUN]  Starting: %d documents\n", event.Count)
		if event.Info != "" {
			fmt.Fprintf(h.writer, "[RUN]  Excluding: %s\n", event.Info)
		}

	case EventRunComplete:
		msPerDoc := 0.0
		if event.Count > 0 {
			msPerDoc = float64(event.Duration.Microseconds()) / 1000 / float64(event.Count)
		}
		fmt.Fprintf(h.writer, "[RUN]  Completed: %d documents in %.1fs (%.2fms per document)\n",
			event.Count, event.Duration.Seconds(), msPerDoc)

		h.printLanguageSummary()
		h.printTimingSummary()

	case EventProfilesLoaded:
		fmt.Fprintf(h.writer, "[PROF] Loaded %d profiles from %s: %s\n", event.Count, event.Path, event.Info)

	case EventDocumentStart:
		fmt.Fprintf(h.writer, "[DOC]  Reading: %s\n", event.Path)

	case EventDocumentIdentified:
		h.languages[event.Language]++
		if event.Duration > 0 {
			h.timings = append(h.timings, TimingEntry{Path: event.Path, Duration: event.Duration})
			seconds := event.Duration.Seconds()
			fmt.Fprintf(h.writer, "[LANG] %s: %s (score %.4f, %d trigrams) %s %.3fs\n",
				event.Path, event.Language, event.Score, event.Count, getTimingIcon(seconds), seconds)
		} else {
			fmt.Fprintf(h.writer, "[LANG] %s: %s (score %.4f, %d trigrams)\n",
				event.Path, event.Language, event.Score, event.Count)
		}

	case EventDocumentFailed:
		h.failures++
		fmt.Fprintf(h.writer, "[FAIL] %s: %s\n", event.Path, event.Reason)

	case EventSkipped:
		h.skipped++
		fmt.Fprintf(h.writer, "[SKIP] Excluding: %s (%s)\n", event.Path, event.Reason)

	case EventFileWritten:
		fmt.Fprintf(h.writer, "[OUT]  Results written: %s\n", event.Path)

	case EventInfo:
		fmt.Fprintf(h.writer, "[INFO] %s\n", event.Info)
	}
}

// printLanguageSummary lists how many documents were assigned to each language
func (h *SimpleHandler) printLanguageSummary() {
	if len(h.languages) == 0 && h.failures == 0 {
		return
	}

	codes := make([]string, 0, len(h.languages))
	for code := range h.languages {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if h.languages[codes[i]] != h.languages[codes[j]] {
			return h.languages[codes[i]] > h.languages[codes[j]]
		}
		return codes[i] < codes[j]
	})

	fmt.Fprintf(h.writer, "\n🔍 LANGUAGE SUMMARY\n")
	for _, code := range codes {
		fmt.Fprintf(h.writer, "   • %s: %d\n", code, h.languages[code])
	}
	if h.skipped > 0 {
		fmt.Fprintf(h.writer, "   • Skipped files: %d\n", h.skipped)
	}
	if h.failures > 0 {
		fmt.Fprintf(h.writer, "   • ⚠️  Failed documents: %d\n", h.failures)
	}
	fmt.Fprintln(h.writer)
}

// printTimingSummary reports the slowest documents when timings were collected
func (h *SimpleHandler) printTimingSummary() {
	if len(h.timings) == 0 {
		return
	}

	var total time.Duration
	for _, timing := range h.timings {
		total += timing.Duration
	}
	avg := total.Seconds() / float64(len(h.timings))

	fmt.Fprintf(h.writer, "📊 TIMING SUMMARY\n")
	fmt.Fprintf(h.writer, "   • Documents timed: %d\n", len(h.timings))
	fmt.Fprintf(h.writer, "   • Average per document: %.3fs\n", avg)

	sorted := sortTimingsByDuration(h.timings)
	for i, timing := range sorted {
		if i == 3 {
			break
		}
		fmt.Fprintf(h.writer, "   • %s (%.3fs)\n", shortenPath(timing.Path, 50), timing.Duration.Seconds())
	}
	fmt.Fprintln(h.writer)
}

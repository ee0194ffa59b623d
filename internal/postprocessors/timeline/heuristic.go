// Package timeline provides calendar date extraction strategies for the indexer.
package timeline

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/journai/journai-core/internal/core/ports/driven"
)

var (
	isoDatePattern    = regexp.MustCompile(`\b(20\d{2})-([01]\d)-([0-3]\d)\b`)
	monthDayPattern   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+([0-3]?\d)\b`)
	monthsByLowerName = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}
)

// Verify interface compliance.
var _ driven.TimelineExtractor = (*Heuristic)(nil)

// Heuristic finds ISO dates and "<Month> <day>" mentions.
// Month-name mentions are placed in the current year.
type Heuristic struct {
	now func() time.Time
}

// Option configures the heuristic extractor.
type Option func(*Heuristic)

// WithClock sets the clock used to resolve the year of month-name mentions.
func WithClock(now func() time.Time) Option {
	return func(h *Heuristic) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHeuristic creates a heuristic timeline extractor.
func NewHeuristic(opts ...Option) *Heuristic {
	h := &Heuristic{now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the strategy name.
func (h *Heuristic) Name() string {
	return "heuristic"
}

// Extract returns distinct midnights in loc, ascending. Impossible
// calendar dates are dropped.
func (h *Heuristic) Extract(text string, loc *time.Location) []time.Time {
	if strings.TrimSpace(text) == "" {
		return []time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}

	var found []time.Time

	for _, m := range isoDatePattern.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := midnight(year, time.Month(month), day, loc); ok {
			found = append(found, t)
		}
	}

	matches := monthDayPattern.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		year := h.now().In(loc).Year()
		for _, m := range matches {
			month := monthsByLowerName[strings.ToLower(m[1])]
			day, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			if t, ok := midnight(year, month, day, loc); ok {
				found = append(found, t)
			}
		}
	}

	return distinctSorted(found)
}

// midnight returns the start of the given day, or false if the date does
// not exist. time.Date normalises overflow, so the round trip detects it.
func midnight(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func distinctSorted(ts []time.Time) []time.Time {
	slices.SortFunc(ts, func(a, b time.Time) int { return a.Compare(b) })
	out := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		if len(out) > 0 && out[len(out)-1].Equal(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

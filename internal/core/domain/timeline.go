package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimelineItem is a dated event mentioned in an entry.
type TimelineItem struct {
	// ID is the unique identifier for the item.
	ID string

	// DocumentID links to the entry the date was found in.
	DocumentID string

	// Timestamp is the start of the mentioned day.
	Timestamp time.Time

	// Summary is a short description of the event.
	Summary string
}

// DateRange is an inclusive time window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DayLayout is the date-only form accepted by ParseDateRange.
const DayLayout = "2006-01-02"

// ParseDateRange parses a start and end given as YYYY-MM-DD (in loc) or
// RFC 3339. A date-only end covers its whole day.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	s, _, err := parseInstant(start, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("start: %w", err)
	}
	e, dateOnly, err := parseInstant(end, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("end: %w", err)
	}
	if dateOnly {
		e = e.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidInput, end, start)
	}
	return DateRange{Start: s, End: e}, nil
}

func parseInstant(v string, loc *time.Location) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation(DayLayout, v, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, v)
	}
	return t, false, nil
}

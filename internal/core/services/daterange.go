package services

import (
	"regexp"
	"strconv"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

var (
	pastDaysPattern = regexp.MustCompile(`(?i)past\s+(\d{1,3})\s+days?`)
	lastYearPattern = regexp.MustCompile(`(?i)last\s+year`)
	thisYearPattern = regexp.MustCompile(`(?i)this\s+year`)
	yearPattern     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// ParseDateRange finds a time window mentioned in a question.
//
// Recognised forms, first match wins: "past N days" (ending now), "last
// year", "this year", and the first 19xx/20xx year. Years span Jan 1
// 00:00:00 to Dec 31 23:59:59 in loc.
func ParseDateRange(question string, now time.Time, loc *time.Location) (domain.DateRange, bool) {
	if loc == nil {
		loc = time.Local
	}

	if m := pastDaysPattern.FindStringSubmatch(question); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return domain.DateRange{
				Start: now.Add(-time.Duration(days) * 24 * time.Hour),
				End:   now,
			}, true
		}
	}

	year := now.In(loc).Year()
	if lastYearPattern.MatchString(question) {
		return yearRange(year-1, loc), true
	}
	if thisYearPattern.MatchString(question) {
		return yearRange(year, loc), true
	}

	if m := yearPattern.FindString(question); m != "" {
		y, _ := strconv.Atoi(m)
		return yearRange(y, loc), true
	}

	return domain.DateRange{}, false
}

func yearRange(year int, loc *time.Location) domain.DateRange {
	return domain.DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, loc),
	}
}

package clock

import (
	"fmt"
	"time"
)

// Studio resolves "today" in the studio's local civil calendar.
// All expiration and birthday comparisons go through it so a check-in at
// 23:30 local time is never pushed into the next (or previous) UTC day.
type Studio struct {
	loc *time.Location
	now func() time.Time
}

func NewStudio(tzName string) (*Studio, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid studio timezone %q: %w", tzName, err)
	}
	return &Studio{loc: loc, now: time.Now}, nil
}

// NewStudioAt returns a Studio with a fixed wall clock, for tests.
func NewStudioAt(tzName string, at time.Time) (*Studio, error) {
	s, err := NewStudio(tzName)
	if err != nil {
		return nil, err
	}
	s.now = func() time.Time { return at }
	return s, nil
}

// Now returns wall time in the studio's timezone.
func (s *Studio) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the studio's current civil date, normalized to UTC midnight.
// Dates stored this way compare correctly with plain <, >, = regardless of
// the database engine.
func (s *Studio) Today() time.Time {
	n := s.Now()
	return Date(n.Year(), n.Month(), n.Day())
}

// MonthDay returns today's "MM-DD" in the studio's calendar.
func (s *Studio) MonthDay() string {
	n := s.Now()
	return fmt.Sprintf("%02d-%02d", int(n.Month()), n.Day())
}

// Date builds a civil date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances a civil date by whole calendar months. A card bought
// Jan 31 with one validity month expires on the normalized Mar 2/3, which
// matches Go's calendar arithmetic rather than a fixed day count.
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// MonthDayOf extracts "MM-DD" from a literally stored "YYYY-MM-DD" string.
// It deliberately never constructs a time.Time: re-deriving the month and
// day through a timezone-aware calendar can shift a birthday by one day.
func MonthDayOf(isoDate string) (string, error) {
	if len(isoDate) != 10 || isoDate[4] != '-' || isoDate[7] != '-' {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", isoDate)
	}
	for i, c := range isoDate {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", isoDate)
		}
	}
	return isoDate[5:], nil
}

// EndOfDay returns the last instant of a civil date in the studio's timezone.
func (s *Studio) EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, s.loc)
}

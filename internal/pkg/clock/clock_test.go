package clock

import (
	"testing"
	"time"
)

func TestTodayUsesStudioCalendar(t *testing.T) {
	// 2025-06-10 03:00 UTC is still 2025-06-09 in New York.
	at := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	s, err := NewStudioAt("America/New_York", at)
	if err != nil {
		t.Fatalf("NewStudioAt: %v", err)
	}
	want := Date(2025, 6, 9)
	if got := s.Today(); !got.Equal(want) {
		t.Fatalf("Today() = %v, want %v", got, want)
	}
	if md := s.MonthDay(); md != "06-09" {
		t.Fatalf("MonthDay() = %q, want 06-09", md)
	}
}

func TestAddMonthsCalendarArithmetic(t *testing.T) {
	got := AddMonths(Date(2025, 1, 15), 3)
	if want := Date(2025, 4, 15); !got.Equal(want) {
		t.Fatalf("AddMonths = %v, want %v", got, want)
	}
	// Jan 31 + 1 month normalizes past the end of February.
	got = AddMonths(Date(2025, 1, 31), 1)
	if want := Date(2025, 3, 3); !got.Equal(want) {
		t.Fatalf("AddMonths overflow = %v, want %v", got, want)
	}
}

func TestMonthDayOf(t *testing.T) {
	md, err := MonthDayOf("1990-02-29")
	if err != nil {
		t.Fatalf("MonthDayOf: %v", err)
	}
	if md != "02-29" {
		t.Fatalf("MonthDayOf = %q, want 02-29", md)
	}

	for _, bad := range []string{"", "1990-2-9", "1990/02/09", "02-09", "199O-02-09"} {
		if _, err := MonthDayOf(bad); err == nil {
			t.Fatalf("MonthDayOf(%q) expected error", bad)
		}
	}
}

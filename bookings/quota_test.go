package bookings

import (
	"strings"
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	in := time.Date(2026, 3, 10, 15, 42, 7, 0, time.UTC)
	start, end := DayBounds(in)

	if !start.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day end = %v", end)
	}
}

func TestDayBoundsConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 03:00 on the 10th in UTC+9 is still the 9th in UTC
	in := time.Date(2026, 3, 10, 3, 0, 0, 0, loc)
	start, _ := DayBounds(in)
	if start.Day() != 9 {
		t.Fatalf("expected UTC day 9, got %v", start)
	}
}

func TestISOWeekBounds(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		mon  time.Time
	}{
		{"wednesday", time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"monday itself", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"sunday belongs to prior monday", time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"year boundary", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end := ISOWeekBounds(c.in)
			if !start.Equal(c.mon) {
				t.Fatalf("week start = %v, want %v", start, c.mon)
			}
			if !end.Equal(c.mon.AddDate(0, 0, 7)) {
				t.Fatalf("week end = %v, want %v", end, c.mon.AddDate(0, 0, 7))
			}
		})
	}
}

func TestISOWeekBoundsCoverWholeWeek(t *testing.T) {
	start, end := ISOWeekBounds(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if d := end.Sub(start); d != 7*24*time.Hour {
		t.Fatalf("week spans %v, want 168h", d)
	}
	if start.Weekday() != time.Monday {
		t.Fatalf("week starts on %v, want Monday", start.Weekday())
	}
}

func TestLimitMessagesNameTheLimit(t *testing.T) {
	if msg := DailyLimitMessage(1); !strings.Contains(msg, "1") || !strings.Contains(msg, "day") {
		t.Fatalf("daily message does not name the limit: %q", msg)
	}
	if msg := WeeklyLimitMessage(5); !strings.Contains(msg, "5") || !strings.Contains(msg, "week") {
		t.Fatalf("weekly message does not name the limit: %q", msg)
	}
}

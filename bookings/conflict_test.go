package bookings

import (
	"testing"
	"time"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", ts(9, 0), ts(10, 0), ts(9, 0), ts(10, 0), true},
		{"contained", ts(9, 0), ts(12, 0), ts(10, 0), ts(11, 0), true},
		{"partial front", ts(9, 0), ts(10, 30), ts(10, 0), ts(11, 0), true},
		{"partial back", ts(10, 30), ts(12, 0), ts(10, 0), ts(11, 0), true},
		{"disjoint before", ts(8, 0), ts(9, 0), ts(10, 0), ts(11, 0), false},
		{"disjoint after", ts(12, 0), ts(13, 0), ts(10, 0), ts(11, 0), false},
		{"back to back, a first", ts(9, 0), ts(10, 0), ts(10, 0), ts(11, 0), false},
		{"back to back, b first", ts(11, 0), ts(12, 0), ts(10, 0), ts(11, 0), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
				t.Fatalf("Overlaps(%v,%v,%v,%v) = %v, want %v",
					c.aStart, c.aEnd, c.bStart, c.bEnd, got, c.want)
			}
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	a1, a2 := ts(9, 0), ts(10, 30)
	b1, b2 := ts(10, 0), ts(11, 0)
	if Overlaps(a1, a2, b1, b2) != Overlaps(b1, b2, a1, a2) {
		t.Fatal("Overlaps must be symmetric in its two intervals")
	}
}

func TestGapBetweenBookingsIsFree(t *testing.T) {
	// bookings 9-10 and 12-13; candidate fully inside the gap must not overlap either
	b1s, b1e := ts(9, 0), ts(10, 0)
	b2s, b2e := ts(12, 0), ts(13, 0)
	cs, ce := ts(10, 30), ts(11, 30)

	if Overlaps(cs, ce, b1s, b1e) || Overlaps(cs, ce, b2s, b2e) {
		t.Fatal("candidate inside the gap must not conflict")
	}

	// candidate straddling into the first booking must conflict
	cs2, ce2 := ts(9, 30), ts(10, 30)
	if !Overlaps(cs2, ce2, b1s, b1e) {
		t.Fatal("candidate overlapping an existing booking must conflict")
	}
}

package bookings

import (
	"testing"
	"time"

	"confhub/models"
)

func TestParseIntervalValid(t *testing.T) {
	start, end, err := parseInterval("2026-03-10T09:00:00Z", "2026-03-10T10:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Before(end) {
		t.Fatal("start must be before end")
	}
	if end.Sub(start) != time.Hour {
		t.Fatalf("interval length = %v, want 1h", end.Sub(start))
	}
}

func TestParseIntervalRejectsBadInput(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"garbage start", "yesterday", "2026-03-10T10:00:00Z"},
		{"garbage end", "2026-03-10T09:00:00Z", "later"},
		{"inverted", "2026-03-10T11:00:00Z", "2026-03-10T10:00:00Z"},
		{"zero length", "2026-03-10T10:00:00Z", "2026-03-10T10:00:00Z"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := parseInterval(c.start, c.end); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseTuple(t *testing.T) {
	start, end, err := parseTuple(batchTuple{Date: "2026-03-10", StartTime: "09:30", EndTime: "11:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if !end.Equal(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", end)
	}
}

func TestParseTupleRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		tuple batchTuple
	}{
		{"bad date", batchTuple{Date: "10/03/2026", StartTime: "09:00", EndTime: "10:00"}},
		{"bad start", batchTuple{Date: "2026-03-10", StartTime: "9am", EndTime: "10:00"}},
		{"bad end", batchTuple{Date: "2026-03-10", StartTime: "09:00", EndTime: "25:00"}},
		{"inverted", batchTuple{Date: "2026-03-10", StartTime: "11:00", EndTime: "10:00"}},
		{"zero length", batchTuple{Date: "2026-03-10", StartTime: "10:00", EndTime: "10:00"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := parseTuple(c.tuple); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBatchSizeCap(t *testing.T) {
	if maxBatchSize != 5 {
		t.Fatalf("batch cap = %d, want 5", maxBatchSize)
	}
}

func TestNewBookingForcesPendingStatus(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, clientStatus := range []string{"", "pending", "confirmed", "cancelled", "approved"} {
		req := createBookingRequest{
			RoomID: "r1",
			Title:  "Standup",
			Status: clientStatus,
		}
		b := newBooking(req, "u123", start, end, now)
		if b.Status != models.BookingPending {
			t.Fatalf("client status %q: persisted status = %q, want %q", clientStatus, b.Status, models.BookingPending)
		}
	}
}

func TestNewBookingCopiesRequestFields(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	req := createBookingRequest{
		RoomID:      "r1",
		Title:       "Quarterly review",
		Description: "All hands",
		Attendees:   12,
		ResourceIDs: []string{"projector"},
	}
	b := newBooking(req, "u123", start, end, now)

	if b.ID == "" {
		t.Fatal("booking id not assigned")
	}
	if b.RoomID != "r1" || b.UserID != "u123" || b.Title != "Quarterly review" {
		t.Fatalf("unexpected booking identity fields: %+v", b)
	}
	if b.Description != "All hands" || b.Attendees != 12 {
		t.Fatalf("unexpected booking detail fields: %+v", b)
	}
	if len(b.ResourceIDs) != 1 || b.ResourceIDs[0] != "projector" {
		t.Fatalf("resource ids = %v", b.ResourceIDs)
	}
	if !b.StartTime.Equal(start) || !b.EndTime.Equal(end) || !b.CreatedAt.Equal(now) {
		t.Fatalf("unexpected booking times: %+v", b)
	}
}

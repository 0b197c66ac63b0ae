package bookings

import (
	"context"
	"time"

	"confhub/db"
	"confhub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back bookings sharing a boundary instant
// do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasConflict reports whether any confirmed or pending booking on the room
// intersects [start, end). Cancelled bookings never block a slot.
//
// This is a read-then-decide check: two concurrent requests for the same slot
// can both pass it before either writes. The partial unique index on
// (roomId, startTime) catches exact-duplicate slots only; the general overlap
// race is accepted.
func HasConflict(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"roomId":    roomID,
		"status":    bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
		"startTime": bson.M{"$lt": end},
		"endTime":   bson.M{"$gt": start},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasSameDayBooking reports whether the user already holds a non-cancelled
// booking in this room on the given calendar day. Used by the batch path.
func HasSameDayBooking(ctx context.Context, userID, roomID string, day time.Time) (bool, error) {
	dayStart, dayEnd := DayBounds(day)
	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"roomId":    roomID,
		"userId":    userID,
		"status":    bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
		"startTime": bson.M{"$gte": dayStart, "$lt": dayEnd},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

package bookings

import (
	"context"
	"fmt"
	"time"

	"confhub/db"
	"confhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DayBounds returns the UTC calendar day containing t as [midnight, midnight+24h).
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ISOWeekBounds returns the ISO week (Monday through Sunday) containing t as
// [Monday midnight, next Monday midnight) in UTC.
func ISOWeekBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	// Weekday() has Sunday = 0; shift so Monday = 0.
	offset := (int(u.Weekday()) + 6) % 7
	monday := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 7)
}

// RoomLimits loads the per-room quota settings, falling back to the defaults
// when no availability row exists.
func RoomLimits(ctx context.Context, roomID string) (perDay, perWeek int, err error) {
	var avail models.RoomAvailability
	err = db.AvailabilityCollection.FindOne(ctx, bson.M{"roomId": roomID}).Decode(&avail)
	if err == mongo.ErrNoDocuments {
		return models.DefaultMaxPerDay, models.DefaultMaxPerWeek, nil
	}
	if err != nil {
		return 0, 0, err
	}
	perDay = avail.MaxBookingsPerUserPerDay
	if perDay <= 0 {
		perDay = models.DefaultMaxPerDay
	}
	perWeek = avail.MaxBookingsPerUserPerWeek
	if perWeek <= 0 {
		perWeek = models.DefaultMaxPerWeek
	}
	return perDay, perWeek, nil
}

// DailyLimitMessage and WeeklyLimitMessage are surfaced verbatim to the user.
func DailyLimitMessage(limit int) string {
	return fmt.Sprintf("You have reached the maximum of %d booking(s) per day for this room", limit)
}

func WeeklyLimitMessage(limit int) string {
	return fmt.Sprintf("You have reached the maximum of %d booking(s) per week for this room", limit)
}

func countUserBookings(ctx context.Context, userID, roomID string, from, to time.Time) (int64, error) {
	return db.BookingsCollection.CountDocuments(ctx, bson.M{
		"roomId":    roomID,
		"userId":    userID,
		"status":    bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
		"startTime": bson.M{"$gte": from, "$lt": to},
	})
}

// CheckQuota enforces the daily then weekly per-user booking limits for the
// room. It returns a non-empty rejection reason when a limit is hit, or an
// error on a store failure.
func CheckQuota(ctx context.Context, userID, roomID string, start time.Time) (string, error) {
	perDay, perWeek, err := RoomLimits(ctx, roomID)
	if err != nil {
		return "", err
	}

	dayStart, dayEnd := DayBounds(start)
	dailyCount, err := countUserBookings(ctx, userID, roomID, dayStart, dayEnd)
	if err != nil {
		return "", err
	}
	if dailyCount >= int64(perDay) {
		return DailyLimitMessage(perDay), nil
	}

	weekStart, weekEnd := ISOWeekBounds(start)
	weeklyCount, err := countUserBookings(ctx, userID, roomID, weekStart, weekEnd)
	if err != nil {
		return "", err
	}
	if weeklyCount >= int64(perWeek) {
		return WeeklyLimitMessage(perWeek), nil
	}

	return "", nil
}

package bookings

import (
	"context"
	"log"
	"time"

	"confhub/db"
	"confhub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ExpirePastPending cancels pending bookings whose start time has passed
// without a decision. Returns the number of bookings expired.
func ExpirePastPending(ctx context.Context) (int64, error) {
	res, err := db.BookingsCollection.UpdateMany(ctx,
		bson.M{
			"status":    models.BookingPending,
			"startTime": bson.M{"$lt": time.Now().UTC()},
		},
		bson.M{"$set": bson.M{
			"status":          models.BookingCancelled,
			"rejectionReason": "Booking expired: start time passed without approval",
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// StartExpirySweeper runs the sweep on a coarse interval until ctx is
// cancelled. The sweep also runs opportunistically on booking list reads, so
// the ticker only bounds staleness for idle rooms.
func StartExpirySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			n, err := ExpirePastPending(sweepCtx)
			cancel()
			if err != nil {
				log.Printf("expiry sweep: %v", err)
			} else if n > 0 {
				log.Printf("expiry sweep: cancelled %d stale pending booking(s)", n)
			}
		}
	}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"confhub/rdx"

	"github.com/redis/go-redis/v9"
)

// Edge function names invoked after a successful booking write.
const (
	FnBookingSubmitted = "send-booking-request-submitted"
	FnManagerAlert     = "send-facility-manager-booking-notification"
)

const outboxKey = "notify:outbox"
const maxAttempts = 2

// Event is one queued notification send.
type Event struct {
	BookingID string `json:"booking_id"`
	Function  string `json:"function"`
	Attempts  int    `json:"attempts"`
}

// Dispatcher queues notification events on a Redis list and delivers them from
// a worker goroutine. Booking handlers only enqueue; a slow or failing email
// function never blocks or fails the booking response.
type Dispatcher struct {
	baseURL string
	client  *http.Client
}

func NewDispatcher() *Dispatcher {
	base := os.Getenv("NOTIFY_BASE_URL")
	if base == "" {
		base = "http://localhost:54321/functions/v1"
	}
	return &Dispatcher{
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enqueue pushes one event per function onto the outbox. Failures to enqueue
// are logged and dropped; the booking is already committed.
func (d *Dispatcher) Enqueue(bookingID string, functions ...string) {
	for _, fn := range functions {
		evt := Event{BookingID: bookingID, Function: fn}
		data, err := json.Marshal(evt)
		if err != nil {
			log.Printf("notify: marshal event for booking %s: %v", bookingID, err)
			continue
		}
		if err := rdx.Conn.LPush(context.Background(), outboxKey, data).Err(); err != nil {
			log.Printf("notify: enqueue %s for booking %s: %v", fn, bookingID, err)
		}
	}
}

// StartWorker consumes the outbox until ctx is cancelled. A failed send is
// re-queued once so transient function outages are retried; second failures
// are logged with the full event and dropped.
func (d *Dispatcher) StartWorker(ctx context.Context) {
	log.Println("notify: outbox worker started")
	for {
		res, err := rdx.Conn.BRPop(ctx, 5*time.Second, outboxKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				log.Println("notify: outbox worker stopped")
				return
			}
			if err != redis.Nil {
				log.Printf("notify: outbox pop: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}
		// BRPop returns [key, value]
		if len(res) < 2 {
			continue
		}

		var evt Event
		if err := json.Unmarshal([]byte(res[1]), &evt); err != nil {
			log.Printf("notify: bad outbox payload: %v", err)
			continue
		}

		if err := d.send(ctx, evt); err != nil {
			evt.Attempts++
			if evt.Attempts < maxAttempts {
				if data, merr := json.Marshal(evt); merr == nil {
					_ = rdx.Conn.LPush(context.Background(), outboxKey, data).Err()
				}
				log.Printf("notify: %s for booking %s failed, re-queued: %v", evt.Function, evt.BookingID, err)
			} else {
				log.Printf("notify: %s for booking %s dropped after %d attempts: %v", evt.Function, evt.BookingID, evt.Attempts, err)
			}
		}
	}
}

type functionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (d *Dispatcher) send(ctx context.Context, evt Event) error {
	body, err := json.Marshal(map[string]string{"booking_id": evt.BookingID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/"+evt.Function, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("function returned %d", resp.StatusCode)
	}

	var fr functionResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err == nil && !fr.Success && fr.Error != "" {
		return fmt.Errorf("function error: %s", fr.Error)
	}
	return nil
}

package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"confhub/db"
	"confhub/middleware"
	"confhub/models"
	"confhub/notify"
	"confhub/realtime"
	"confhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

// Handler carries the collaborators the booking endpoints publish into.
type Handler struct {
	Hub      *realtime.Hub
	Notifier *notify.Dispatcher
}

func NewHandler(hub *realtime.Hub, notifier *notify.Dispatcher) *Handler {
	return &Handler{Hub: hub, Notifier: notifier}
}

const maxBatchSize = 5

// createBookingRequest covers both the single and batch shapes; a non-empty
// Bookings list selects the batch path. Status is accepted but ignored —
// new bookings always start pending.
type createBookingRequest struct {
	RoomID      string       `json:"roomId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	StartTime   string       `json:"startTime,omitempty"`
	EndTime     string       `json:"endTime,omitempty"`
	Attendees   int          `json:"attendees,omitempty"`
	ResourceIDs []string     `json:"resourceIds,omitempty"`
	Status      string       `json:"status,omitempty"`
	Bookings    []batchTuple `json:"bookings,omitempty"`
}

type batchTuple struct {
	Date      string `json:"date"`      // 2006-01-02
	StartTime string `json:"startTime"` // 15:04
	EndTime   string `json:"endTime"`
}

type batchFailure struct {
	Index  int    `json:"index"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// parseInterval parses RFC3339 start/end and enforces start < end.
func parseInterval(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startTime")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endTime")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("startTime must be before endTime")
	}
	return start, end, nil
}

// parseTuple combines a batch tuple's date and wall-clock times into UTC instants.
func parseTuple(t batchTuple) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date")
	}
	startClock, err := time.Parse("15:04", t.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startTime")
	}
	endClock, err := time.Parse("15:04", t.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endTime")
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("startTime must be before endTime")
	}
	return start, end, nil
}

// newBooking builds the row to persist from a validated request. Whatever
// status the client sent, a new booking starts pending.
func newBooking(req createBookingRequest, userID string, start, end, now time.Time) models.Booking {
	return models.Booking{
		ID:          genID(),
		RoomID:      req.RoomID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Status:      models.BookingPending,
		Attendees:   req.Attendees,
		ResourceIDs: req.ResourceIDs,
		CreatedAt:   now,
	}
}

// fetchAvailableRoom loads the room and rejects rooms under maintenance.
func fetchAvailableRoom(ctx context.Context, roomID string) (*models.Room, string, error) {
	var room models.Room
	err := db.RoomsCollection.FindOne(ctx, bson.M{"id": roomID}).Decode(&room)
	if err != nil {
		return nil, "Room not found", nil
	}
	if room.Status != models.RoomAvailable {
		return nil, "Room is not available for booking", nil
	}
	return &room, "", nil
}

// CreateBooking handles POST /api/bookings for both single and batch bodies.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(req.Bookings) > 0 {
		h.createBatch(w, r, userID, req)
		return
	}
	h.createSingle(w, r, userID, req)
}

func (h *Handler) createSingle(w http.ResponseWriter, r *http.Request, userID string, req createBookingRequest) {
	if req.RoomID == "" || req.Title == "" || req.StartTime == "" || req.EndTime == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields: roomId, title, startTime, endTime")
		return
	}

	start, end, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	room, reason, err := fetchAvailableRoom(ctx, req.RoomID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if room == nil {
		utils.RespondWithError(w, http.StatusBadRequest, reason)
		return
	}

	conflict, err := HasConflict(ctx, req.RoomID, start, end)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if conflict {
		utils.RespondWithError(w, http.StatusConflict, "Time slot already booked")
		return
	}

	if reason, err := CheckQuota(ctx, userID, req.RoomID, start); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	} else if reason != "" {
		utils.RespondWithError(w, http.StatusBadRequest, reason)
		return
	}

	booking := newBooking(req, userID, start, end, time.Now().UTC())

	if _, err := db.BookingsCollection.InsertOne(ctx, booking); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	h.Notifier.Enqueue(booking.ID, notify.FnBookingSubmitted, notify.FnManagerAlert)
	h.Hub.Publish(booking.RoomID, realtime.EventBookingCreated, booking)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"booking": booking})
}

func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request, userID string, req createBookingRequest) {
	if req.RoomID == "" || req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields: roomId, title")
		return
	}
	if len(req.Bookings) > maxBatchSize {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("A maximum of %d bookings can be created per request", maxBatchSize))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	room, reason, err := fetchAvailableRoom(ctx, req.RoomID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if room == nil {
		utils.RespondWithError(w, http.StatusBadRequest, reason)
		return
	}

	created := []models.Booking{}
	failed := []batchFailure{}

	for i, tuple := range req.Bookings {
		start, end, err := parseTuple(tuple)
		if err != nil {
			failed = append(failed, batchFailure{Index: i, Date: tuple.Date, Reason: err.Error()})
			continue
		}

		conflict, err := HasConflict(ctx, req.RoomID, start, end)
		if err != nil {
			failed = append(failed, batchFailure{Index: i, Date: tuple.Date, Reason: "db error"})
			continue
		}
		if conflict {
			failed = append(failed, batchFailure{Index: i, Date: tuple.Date, Reason: "Time slot already booked"})
			continue
		}

		duplicate, err := HasSameDayBooking(ctx, userID, req.RoomID, start)
		if err != nil {
			failed = append(failed, batchFailure{Index: i, Date: tuple.Date, Reason: "db error"})
			continue
		}
		if duplicate {
			failed = append(failed, batchFailure{Index: i, Date: tuple.Date, Reason: "You already have a booking on this day in this room"})
			continue
		}

		booking := newBooking(req, userID, start, end, time.Now().UTC())
		if _, err := db.BookingsCollection.InsertOne(ctx, booking); err != nil {
			failed = append(failed, batchFailure{Index: i, Date: tuple.Date, Reason: "Failed to create booking"})
			continue
		}
		created = append(created, booking)
	}

	for _, b := range created {
		h.Notifier.Enqueue(b.ID, notify.FnBookingSubmitted, notify.FnManagerAlert)
		h.Hub.Publish(b.RoomID, realtime.EventBookingCreated, b)
	}

	status := http.StatusCreated
	if len(created) == 0 {
		status = http.StatusConflict
	}
	utils.RespondWithJSON(w, status, utils.M{
		"created":      created,
		"failed":       failed,
		"createdCount": len(created),
		"failedCount":  len(failed),
	})
}

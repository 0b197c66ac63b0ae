package bookings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"confhub/db"
	"confhub/middleware"
	"confhub/models"
	"confhub/realtime"
	"confhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ListBookings handles GET /api/bookings with filters roomId, start, end,
// date, includeUsers. Room-scoped queries are public; anything broader needs
// a bearer token.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	roomID := q.Get("roomId")
	userID := middleware.UserIDFromContext(r.Context())

	if roomID == "" && userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Opportunistic expiry sweep keeps stale pending rows out of the listing
	// and out of later conflict checks.
	if _, err := ExpirePastPending(ctx); err != nil {
		log.Printf("expiry sweep on list: %v", err)
	}

	filter := bson.M{}
	if roomID != "" {
		filter["roomId"] = roomID
	} else {
		roles := middleware.RolesFromContext(r.Context())
		if !utils.Contains(roles, models.RoleAdmin) && !utils.Contains(roles, models.RoleFacilityManager) {
			filter["userId"] = userID
		}
	}

	timeFilter := bson.M{}
	if startStr := q.Get("start"); startStr != "" {
		if start, err := time.Parse(time.RFC3339, startStr); err == nil {
			timeFilter["$gte"] = start
		}
	}
	if endStr := q.Get("end"); endStr != "" {
		if end, err := time.Parse(time.RFC3339, endStr); err == nil {
			timeFilter["$lt"] = end
		}
	}
	if dateStr := q.Get("date"); dateStr != "" {
		if day, err := time.Parse("2006-01-02", dateStr); err == nil {
			dayStart, dayEnd := DayBounds(day)
			timeFilter["$gte"] = dayStart
			timeFilter["$lt"] = dayEnd
		}
	}
	if len(timeFilter) > 0 {
		filter["startTime"] = timeFilter
	}

	cur, err := db.BookingsCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	resp := utils.M{"bookings": bookings}
	if q.Get("includeUsers") == "true" {
		resp["users"] = organizerNames(ctx, bookings)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// organizerNames resolves userId -> username for the given bookings.
func organizerNames(ctx context.Context, bookings []models.Booking) map[string]string {
	ids := []string{}
	seen := map[string]bool{}
	for _, b := range bookings {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			ids = append(ids, b.UserID)
		}
	}
	names := map[string]string{}
	if len(ids) == 0 {
		return names
	}
	cur, err := db.UserCollection.Find(ctx, bson.M{"userid": bson.M{"$in": ids}})
	if err != nil {
		log.Printf("user lookup: %v", err)
		return names
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		log.Printf("user decode: %v", err)
		return names
	}
	for _, u := range users {
		names[u.UserID] = u.Username
	}
	return names
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": booking})
}

// UpdateBookingStatus handles PATCH /api/bookings/:id. Only pending bookings
// can transition, to confirmed or cancelled; rejection may carry a reason.
func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	var body struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.Status != models.BookingConfirmed && body.Status != models.BookingCancelled {
		utils.RespondWithError(w, http.StatusBadRequest, "Status must be confirmed or cancelled")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if booking.Status != models.BookingPending {
		utils.RespondWithError(w, http.StatusBadRequest, "Only pending bookings can be approved or rejected")
		return
	}

	update := bson.M{"status": body.Status}
	if body.Status == models.BookingCancelled && body.RejectionReason != "" {
		update["rejectionReason"] = body.RejectionReason
	}

	if _, err := db.BookingsCollection.UpdateOne(ctx, bson.M{"id": bookingID}, bson.M{"$set": update}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	booking.Status = body.Status
	if body.Status == models.BookingCancelled {
		booking.RejectionReason = body.RejectionReason
	}

	h.Hub.Publish(booking.RoomID, realtime.EventBookingStatus, booking)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": booking})
}

// DeleteBooking handles DELETE /api/bookings/:id. Organizer or admin only;
// confirmed bookings are locked inside the 24 hours before start.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	userID := middleware.UserIDFromContext(r.Context())
	roles := middleware.RolesFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	isAdmin := utils.Contains(roles, models.RoleAdmin)
	if booking.UserID != userID && !isAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "You can only delete your own bookings")
		return
	}

	if !isAdmin && booking.Status == models.BookingConfirmed {
		if time.Until(booking.StartTime) < 24*time.Hour {
			utils.RespondWithError(w, http.StatusBadRequest,
				"Confirmed bookings can only be deleted more than 24 hours before start")
			return
		}
	}

	if _, err := db.BookingsCollection.DeleteOne(ctx, bson.M{"id": bookingID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete booking")
		return
	}
	// invitations go with the booking
	if _, err := db.InvitationsCollection.DeleteMany(ctx, bson.M{"bookingId": bookingID}); err != nil {
		log.Printf("delete invitations for booking %s: %v", bookingID, err)
	}

	h.Hub.Publish(booking.RoomID, realtime.EventBookingDeleted, utils.M{"bookingId": bookingID})
	w.WriteHeader(http.StatusNoContent)
}

// CheckIn handles POST /api/bookings/:id/checkin, stamping the organizer's
// arrival once per booking.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	userID := middleware.UserIDFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if booking.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the organizer can check in")
		return
	}
	if booking.Status != models.BookingConfirmed {
		utils.RespondWithError(w, http.StatusBadRequest, "Only confirmed bookings can be checked in")
		return
	}
	if booking.CheckInTime != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Booking already checked in")
		return
	}

	now := time.Now().UTC()
	if _, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"id": bookingID},
		bson.M{"$set": bson.M{"checkInTime": now}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check in")
		return
	}

	booking.CheckInTime = &now
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": booking})
}

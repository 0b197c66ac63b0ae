package invitations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"confhub/db"
	"confhub/models"
	"confhub/rdx"
	"confhub/realtime"
	"confhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Handler struct {
	Hub *realtime.Hub
}

func NewHandler(hub *realtime.Hub) *Handler {
	return &Handler{Hub: hub}
}

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

type createInvitationsRequest struct {
	BookingID string         `json:"bookingId"`
	Invitees  []InviteeInput `json:"invitees"`
}

// loadBookingAndRoom resolves the booking and its room for capacity checks.
func loadBookingAndRoom(ctx context.Context, bookingID string) (*models.Booking, *models.Room, error) {
	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		return nil, nil, fmt.Errorf("booking not found")
	}
	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"id": booking.RoomID}).Decode(&room); err != nil {
		return nil, nil, fmt.Errorf("room not found")
	}
	return &booking, &room, nil
}

func existingInviteEmails(ctx context.Context, bookingID string) ([]string, error) {
	cur, err := db.InvitationsCollection.Find(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var invitations []models.MeetingInvitation
	if err := cur.All(ctx, &invitations); err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(invitations))
	for _, inv := range invitations {
		emails = append(emails, inv.InviteeEmail)
	}
	return emails, nil
}

// CreateInvitations handles POST /api/meeting-invitations. The batch is
// all-or-nothing against room capacity: either every accepted invitee fits or
// none are persisted.
func (h *Handler) CreateInvitations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createInvitationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.BookingID == "" || len(req.Invitees) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields: bookingId, invitees")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	booking, room, err := loadBookingAndRoom(ctx, req.BookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	existing, err := existingInviteEmails(ctx, req.BookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	accepted, skipped := DedupeInvitees(req.Invitees, existing)
	if len(accepted) == 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":   "No valid new invitees in request",
			"skipped": skipped,
		})
		return
	}

	if CapacityExceeded(len(existing), len(accepted), room.Capacity) {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":        CapacityMessage(len(existing), room.Capacity, len(accepted)),
			"currentCount": len(existing),
			"capacity":     room.Capacity,
			"requested":    len(accepted),
		})
		return
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(accepted))
	created := make([]models.MeetingInvitation, len(accepted))
	for i, invitee := range accepted {
		inv := models.MeetingInvitation{
			ID:           genID(),
			BookingID:    req.BookingID,
			InviteeName:  invitee.Name,
			InviteeEmail: invitee.Email,
			RSVPStatus:   models.RSVPPending,
			CreatedAt:    now,
		}
		docs[i] = inv
		created[i] = inv
	}

	if _, err := db.InvitationsCollection.InsertMany(ctx, docs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create invitations")
		return
	}

	invalidateCapacityCache(req.BookingID)
	h.Hub.Publish(booking.RoomID, realtime.EventInvitesChanged, utils.M{
		"bookingId": req.BookingID,
		"added":     len(created),
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"invitations": created,
		"skipped":     skipped,
	})
}

func capacityCacheKey(bookingID string) string {
	return "capacity:" + bookingID
}

func invalidateCapacityCache(bookingID string) {
	if err := rdx.RdxDel(capacityCacheKey(bookingID)); err != nil {
		log.Printf("capacity cache invalidate %s: %v", bookingID, err)
	}
}

type capacityInfo struct {
	BookingID    string `json:"bookingId"`
	CurrentCount int    `json:"currentCount"`
	Capacity     int    `json:"capacity"`
}

// CapacityCheck handles GET /api/meeting-invitations/capacity-check?bookingId=…
// Read-only and idempotent; a short Redis TTL absorbs dashboard polling.
func (h *Handler) CapacityCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookingID := r.URL.Query().Get("bookingId")
	if bookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing bookingId")
		return
	}

	if cached, err := rdx.RdxGet(capacityCacheKey(bookingID)); err == nil && cached != "" {
		var info capacityInfo
		if json.Unmarshal([]byte(cached), &info) == nil {
			utils.RespondWithJSON(w, http.StatusOK, info)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, room, err := loadBookingAndRoom(ctx, bookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	count, err := db.InvitationsCollection.CountDocuments(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	info := capacityInfo{BookingID: bookingID, CurrentCount: int(count), Capacity: room.Capacity}
	if data, err := json.Marshal(info); err == nil {
		if err := rdx.SetWithExpiry(capacityCacheKey(bookingID), string(data), 10*time.Second); err != nil {
			log.Printf("capacity cache set %s: %v", bookingID, err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, info)
}

// RSVP handles POST /api/meeting-invitations/:id/rsvp.
func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invitationID := ps.ByName("id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.Status != models.RSVPAccepted && body.Status != models.RSVPDeclined {
		utils.RespondWithError(w, http.StatusBadRequest, "Status must be accepted or declined")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var invitation models.MeetingInvitation
	if err := db.InvitationsCollection.FindOne(ctx, bson.M{"id": invitationID}).Decode(&invitation); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Invitation not found")
		return
	}

	if _, err := db.InvitationsCollection.UpdateOne(ctx,
		bson.M{"id": invitationID},
		bson.M{"$set": bson.M{"rsvpStatus": body.Status}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update RSVP")
		return
	}

	invitation.RSVPStatus = body.Status
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"invitation": invitation})
}

// ListForBooking handles GET /api/meeting-invitations?bookingId=…
func (h *Handler) ListForBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookingID := r.URL.Query().Get("bookingId")
	if bookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing bookingId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.InvitationsCollection.Find(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	invitations := []models.MeetingInvitation{}
	if err := cur.All(ctx, &invitations); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"invitations": invitations})
}

// CheckInByQR handles GET /api/meeting-invitations/checkin?code=… — scanned
// at the door from the PDF's QR code. Stamps attendance exactly once.
func (h *Handler) CheckInByQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing code")
		return
	}

	invitationID, bookingID, err := VerifyCheckInPayload(code)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var invitation models.MeetingInvitation
	if err := db.InvitationsCollection.FindOne(ctx, bson.M{"id": invitationID, "bookingId": bookingID}).Decode(&invitation); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Invitation not found")
		return
	}
	if invitation.CheckInTime != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invitee already checked in")
		return
	}

	now := time.Now().UTC()
	if _, err := db.InvitationsCollection.UpdateOne(ctx,
		bson.M{"id": invitationID},
		bson.M{"$set": bson.M{
			"attendanceStatus": "attended",
			"checkInTime":      now,
			"checkInMethod":    "qr",
		}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check in")
		return
	}

	invitation.AttendanceStatus = "attended"
	invitation.CheckInTime = &now
	invitation.CheckInMethod = "qr"
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"invitation": invitation})
}

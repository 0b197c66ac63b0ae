package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"confhub/db"
	"confhub/models"
	"confhub/realtime"
	"confhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
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

// ListRooms handles GET /api/rooms with optional facilityId and status filters.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if facilityID := r.URL.Query().Get("facilityId"); facilityID != "" {
		filter["facilityId"] = facilityID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.RoomsCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	rooms := []models.Room{}
	if err := cur.All(ctx, &rooms); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"rooms": rooms})
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"room": room})
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room models.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if room.FacilityID == "" || room.Name == "" || room.Capacity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields: facilityId, name, capacity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.FacilitiesCollection.CountDocuments(ctx, bson.M{"id": room.FacilityID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Facility not found")
		return
	}

	room.ID = genID()
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	room.CreatedAt = time.Now().Unix()

	if _, err := db.RoomsCollection.InsertOne(ctx, room); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"room": room})
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	var body struct {
		Name        *string  `json:"name,omitempty"`
		Capacity    *int     `json:"capacity,omitempty"`
		Status      *string  `json:"status,omitempty"`
		ResourceIDs []string `json:"resourceIds,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Capacity != nil {
		if *body.Capacity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Capacity must be positive")
			return
		}
		update["capacity"] = *body.Capacity
	}
	if body.Status != nil {
		update["status"] = *body.Status
	}
	if body.ResourceIDs != nil {
		update["resourceIds"] = body.ResourceIDs
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.RoomsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": roomID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var room models.Room
	if err := res.Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}

	if body.Status != nil {
		h.Hub.Publish(roomID, realtime.EventRoomStatusChange, room)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"room": room})
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"roomId": roomID,
		"status": bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Room has active bookings and cannot be deleted")
		return
	}

	res, err := db.RoomsCollection.DeleteOne(ctx, bson.M{"id": roomID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}
	_, _ = db.AvailabilityCollection.DeleteOne(ctx, bson.M{"roomId": roomID})
	w.WriteHeader(http.StatusNoContent)
}

// SetAvailability handles PUT /api/rooms/:id/availability — the per-room
// quota configuration read by the booking quota checker.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	var body models.RoomAvailability
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.MaxBookingsPerUserPerDay < 0 || body.MaxBookingsPerUserPerWeek < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Limits must not be negative")
		return
	}
	body.RoomID = roomID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.RoomsCollection.CountDocuments(ctx, bson.M{"id": roomID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}

	if _, err := db.AvailabilityCollection.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$set": body},
		options.Update().SetUpsert(true),
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save availability settings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"availability": body})
}

// GetAvailability handles GET /api/rooms/:id/availability, reporting defaults
// when no settings row exists.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var avail models.RoomAvailability
	err := db.AvailabilityCollection.FindOne(ctx, bson.M{"roomId": roomID}).Decode(&avail)
	if err != nil {
		avail = models.RoomAvailability{
			RoomID:                    roomID,
			MaxBookingsPerUserPerDay:  models.DefaultMaxPerDay,
			MaxBookingsPerUserPerWeek: models.DefaultMaxPerWeek,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"availability": avail})
}

package facilities

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"confhub/db"
	"confhub/models"
	"confhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

func ListFacilities(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if managerID := r.URL.Query().Get("managerId"); managerID != "" {
		filter["managerId"] = managerID
	}

	cur, err := db.FacilitiesCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	facilities := []models.Facility{}
	if err := cur.All(ctx, &facilities); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"facilities": facilities})
}

func GetFacility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var facility models.Facility
	if err := db.FacilitiesCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&facility); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Facility not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"facility": facility})
}

func CreateFacility(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var facility models.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if facility.Name == "" || facility.ManagerID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields: name, managerId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	facility.ID = genID()
	facility.CreatedAt = time.Now().Unix()

	if _, err := db.FacilitiesCollection.InsertOne(ctx, facility); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create facility")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"facility": facility})
}

func UpdateFacility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	facilityID := ps.ByName("id")

	var body struct {
		Name      *string `json:"name,omitempty"`
		Location  *string `json:"location,omitempty"`
		ManagerID *string `json:"managerId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Location != nil {
		update["location"] = *body.Location
	}
	if body.ManagerID != nil {
		update["managerId"] = *body.ManagerID
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.FacilitiesCollection.FindOneAndUpdate(ctx,
		bson.M{"id": facilityID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var facility models.Facility
	if err := res.Decode(&facility); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Facility not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"facility": facility})
}

// DeleteFacility refuses to remove a facility that still owns rooms or
// resources; the caller must move or delete the dependents first.
func DeleteFacility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	facilityID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	roomCount, err := db.RoomsCollection.CountDocuments(ctx, bson.M{"facilityId": facilityID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	resourceCount, err := db.ResourcesCollection.CountDocuments(ctx, bson.M{"facilityId": facilityID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if roomCount > 0 || resourceCount > 0 {
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{
			"error":     "Facility has dependent rooms or resources and cannot be deleted",
			"rooms":     roomCount,
			"resources": resourceCount,
		})
		return
	}

	res, err := db.FacilitiesCollection.DeleteOne(ctx, bson.M{"id": facilityID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Facility not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

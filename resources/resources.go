package resources

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

func ListResources(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if facilityID := r.URL.Query().Get("facilityId"); facilityID != "" {
		filter["facilityId"] = facilityID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ResourcesCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	resources := []models.Resource{}
	if err := cur.All(ctx, &resources); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"resources": resources})
}

func CreateResource(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var resource models.Resource
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if resource.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required field: name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resource.ID = genID()
	if resource.Status == "" {
		resource.Status = "available"
	}
	resource.CreatedAt = time.Now().Unix()

	if _, err := db.ResourcesCollection.InsertOne(ctx, resource); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create resource")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"resource": resource})
}

func UpdateResource(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")

	var body struct {
		Name       *string `json:"name,omitempty"`
		Status     *string `json:"status,omitempty"`
		FacilityID *string `json:"facilityId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Status != nil {
		update["status"] = *body.Status
	}
	if body.FacilityID != nil {
		update["facilityId"] = *body.FacilityID
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.ResourcesCollection.FindOneAndUpdate(ctx,
		bson.M{"id": resourceID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var resource models.Resource
	if err := res.Decode(&resource); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Resource not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"resource": resource})
}

func DeleteResource(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ResourcesCollection.DeleteOne(ctx, bson.M{"id": resourceID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Resource not found")
		return
	}
	// drop dangling references from rooms
	_, _ = db.RoomsCollection.UpdateMany(ctx,
		bson.M{"resourceIds": resourceID},
		bson.M{"$pull": bson.M{"resourceIds": resourceID}},
	)
	w.WriteHeader(http.StatusNoContent)
}

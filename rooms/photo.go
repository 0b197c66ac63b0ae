package rooms

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"confhub/db"
	"confhub/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const photoDir = "static/roompic"
const thumbDir = "static/roompic/thumb"
const maxPhotoBytes = 10 << 20

var allowedPhotoExts = []string{".jpg", ".jpeg", ".png"}

func photoExtAllowed(ext string) bool {
	for _, a := range allowedPhotoExts {
		if ext == a {
			return true
		}
	}
	return false
}

func generateThumbnail(img image.Image, baseFilename string) (string, error) {
	resized := imaging.Resize(img, 200, 0, imaging.Lanczos) // maintain aspect ratio
	name := strings.TrimSuffix(baseFilename, filepath.Ext(baseFilename)) + ".jpg"
	path := filepath.Join(thumbDir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return "/" + path, nil
}

// UploadPhoto handles POST /api/rooms/:id/photo (multipart field "photo").
// Stores the original and a 200px-wide thumbnail, then records both URLs on
// the room.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !photoExtAllowed(ext) {
		utils.RespondWithError(w, http.StatusBadRequest, "Only jpg and png photos are allowed")
		return
	}

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

	img, _, err := image.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File is not a valid image")
		return
	}

	filename := uuid.New().String() + ext
	photoPath := filepath.Join(photoDir, filename)
	if err := os.MkdirAll(photoDir, 0o755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}
	if err := imaging.Save(img, photoPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	thumbURL, err := generateThumbnail(img, filename)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create thumbnail")
		return
	}
	photoURL := "/" + photoPath

	if _, err := db.RoomsCollection.UpdateOne(ctx,
		bson.M{"id": roomID},
		bson.M{"$set": bson.M{"photoUrl": photoURL, "thumbUrl": thumbURL}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save photo reference")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"photoUrl": photoURL, "thumbUrl": thumbURL})
}

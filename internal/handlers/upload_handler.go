package handlers

import (
	"log"
	"net/http"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
	maxSizeMB     int64
}

func NewUploadHandler(uploadService *services.UploadService, maxSizeMB int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxSizeMB:     maxSizeMB,
	}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No image file provided"))
		return
	}
	defer file.Close()

	if !isValidImageType(header.Header.Get("Content-Type")) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid image type. Allowed: JPEG, PNG, GIF"))
		return
	}

	response, err := h.uploadService.Upload(file)
	if err != nil {
		if err == services.ErrInvalidImage {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid image file"))
			return
		}
		log.Printf("[Upload] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to upload image"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(response))
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
	}
	return validTypes[contentType]
}

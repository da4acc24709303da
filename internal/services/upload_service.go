package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/brasstrack/backend/internal/models"
)

var ErrInvalidImage = errors.New("invalid image file")

// Product photos are normalized on the way in so labels and the public page
// never deal with oversized originals.
const maxPhotoDim = 1200

// UploadService stores product photos under the uploads directory.
type UploadService struct {
	uploadDir string
}

func NewUploadService(uploadDir string) *UploadService {
	os.MkdirAll(uploadDir, 0755)
	return &UploadService{uploadDir: uploadDir}
}

// Upload decodes, downscales and saves one product photo, returning the URL
// to put on the product's imageURL field.
func (s *UploadService) Upload(file io.Reader) (*models.ImageUploadResponse, error) {
	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImage
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxPhotoDim || bounds.Dy() > maxPhotoDim {
		img = imaging.Fit(img, maxPhotoDim, maxPhotoDim, imaging.Lanczos)
	}

	id := uuid.New().String()
	filename := id + ".jpg"
	path := filepath.Join(s.uploadDir, filename)

	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return &models.ImageUploadResponse{
		ID:       id,
		URL:      "/uploads/" + filename,
		Filename: filename,
	}, nil
}

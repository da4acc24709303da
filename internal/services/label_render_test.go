package services

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/brasstrack/backend/internal/models"
)

func TestRenderLabel(t *testing.T) {
	gen := NewGenerator("http://example.com")
	renderer := NewLabelRenderer(gen, t.TempDir())

	product := &models.Product{
		Name:       "Classic Tap",
		ItemNumber: "A100",
		Slug:       "classic-tap-a100",
	}

	data, err := renderer.RenderLabel(product, "ITEM-ABC12345")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("label is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != labelWidth || img.Bounds().Dy() != labelHeight {
		t.Fatalf("label bounds = %v", img.Bounds())
	}
}

func TestRenderLabelMissingPhotoIsFine(t *testing.T) {
	gen := NewGenerator("http://example.com")
	renderer := NewLabelRenderer(gen, t.TempDir())

	product := &models.Product{
		Name:       "Spout",
		ItemNumber: "B7",
		Slug:       "spout-b7",
		ImageURL:   "/uploads/does-not-exist.jpg",
	}

	if _, err := renderer.RenderLabel(product, "ITEM-XYZ00001"); err != nil {
		t.Fatalf("render with missing photo failed: %v", err)
	}
}

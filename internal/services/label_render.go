package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/brasstrack/backend/internal/models"
)

const (
	labelWidth  = 640
	labelHeight = 260
	labelQRSize = 220
)

// LabelRenderer composes a printable unit label: the unit's QR code, the
// product photo when one can be loaded, and identifying text.
type LabelRenderer struct {
	gen       *Generator
	uploadDir string
	client    *http.Client
}

func NewLabelRenderer(gen *Generator, uploadDir string) *LabelRenderer {
	return &LabelRenderer{
		gen:       gen,
		uploadDir: uploadDir,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

// RenderLabel returns the label as PNG bytes.
func (r *LabelRenderer) RenderLabel(product *models.Product, itemSKU string) ([]byte, error) {
	qr, err := qrcode.New(r.gen.ItemURL(product.Slug, itemSKU), qrcode.Medium)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(labelWidth, labelHeight, color.White)
	canvas = imaging.Paste(canvas, qr.Image(labelQRSize), image.Pt(10, (labelHeight-labelQRSize)/2))

	// Product photo is best effort; the label is still valid without it.
	if photo := r.loadPhoto(product.ImageURL); photo != nil {
		fitted := imaging.Fit(photo, labelQRSize, labelQRSize, imaging.Lanczos)
		canvas = imaging.Paste(canvas, fitted, image.Pt(labelWidth-fitted.Bounds().Dx()-10, (labelHeight-fitted.Bounds().Dy())/2))
	}

	lines := []string{
		product.Name,
		fmt.Sprintf("Item No: %s", product.ItemNumber),
		fmt.Sprintf("SKU: %s", itemSKU),
	}
	drawText(canvas, lines, 250, 100)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// loadPhoto resolves a product image URL to pixels. Upload-relative paths are
// read from disk, absolute URLs are fetched; anything that fails is skipped.
func (r *LabelRenderer) loadPhoto(imageURL string) image.Image {
	if imageURL == "" {
		return nil
	}

	if strings.HasPrefix(imageURL, "/uploads/") {
		path := filepath.Join(r.uploadDir, strings.TrimPrefix(imageURL, "/uploads/"))
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()
		img, err := imaging.Decode(f)
		if err != nil {
			return nil
		}
		return img
	}

	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		resp, err := r.client.Get(imageURL)
		if err != nil {
			return nil
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil
		}
		img, err := imaging.Decode(resp.Body)
		if err != nil {
			return nil
		}
		return img
	}

	return nil
}

func drawText(dst *image.NRGBA, lines []string, x, y int) {
	face := basicfont.Face7x13
	for i, line := range lines {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(x, y+i*(face.Height+6)),
		}
		d.DrawString(line)
	}
}

package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"runtime"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/brasstrack/backend/internal/models"
)

const (
	skuPrefix   = "ITEM-"
	skuAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	skuLength   = 8

	qrPixels = 256
)

// Unit is one generated physical-unit identity: the SKU and the QR payload
// that encodes its deep link.
type Unit struct {
	SKU    string
	QRCode string
}

// Generator manufactures unit SKUs and their QR codes. SKU uniqueness is
// probabilistic; the unique index on the item collection turns the rare
// collision into an insert error.
type Generator struct {
	baseURL string
}

func NewGenerator(frontendBaseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(frontendBaseURL, "/")}
}

// ItemSKU returns a fresh "ITEM-XXXXXXXX" token over uppercase alphanumerics.
func (g *Generator) ItemSKU() string {
	buf := make([]byte, skuLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = skuAlphabet[int(b)%len(skuAlphabet)]
	}
	return skuPrefix + string(buf)
}

// ItemURL builds the public deep link a unit's QR code points at.
func (g *Generator) ItemURL(productSlug, itemSKU string) string {
	return fmt.Sprintf("%s/item/%s/%s", g.baseURL, productSlug, itemSKU)
}

// QRDataURL encodes text as a PNG QR code returned as an embedded data URL.
func (g *Generator) QRDataURL(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, qrPixels)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateUnits produces quantity unit identities for a product. QR encoding
// is CPU-bound and shares no state, so it runs across the available cores;
// the returned order matches generation order.
func (g *Generator) GenerateUnits(product *models.Product, quantity int) ([]Unit, error) {
	units := make([]Unit, quantity)
	for i := range units {
		units[i].SKU = g.ItemSKU()
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i := range units {
		i := i
		eg.Go(func() error {
			qr, err := g.QRDataURL(g.ItemURL(product.Slug, units[i].SKU))
			if err != nil {
				return err
			}
			units[i].QRCode = qr
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

package services

import (
	"bytes"
	"encoding/base64"
	"regexp"
	"strings"
	"testing"

	"github.com/brasstrack/backend/internal/models"
)

var skuPattern = regexp.MustCompile(`^ITEM-[0-9A-Z]{8}$`)

func TestItemSKUFormat(t *testing.T) {
	gen := NewGenerator("http://example.com")

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		sku := gen.ItemSKU()
		if !skuPattern.MatchString(sku) {
			t.Fatalf("SKU %q does not match expected format", sku)
		}
		if seen[sku] {
			t.Fatalf("duplicate SKU generated: %s", sku)
		}
		seen[sku] = true
	}
}

func TestItemURL(t *testing.T) {
	gen := NewGenerator("http://example.com/")

	got := gen.ItemURL("classic-tap-a100", "ITEM-ABC12345")
	want := "http://example.com/item/classic-tap-a100/ITEM-ABC12345"
	if got != want {
		t.Fatalf("ItemURL = %q, want %q", got, want)
	}
}

func TestQRDataURL(t *testing.T) {
	gen := NewGenerator("http://example.com")

	dataURL, err := gen.QRDataURL("http://example.com/item/classic-tap-a100/ITEM-ABC12345")
	if err != nil {
		t.Fatalf("QRDataURL failed: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		t.Fatalf("data URL missing PNG prefix: %.40s", dataURL)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Fatal("payload is not a PNG image")
	}
}

func TestGenerateUnits(t *testing.T) {
	gen := NewGenerator("http://example.com")
	product := &models.Product{Slug: "classic-tap-a100"}

	units, err := gen.GenerateUnits(product, 25)
	if err != nil {
		t.Fatalf("GenerateUnits failed: %v", err)
	}
	if len(units) != 25 {
		t.Fatalf("expected 25 units, got %d", len(units))
	}

	seen := make(map[string]bool)
	for _, u := range units {
		if seen[u.SKU] {
			t.Fatalf("duplicate SKU in batch: %s", u.SKU)
		}
		seen[u.SKU] = true
		if u.QRCode == "" {
			t.Fatalf("unit %s has empty QR payload", u.SKU)
		}
		if !strings.Contains(gen.ItemURL(product.Slug, u.SKU), u.SKU) {
			t.Fatalf("deep link for %s does not embed the SKU", u.SKU)
		}
	}
}

package services

import (
	"github.com/gosimple/slug"
)

// ProductSlug derives the public URL slug from a product's name and item
// number. Lowercased, non-alphanumerics stripped, so "Classic Tap" + "A100"
// becomes "classic-tap-a100".
func ProductSlug(name, itemNumber string) string {
	return slug.Make(name + "-" + itemNumber)
}

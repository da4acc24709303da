package models

import (
	"strings"
	"time"
)

// Dimensions is a length/width/height triple. Values stay as free-text
// strings ("12 cm", "4.5in") exactly as operators enter them.
type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type Product struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ItemNumber      string       `json:"itemNumber"`
	Slug            string       `json:"slug"`
	ImageURL        string       `json:"imageURL,omitempty"`
	Description     string       `json:"description,omitempty"`
	Category        *CategoryRef `json:"category"`
	ItemSizes       []Dimensions `json:"itemSize,omitempty"`
	MasterPack      string       `json:"masterPack,omitempty"`
	CartonSize      Dimensions   `json:"cartonSize"`
	Weight          string       `json:"weight,omitempty"`
	Finish          string       `json:"finish,omitempty"`
	OtherMaterials  []string     `json:"otherMaterial,omitempty"`
	Price           float64      `json:"price"`
	DiscountPercent float64      `json:"discountPercent,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type CreateProductRequest struct {
	Name            string       `json:"name"`
	ItemNumber      string       `json:"itemNumber"`
	ImageURL        string       `json:"imageURL"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	ItemSizes       []Dimensions `json:"itemSize"`
	MasterPack      string       `json:"masterPack"`
	CartonSize      Dimensions   `json:"cartonSize"`
	Weight          string       `json:"weight"`
	Finish          string       `json:"finish"`
	OtherMaterials  []string     `json:"otherMaterial"`
	Price           float64      `json:"price"`
	DiscountPercent float64      `json:"discountPercent"`
}

func (r *CreateProductRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Name = strings.TrimSpace(r.Name)
	r.ItemNumber = strings.TrimSpace(r.ItemNumber)

	if r.Name == "" {
		errors["name"] = "Product name is required"
	}
	if r.ItemNumber == "" {
		errors["itemNumber"] = "Item number is required"
	}
	if r.Category == "" {
		errors["category"] = "Category is required"
	}
	if r.Price <= 0 {
		errors["price"] = "Price is required and must be positive"
	}

	return errors
}

// SortOrder is the requested listing direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortKey selects which listing ordering applies. SortByItemNumber is the
// item-number-structure-aware ordering; SortByCreatedAt orders by record
// creation time instead.
type SortKey string

const (
	SortByItemNumber SortKey = "itemNumber"
	SortByCreatedAt  SortKey = "createdAt"
)

// ListProductsQuery carries the search/filter/sort/pagination inputs of the
// product listing endpoint. All fields are optional; zero values fall back to
// the documented defaults.
type ListProductsQuery struct {
	Search   string
	Sort     SortOrder
	SortBy   SortKey
	Page     int
	Limit    int
	Category string
}

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Normalize applies defaults and bounds so malformed inputs never reach the
// datastore.
func (q *ListProductsQuery) Normalize() {
	if q.Sort != SortAsc {
		q.Sort = SortDesc
	}
	if q.SortBy != SortByCreatedAt {
		q.SortBy = SortByItemNumber
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Category == "all" {
		q.Category = ""
	}
	q.Search = strings.TrimSpace(q.Search)
}

// ProductListing is the single response object of the listing endpoint.
type ProductListing struct {
	Success       bool       `json:"success"`
	Products      []*Product `json:"products"`
	TotalProducts int64      `json:"totalProducts"`
	TotalPages    int        `json:"totalPages"`
	CurrentPage   int        `json:"currentPage"`
	SortBy        SortKey    `json:"sortBy"`
	SortOrder     SortOrder  `json:"sortOrder"`
}

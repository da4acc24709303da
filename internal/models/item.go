package models

import (
	"time"
)

// Item is one physical unit of a Product, individually SKU'd and QR-tagged.
type Item struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	ItemSKU   string    `json:"itemSKU"`
	QRCode    string    `json:"qrCode"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateItemsRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (r *CreateItemsRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.ProductID == "" {
		errors["productId"] = "Product ID is required"
	}
	if r.Quantity < 1 {
		errors["quantity"] = "Quantity must be at least 1"
	}

	return errors
}

// CreateItemsResponse mirrors the bulk creation payload: the generated unit
// records, SKUs and QR data URLs included.
type CreateItemsResponse struct {
	Success bool    `json:"success"`
	Items   []*Item `json:"items"`
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProductField enumerates the fields the generic update endpoint may touch.
// The set is closed: anything else is rejected before it reaches the store.
type ProductField string

const (
	FieldName            ProductField = "name"
	FieldDescription     ProductField = "description"
	FieldCategory        ProductField = "category"
	FieldImageURL        ProductField = "imageURL"
	FieldItemNumber      ProductField = "itemNumber"
	FieldItemSize        ProductField = "itemSize"
	FieldMasterPack      ProductField = "masterPack"
	FieldCartonSize      ProductField = "cartonSize"
	FieldWeight          ProductField = "weight"
	FieldFinish          ProductField = "finish"
	FieldOtherMaterial   ProductField = "otherMaterial"
	FieldPrice           ProductField = "price"
	FieldDiscountPercent ProductField = "discountPercent"
)

// UpdateFieldRequest is the raw wire form of a single-field patch.
type UpdateFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// ProductUpdate is the decoded, typed form of one allowed field update. Only
// the member matching Field is meaningful.
type ProductUpdate struct {
	Field     ProductField
	Text      string
	Sizes     []Dimensions
	Carton    Dimensions
	Materials []string
	Number    float64
}

// Decode validates the field name against the closed set and unmarshals the
// value into the shape that field requires.
func (r *UpdateFieldRequest) Decode() (*ProductUpdate, error) {
	if r.Field == "" {
		return nil, fmt.Errorf("field name is required")
	}

	u := &ProductUpdate{Field: ProductField(r.Field)}

	switch u.Field {
	case FieldName, FieldDescription, FieldCategory, FieldImageURL,
		FieldItemNumber, FieldMasterPack, FieldWeight, FieldFinish:
		if err := json.Unmarshal(r.Value, &u.Text); err != nil {
			return nil, fmt.Errorf("%s must be a string", r.Field)
		}
		u.Text = strings.TrimSpace(u.Text)
		if (u.Field == FieldName || u.Field == FieldItemNumber || u.Field == FieldCategory) && u.Text == "" {
			return nil, fmt.Errorf("%s cannot be empty", r.Field)
		}
	case FieldItemSize:
		if err := json.Unmarshal(r.Value, &u.Sizes); err != nil {
			return nil, fmt.Errorf("itemSize must be a list of dimensions")
		}
	case FieldCartonSize:
		if err := json.Unmarshal(r.Value, &u.Carton); err != nil {
			return nil, fmt.Errorf("cartonSize must be a dimensions object")
		}
	case FieldOtherMaterial:
		if err := json.Unmarshal(r.Value, &u.Materials); err != nil {
			return nil, fmt.Errorf("otherMaterial must be a list of strings")
		}
	case FieldPrice, FieldDiscountPercent:
		if err := json.Unmarshal(r.Value, &u.Number); err != nil {
			return nil, fmt.Errorf("%s must be a number", r.Field)
		}
		if u.Field == FieldPrice && u.Number <= 0 {
			return nil, fmt.Errorf("price must be positive")
		}
	default:
		return nil, fmt.Errorf("invalid field")
	}

	return u, nil
}

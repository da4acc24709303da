package models

import (
	"strings"
	"time"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryRef is the resolved form embedded in product responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r *CreateCategoryRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errors["name"] = "Category name is required"
	}

	return errors
}

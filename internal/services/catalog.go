package services

import (
	"errors"

	"github.com/brasstrack/backend/internal/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product with this item number or slug already exists")
	ErrItemNotFound     = errors.New("item not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
)

// CategoryService manages the product category reference data.
type CategoryService interface {
	Create(name string) (*models.Category, error)
	List() ([]*models.Category, error)
	Delete(id string) error
}

// ProductService manages the product catalog, including the searched, sorted
// and paginated listing.
type ProductService interface {
	Create(req *models.CreateProductRequest) (*models.Product, error)
	List(query models.ListProductsQuery) (*models.ProductListing, error)
	ListByCategory(categoryID string) ([]*models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByItemNumber(itemNumber string) (*models.Product, error)
	UpdateField(id string, update *models.ProductUpdate) (*models.Product, error)
	Delete(id string) error
}

// ItemService manages physical stock units. Units are only ever created in
// bulk against one product; there is no update or single delete.
type ItemService interface {
	CreateBatch(productID string, quantity int) ([]*models.Item, error)
	List() ([]*models.Item, error)
	GetBySKU(itemSKU string) (*models.Item, error)
}

// UserService backs the access-control gate.
type UserService interface {
	Authenticate(email, password string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	EnsureAdmin(email, password, name string) error
}

// StatsService reports the dashboard counters.
type StatsService interface {
	Stats() (*models.StatsResponse, error)
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	product, err := h.productService.Create(&req)
	if err != nil {
		if err == services.ErrDuplicateProduct {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Product with this item number already exists"))
			return
		}
		log.Printf("[CreateProduct] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create product"))
		return
	}

	log.Printf("[CreateProduct] Product created: %s (%s)", product.ID, product.ItemNumber)
	writeJSON(w, http.StatusCreated, models.ProductResponse{Success: true, Product: product})
}

// ListProducts answers search + filter + sort + pagination as one response
// object.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := models.ListProductsQuery{
		Search:   q.Get("search"),
		Sort:     models.SortOrder(q.Get("sort")),
		SortBy:   models.SortKey(q.Get("sortBy")),
		Category: q.Get("category"),
	}
	// Malformed numbers fall back to defaults rather than failing the query.
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		query.Limit = v
	}

	listing, err := h.productService.List(query)
	if err != nil {
		log.Printf("[ListProducts] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list products"))
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

// ListProductsByCategory keeps the legacy route shape GET /products/{id},
// where the path segment is a category id.
func (h *ProductHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "id")

	products, err := h.productService.ListByCategory(categoryID)
	if err != nil {
		log.Printf("[ListProductsByCategory] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list products"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(products))
}

// GetProductByItemNumber backs the public read-only lookup page.
func (h *ProductHandler) GetProductByItemNumber(w http.ResponseWriter, r *http.Request) {
	itemNumber := chi.URLParam(r, "itemNumber")

	product, err := h.productService.GetByItemNumber(itemNumber)
	if err != nil {
		if err == services.ErrProductNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		log.Printf("[GetProductByItemNumber] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get product"))
		return
	}

	writeJSON(w, http.StatusOK, models.ProductResponse{Success: true, Product: product})
}

func (h *ProductHandler) UpdateProductField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	update, err := req.Decode()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	product, err := h.productService.UpdateField(id, update)
	if err != nil {
		if err == services.ErrProductNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		if err == services.ErrDuplicateProduct {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Update collides with an existing product"))
			return
		}
		log.Printf("[UpdateProductField] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update product"))
		return
	}

	writeJSON(w, http.StatusOK, models.ProductResponse{
		Success: true,
		Message: string(update.Field) + " updated successfully",
		Product: product,
	})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.productService.Delete(id); err != nil {
		if err == services.ErrProductNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		log.Printf("[DeleteProduct] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete product"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Product deleted successfully"}))
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	category, err := h.categoryService.Create(req.Name)
	if err != nil {
		if err == services.ErrCategoryExists {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Category already exists"))
			return
		}
		log.Printf("[CreateCategory] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create category"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(category))
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List()
	if err != nil {
		log.Printf("[ListCategories] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list categories"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(categories))
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.categoryService.Delete(id); err != nil {
		if err == services.ErrCategoryNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Category not found"))
			return
		}
		log.Printf("[DeleteCategory] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete category"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Category deleted successfully"}))
}

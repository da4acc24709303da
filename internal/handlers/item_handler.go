package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

type ItemHandler struct {
	itemService   services.ItemService
	labelRenderer *services.LabelRenderer
}

func NewItemHandler(itemService services.ItemService, labelRenderer *services.LabelRenderer) *ItemHandler {
	return &ItemHandler{
		itemService:   itemService,
		labelRenderer: labelRenderer,
	}
}

// CreateItems bulk-creates quantity stock units against one product, each
// with a generated SKU and QR code.
func (h *ItemHandler) CreateItems(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	items, err := h.itemService.CreateBatch(req.ProductID, req.Quantity)
	if err != nil {
		if err == services.ErrProductNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found"))
			return
		}
		log.Printf("[CreateItems] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create items"))
		return
	}

	log.Printf("[CreateItems] Created %d items for product %s", len(items), req.ProductID)
	writeJSON(w, http.StatusCreated, models.CreateItemsResponse{Success: true, Items: items})
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.List()
	if err != nil {
		log.Printf("[ListItems] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list items"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(items))
}

func (h *ItemHandler) GetItemBySKU(w http.ResponseWriter, r *http.Request) {
	itemSKU := chi.URLParam(r, "itemSKU")

	item, err := h.itemService.GetBySKU(itemSKU)
	if err != nil {
		if err == services.ErrItemNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
			return
		}
		log.Printf("[GetItemBySKU] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get item"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(item))
}

// GetItemLabel renders a printable PNG label for one unit: QR code, product
// photo when available, identifying text.
func (h *ItemHandler) GetItemLabel(w http.ResponseWriter, r *http.Request) {
	itemSKU := chi.URLParam(r, "itemSKU")

	item, err := h.itemService.GetBySKU(itemSKU)
	if err != nil {
		if err == services.ErrItemNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
			return
		}
		log.Printf("[GetItemLabel] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get item"))
		return
	}
	if item.Product == nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Product not found for item"))
		return
	}

	label, err := h.labelRenderer.RenderLabel(item.Product, item.ItemSKU)
	if err != nil {
		log.Printf("[GetItemLabel] Render error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to render label"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(label)
}

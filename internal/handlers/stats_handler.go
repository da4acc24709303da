package handlers

import (
	"log"
	"net/http"

	"github.com/brasstrack/backend/internal/models"
	"github.com/brasstrack/backend/internal/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Stats()
	if err != nil {
		log.Printf("[GetStats] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch dashboard statistics"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stats))
}

package handler

import (
	"net/http"

	"github.com/aidar/resourcing-service/internal/service"
)

// StatsHandler обрабатывает эндпоинты статистики загрузки
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler создает новый StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetUtilization обрабатывает GET /stats/utilization
func (h *StatsHandler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetUtilization(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetUserUtilization обрабатывает GET /stats/utilization/user?user_id=...
func (h *StatsHandler) GetUserUtilization(w http.ResponseWriter, r *http.Request) {
	rawUserID := r.URL.Query().Get("user_id")
	if rawUserID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id query parameter is required")
		return
	}

	userID, ok := parseUUIDParam(rawUserID)
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id must be a valid UUID")
		return
	}

	stats, err := h.statsService.GetUserUtilization(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

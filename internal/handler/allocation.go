package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/service"
)

// AllocationHandler обрабатывает эндпоинты аллокаций ресурсов
type AllocationHandler struct {
	allocationService *service.AllocationService
}

// NewAllocationHandler создает новый AllocationHandler
func NewAllocationHandler(allocationService *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
	}
}

// CreateAllocationRequest представляет тело запроса для создания аллокации
type CreateAllocationRequest struct {
	UserID                string          `json:"user_id"`
	AllocatedHoursPerWeek decimal.Decimal `json:"allocated_hours_per_week"`
	StartDate             *domain.Date    `json:"start_date"`
	EndDate               *domain.Date    `json:"end_date"`
	Notes                 string          `json:"notes"`
}

// UpdateAllocationRequest представляет тело запроса для частичного
// обновления аллокации: отсутствующие поля остаются без изменений
type UpdateAllocationRequest struct {
	AllocatedHoursPerWeek *decimal.Decimal `json:"allocated_hours_per_week"`
	StartDate             *domain.Date     `json:"start_date"`
	EndDate               *domain.Date     `json:"end_date"`
	Notes                 *string          `json:"notes"`
}

// DeleteAllocationResponse представляет ответ на удаление аллокации
type DeleteAllocationResponse struct {
	Success bool `json:"success"`
}

// List обрабатывает GET /projects/{projectId}/resource-allocations
func (h *AllocationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	projectID, ok := parseUUIDParam(chi.URLParam(r, "projectId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid project id")
		return
	}

	allocations, err := h.allocationService.List(r.Context(), actor, projectID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, allocations)
}

// Create обрабатывает POST /projects/{projectId}/resource-allocations
func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	projectID, ok := parseUUIDParam(chi.URLParam(r, "projectId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid project id")
		return
	}

	var req CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	// Валидация запроса
	if req.UserID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}

	userID, ok := parseUUIDParam(req.UserID)
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id must be a valid UUID")
		return
	}

	// Создаем аллокацию (проверка пересечений и доступности в сервисе)
	allocation, err := h.allocationService.Create(r.Context(), actor, projectID, service.CreateAllocationInput{
		UserID:                userID,
		AllocatedHoursPerWeek: req.AllocatedHoursPerWeek,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		Notes:                 req.Notes,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, allocation)
}

// Update обрабатывает PUT /projects/{projectId}/resource-allocations/{allocationId}
func (h *AllocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	projectID, ok := parseUUIDParam(chi.URLParam(r, "projectId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid project id")
		return
	}

	allocationID, ok := parseUUIDParam(chi.URLParam(r, "allocationId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid allocation id")
		return
	}

	var req UpdateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	patch := domain.AllocationPatch{
		AllocatedHoursPerWeek: req.AllocatedHoursPerWeek,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		Notes:                 req.Notes,
	}

	// Обновляем аллокацию (повторная проверка доступности только при
	// изменении часов или периода)
	allocation, err := h.allocationService.Update(r.Context(), actor, projectID, allocationID, patch)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, allocation)
}

// Delete обрабатывает DELETE /projects/{projectId}/resource-allocations/{allocationId}
func (h *AllocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	projectID, ok := parseUUIDParam(chi.URLParam(r, "projectId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid project id")
		return
	}

	allocationID, ok := parseUUIDParam(chi.URLParam(r, "allocationId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid allocation id")
		return
	}

	// Удаляем аллокацию (снятие нагрузки не требует проверки доступности)
	if err := h.allocationService.Delete(r.Context(), actor, projectID, allocationID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, DeleteAllocationResponse{Success: true})
}

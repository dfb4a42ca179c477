package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей и их доступности
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest представляет тело запроса для создания пользователя
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateUserResponse представляет ответ на создание пользователя
type CreateUserResponse struct {
	User *domain.User `json:"user"`
}

// CreateUser обрабатывает POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	// Валидация запроса
	if req.Name == "" || req.Email == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "name and email are required")
		return
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleMember
	}
	if !role.IsValid() {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid role")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Name, req.Email, role)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, CreateUserResponse{User: user})
}

// SetCapacityRequest представляет тело запроса для установки доступности.
// default_hours_per_week опционален: отсутствующее поле берется равным
// максимуму, а явное некорректное значение отклоняется
type SetCapacityRequest struct {
	MaxHoursPerWeek     decimal.Decimal  `json:"max_hours_per_week"`
	DefaultHoursPerWeek *decimal.Decimal `json:"default_hours_per_week"`
}

// GetCapacity обрабатывает GET /users/{userId}/capacity
func (h *UserHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(chi.URLParam(r, "userId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id")
		return
	}

	capacity, err := h.userService.GetCapacity(r.Context(), userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, capacity)
}

// SetCapacity обрабатывает PUT /users/{userId}/capacity
func (h *UserHandler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	userID, ok := parseUUIDParam(chi.URLParam(r, "userId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id")
		return
	}

	var req SetCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	// Если default_hours_per_week не указан, используем максимум
	defaultHours := req.MaxHoursPerWeek
	if req.DefaultHoursPerWeek != nil {
		defaultHours = *req.DefaultHoursPerWeek
	}

	capacity, err := h.userService.SetCapacity(r.Context(), actor, userID, req.MaxHoursPerWeek, defaultHours)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, capacity)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/service"
)

// ProjectHandler обрабатывает эндпоинты проектов
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler создает новый ProjectHandler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProjectRequest представляет тело запроса для создания проекта
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// CreateProjectResponse представляет ответ на создание проекта
type CreateProjectResponse struct {
	Project *domain.Project `json:"project"`
}

// CreateProject обрабатывает POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	// Валидация запроса
	if req.Name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}

	// Создаем проект (создатель становится владельцем)
	project, err := h.projectService.CreateProject(r.Context(), actor, req.Name)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, CreateProjectResponse{Project: project})
}

// GetProject обрабатывает GET /projects/{projectId}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(chi.URLParam(r, "projectId"))
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid project id")
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, project)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/repository"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProject creates a new project owned by the actor
func (s *ProjectService) CreateProject(ctx context.Context, actor domain.Actor, name string) (*domain.Project, error) {
	project := &domain.Project{
		ID:      uuid.New(),
		Name:    name,
		OwnerID: actor.UserID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

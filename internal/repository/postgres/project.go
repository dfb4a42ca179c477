package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/resourcing-service/internal/domain"
)

// ProjectRepository реализует repository.ProjectRepository для PostgreSQL
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository создает новый экземпляр ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создает новый проект
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := queryEngine(ctx, r.db).QueryRow(ctx, query,
		project.ID, project.Name, project.OwnerID,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.ErrUserNotFound
		}
		return err
	}

	return nil
}

// GetByID получает проект по ID
func (r *ProjectRepository) GetByID(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := queryEngine(ctx, r.db).QueryRow(ctx, query, projectID).Scan(
		&project.ID,
		&project.Name,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/resourcing-service/internal/domain"
)

// AllocationRepository реализует repository.AllocationRepository для PostgreSQL
type AllocationRepository struct {
	db *pgxpool.Pool
}

// NewAllocationRepository создает новый экземпляр AllocationRepository
func NewAllocationRepository(db *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// Create создает новую аллокацию
func (r *AllocationRepository) Create(ctx context.Context, allocation *domain.Allocation) error {
	query := `
		INSERT INTO resource_allocations (id, project_id, user_id, allocated_hours_per_week, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := queryEngine(ctx, r.db).QueryRow(ctx, query,
		allocation.ID,
		allocation.ProjectID,
		allocation.UserID,
		allocation.AllocatedHoursPerWeek,
		domain.TimePtrFromDate(allocation.StartDate),
		domain.TimePtrFromDate(allocation.EndDate),
		allocation.Notes,
	).Scan(&allocation.CreatedAt, &allocation.UpdatedAt)

	if err != nil {
		return mapAllocationError(err)
	}

	return nil
}

// GetByID получает аллокацию по ID вместе с информацией о пользователе
func (r *AllocationRepository) GetByID(ctx context.Context, allocationID uuid.UUID) (*domain.Allocation, error) {
	query := `
		SELECT ra.id, ra.project_id, ra.user_id, ra.allocated_hours_per_week,
		       ra.start_date, ra.end_date, ra.notes, ra.created_at, ra.updated_at,
		       u.id, u.name, u.email
		FROM resource_allocations ra
		INNER JOIN users u ON u.id = ra.user_id
		WHERE ra.id = $1
	`

	allocation, err := scanAllocation(queryEngine(ctx, r.db).QueryRow(ctx, query, allocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, err
	}

	return allocation, nil
}

// ListByProject возвращает аллокации проекта с информацией о пользователях,
// упорядоченные по start_date по возрастанию (бессрочные первыми)
func (r *AllocationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Allocation, error) {
	query := `
		SELECT ra.id, ra.project_id, ra.user_id, ra.allocated_hours_per_week,
		       ra.start_date, ra.end_date, ra.notes, ra.created_at, ra.updated_at,
		       u.id, u.name, u.email
		FROM resource_allocations ra
		INNER JOIN users u ON u.id = ra.user_id
		WHERE ra.project_id = $1
		ORDER BY ra.start_date ASC NULLS FIRST, ra.created_at ASC
	`

	rows, err := queryEngine(ctx, r.db).Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := []*domain.Allocation{}
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, allocation)
	}

	return allocations, rows.Err()
}

// ListByUser возвращает все аллокации пользователя по всем проектам,
// исключая аллокацию с ID excludeID (uuid.Nil — ничего не исключать)
func (r *AllocationRepository) ListByUser(ctx context.Context, userID, excludeID uuid.UUID) ([]*domain.Allocation, error) {
	query := `
		SELECT ra.id, ra.project_id, ra.user_id, ra.allocated_hours_per_week,
		       ra.start_date, ra.end_date, ra.notes, ra.created_at, ra.updated_at,
		       u.id, u.name, u.email
		FROM resource_allocations ra
		INNER JOIN users u ON u.id = ra.user_id
		WHERE ra.user_id = $1 AND ra.id != $2
		ORDER BY ra.start_date ASC NULLS FIRST, ra.created_at ASC
	`

	rows, err := queryEngine(ctx, r.db).Query(ctx, query, userID, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocations []*domain.Allocation
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, allocation)
	}

	return allocations, rows.Err()
}

// Update сохраняет измененные поля аллокации
func (r *AllocationRepository) Update(ctx context.Context, allocation *domain.Allocation) error {
	query := `
		UPDATE resource_allocations
		SET allocated_hours_per_week = $1, start_date = $2, end_date = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := queryEngine(ctx, r.db).QueryRow(ctx, query,
		allocation.AllocatedHoursPerWeek,
		domain.TimePtrFromDate(allocation.StartDate),
		domain.TimePtrFromDate(allocation.EndDate),
		allocation.Notes,
		allocation.ID,
	).Scan(&allocation.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAllocationNotFound
		}
		return mapAllocationError(err)
	}

	return nil
}

// Delete удаляет аллокацию
func (r *AllocationRepository) Delete(ctx context.Context, allocationID uuid.UUID) error {
	query := `DELETE FROM resource_allocations WHERE id = $1`

	result, err := queryEngine(ctx, r.db).Exec(ctx, query, allocationID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrAllocationNotFound
	}

	return nil
}

// scanAllocation читает строку аллокации с присоединенным пользователем
func scanAllocation(row pgx.Row) (*domain.Allocation, error) {
	var (
		allocation domain.Allocation
		user       domain.UserSummary
		start, end *time.Time
	)

	err := row.Scan(
		&allocation.ID,
		&allocation.ProjectID,
		&allocation.UserID,
		&allocation.AllocatedHoursPerWeek,
		&start,
		&end,
		&allocation.Notes,
		&allocation.CreatedAt,
		&allocation.UpdatedAt,
		&user.ID,
		&user.Name,
		&user.Email,
	)
	if err != nil {
		return nil, err
	}

	allocation.StartDate = domain.DateFromTimePtr(start)
	allocation.EndDate = domain.DateFromTimePtr(end)
	allocation.User = &user
	return &allocation, nil
}

// mapAllocationError преобразует ошибки PostgreSQL в доменные
func mapAllocationError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return domain.ErrUserNotFound
		case "23514": // check_violation
			if pgErr.ConstraintName == "resource_allocations_period_check" {
				return domain.ErrInvalidDateRange
			}
			return domain.ErrNonPositiveHours
		}
	}
	return err
}

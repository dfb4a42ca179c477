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

// CapacityRepository реализует repository.CapacityRepository для PostgreSQL
type CapacityRepository struct {
	db *pgxpool.Pool
}

// NewCapacityRepository создает новый экземпляр CapacityRepository
func NewCapacityRepository(db *pgxpool.Pool) *CapacityRepository {
	return &CapacityRepository{db: db}
}

// GetActiveByUser получает активную запись о доступности пользователя
func (r *CapacityRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Capacity, error) {
	query := `
		SELECT id, user_id, max_hours_per_week, default_hours_per_week, is_active, created_at, updated_at
		FROM user_capacities
		WHERE user_id = $1 AND is_active = true
	`

	var capacity domain.Capacity
	err := queryEngine(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&capacity.ID,
		&capacity.UserID,
		&capacity.MaxHoursPerWeek,
		&capacity.DefaultHoursPerWeek,
		&capacity.IsActive,
		&capacity.CreatedAt,
		&capacity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCapacityNotFound
		}
		return nil, err
	}

	return &capacity, nil
}

// Replace деактивирует текущую активную запись пользователя и вставляет
// новую активную. Обе операции выполняются в одной транзакции.
func (r *CapacityRepository) Replace(ctx context.Context, capacity *domain.Capacity) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	deactivate := `
		UPDATE user_capacities
		SET is_active = false, updated_at = NOW()
		WHERE user_id = $1 AND is_active = true
	`
	if _, err := tx.Exec(ctx, deactivate, capacity.UserID); err != nil {
		return err
	}

	insert := `
		INSERT INTO user_capacities (id, user_id, max_hours_per_week, default_hours_per_week, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, insert,
		capacity.ID, capacity.UserID, capacity.MaxHoursPerWeek, capacity.DefaultHoursPerWeek,
	).Scan(&capacity.CreatedAt, &capacity.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.ErrUserNotFound
		}
		return err
	}

	capacity.IsActive = true
	return tx.Commit(ctx)
}

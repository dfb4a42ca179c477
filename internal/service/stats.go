package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aidar/resourcing-service/internal/domain"
)

// UserUtilization represents the current load of a user: the sum of
// hours across allocations active today versus their capacity
type UserUtilization struct {
	UserID          uuid.UUID       `json:"user_id"`
	Name            string          `json:"name"`
	AllocatedHours  decimal.Decimal `json:"allocated_hours_per_week"`
	MaxHours        decimal.Decimal `json:"max_hours_per_week"`
	AllocationCount int             `json:"allocation_count"`
}

// UtilizationStats represents utilization across all users
type UtilizationStats struct {
	Users []UserUtilization `json:"users"`
}

// StatsService handles utilization statistics queries
type StatsService struct {
	db *pgxpool.Pool
}

// NewStatsService creates a new StatsService
func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// currentAllocationsCondition matches allocations active today:
// open-ended ones (missing either date) always count
const currentAllocationsCondition = `
	(ra.start_date IS NULL OR ra.end_date IS NULL
		OR (ra.start_date <= CURRENT_DATE AND ra.end_date >= CURRENT_DATE))
`

// GetUtilization returns current utilization for all users, most
// loaded first
func (s *StatsService) GetUtilization(ctx context.Context) (*UtilizationStats, error) {
	query := `
		SELECT
			u.id,
			u.name,
			COALESCE(SUM(ra.allocated_hours_per_week), 0) AS allocated_hours,
			COALESCE(c.max_hours_per_week, 40) AS max_hours,
			COUNT(ra.id) AS allocation_count
		FROM users u
		LEFT JOIN resource_allocations ra ON ra.user_id = u.id AND ` + currentAllocationsCondition + `
		LEFT JOIN user_capacities c ON c.user_id = u.id AND c.is_active = true
		GROUP BY u.id, u.name, c.max_hours_per_week
		ORDER BY allocated_hours DESC, u.id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &UtilizationStats{Users: []UserUtilization{}}
	for rows.Next() {
		var uu UserUtilization
		if err := rows.Scan(&uu.UserID, &uu.Name, &uu.AllocatedHours, &uu.MaxHours, &uu.AllocationCount); err != nil {
			return nil, err
		}
		stats.Users = append(stats.Users, uu)
	}

	return stats, rows.Err()
}

// GetUserUtilization returns current utilization for a specific user
func (s *StatsService) GetUserUtilization(ctx context.Context, userID uuid.UUID) (*UserUtilization, error) {
	query := `
		SELECT
			u.id,
			u.name,
			COALESCE(SUM(ra.allocated_hours_per_week), 0) AS allocated_hours,
			COALESCE(c.max_hours_per_week, 40) AS max_hours,
			COUNT(ra.id) AS allocation_count
		FROM users u
		LEFT JOIN resource_allocations ra ON ra.user_id = u.id AND ` + currentAllocationsCondition + `
		LEFT JOIN user_capacities c ON c.user_id = u.id AND c.is_active = true
		WHERE u.id = $1
		GROUP BY u.id, u.name, c.max_hours_per_week
	`

	var uu UserUtilization
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&uu.UserID,
		&uu.Name,
		&uu.AllocatedHours,
		&uu.MaxHours,
		&uu.AllocationCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &uu, nil
}

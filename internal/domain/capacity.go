package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaxHoursPerWeek используется когда у пользователя нет активной
// записи о доступности
var DefaultMaxHoursPerWeek = decimal.NewFromInt(40)

// Capacity представляет доступность пользователя в часах в неделю.
// Учитывается только активная запись; при ее отсутствии максимум
// считается равным DefaultMaxHoursPerWeek.
type Capacity struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	MaxHoursPerWeek     decimal.Decimal `json:"max_hours_per_week"`
	DefaultHoursPerWeek decimal.Decimal `json:"default_hours_per_week"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

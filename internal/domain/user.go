package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role представляет глобальную роль пользователя в системе
type Role string

// Возможные роли пользователей
const (
	RoleMember         Role = "member"          // Обычный участник
	RoleProjectManager Role = "project_manager" // Менеджер проектов
	RoleAdmin          Role = "admin"           // Администратор организации
	RoleSuperAdmin     Role = "super_admin"     // Супер-администратор
)

// IsValid проверяет, что роль входит в список допустимых
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleProjectManager, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User представляет пользователя системы
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary представляет сокращенную информацию о пользователе
// (используется в ответах вместе с аллокациями)
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Actor представляет аутентифицированного инициатора запроса
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

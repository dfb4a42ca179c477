package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/aidar/resourcing-service/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// ProjectRepository определяет методы для работы с данными проектов
type ProjectRepository interface {
	// Create создает новый проект
	Create(ctx context.Context, project *domain.Project) error

	// GetByID получает проект по ID
	GetByID(ctx context.Context, projectID uuid.UUID) (*domain.Project, error)
}

// CapacityRepository определяет методы для работы с доступностью пользователей
type CapacityRepository interface {
	// GetActiveByUser получает активную запись о доступности пользователя
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Capacity, error)

	// Replace деактивирует текущую активную запись пользователя и
	// вставляет новую активную
	Replace(ctx context.Context, capacity *domain.Capacity) error
}

// AllocationRepository определяет методы для работы с аллокациями
type AllocationRepository interface {
	// Create создает новую аллокацию
	Create(ctx context.Context, allocation *domain.Allocation) error

	// GetByID получает аллокацию по ID вместе с информацией о пользователе
	GetByID(ctx context.Context, allocationID uuid.UUID) (*domain.Allocation, error)

	// ListByProject возвращает аллокации проекта с информацией о
	// пользователях, упорядоченные по start_date по возрастанию
	// (бессрочные первыми)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Allocation, error)

	// ListByUser возвращает все аллокации пользователя по всем проектам,
	// исключая аллокацию с ID excludeID (uuid.Nil — ничего не исключать)
	ListByUser(ctx context.Context, userID, excludeID uuid.UUID) ([]*domain.Allocation, error)

	// Update сохраняет измененные поля аллокации
	Update(ctx context.Context, allocation *domain.Allocation) error

	// Delete удаляет аллокацию
	Delete(ctx context.Context, allocationID uuid.UUID) error
}

// TxManager выполняет функцию внутри транзакции, удерживающей advisory
// lock на пользователя. Сериализует конкурентные проверки доступности
// для одного пользователя (защита от check-then-act гонки).
type TxManager interface {
	WithinUserLock(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context) error) error
}

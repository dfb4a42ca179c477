package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/repository"
)

// UserService handles business logic for users and their capacity
type UserService struct {
	userRepo     repository.UserRepository
	capacityRepo repository.CapacityRepository
	policy       *AuthorizationPolicy
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, capacityRepo repository.CapacityRepository, policy *AuthorizationPolicy) *UserService {
	return &UserService{
		userRepo:     userRepo,
		capacityRepo: capacityRepo,
		policy:       policy,
	}
}

// CreateUser creates a new user with the given role
func (s *UserService) CreateUser(ctx context.Context, name, email string, role domain.Role) (*domain.User, error) {
	user := &domain.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Role:     role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetCapacity returns the active capacity record of a user
func (s *UserService) GetCapacity(ctx context.Context, userID uuid.UUID) (*domain.Capacity, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.capacityRepo.GetActiveByUser(ctx, userID)
}

// SetCapacity replaces the active capacity record of a user. The
// previous active record is deactivated, not deleted, so history is
// preserved.
func (s *UserService) SetCapacity(ctx context.Context, actor domain.Actor, userID uuid.UUID, maxHours, defaultHours decimal.Decimal) (*domain.Capacity, error) {
	if err := s.policy.Authorize(actor, nil, ActionManageCapacity); err != nil {
		return nil, err
	}

	if !maxHours.IsPositive() || !defaultHours.IsPositive() {
		return nil, domain.ErrNonPositiveHours
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	capacity := &domain.Capacity{
		ID:                  uuid.New(),
		UserID:              userID,
		MaxHoursPerWeek:     maxHours,
		DefaultHoursPerWeek: defaultHours,
		IsActive:            true,
	}

	if err := s.capacityRepo.Replace(ctx, capacity); err != nil {
		return nil, err
	}

	return capacity, nil
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/repository"
)

// CreateAllocationInput carries the fields of a new allocation
type CreateAllocationInput struct {
	UserID                uuid.UUID
	AllocatedHoursPerWeek decimal.Decimal
	StartDate             *domain.Date
	EndDate               *domain.Date
	Notes                 string
}

// AllocationService handles business logic for resource allocations
type AllocationService struct {
	allocationRepo repository.AllocationRepository
	capacityRepo   repository.CapacityRepository
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	tx             repository.TxManager
	resolver       *OverlapResolver
	validator      *CapacityValidator
	policy         *AuthorizationPolicy
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	allocationRepo repository.AllocationRepository,
	capacityRepo repository.CapacityRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	tx repository.TxManager,
	resolver *OverlapResolver,
	validator *CapacityValidator,
	policy *AuthorizationPolicy,
) *AllocationService {
	return &AllocationService{
		allocationRepo: allocationRepo,
		capacityRepo:   capacityRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		tx:             tx,
		resolver:       resolver,
		validator:      validator,
		policy:         policy,
	}
}

// List returns all allocations of a project ordered by start date
func (s *AllocationService) List(ctx context.Context, actor domain.Actor, projectID uuid.UUID) ([]*domain.Allocation, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, project, ActionViewAllocations); err != nil {
		return nil, err
	}

	return s.allocationRepo.ListByProject(ctx, projectID)
}

// Create validates and persists a new allocation. The capacity check
// runs inside a per-user advisory lock so two concurrent requests for
// the same user cannot both pass the check and overcommit.
func (s *AllocationService) Create(ctx context.Context, actor domain.Actor, projectID uuid.UUID, input CreateAllocationInput) (*domain.Allocation, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, project, ActionManageAllocations); err != nil {
		return nil, err
	}

	if err := validateHoursAndPeriod(input.AllocatedHoursPerWeek, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	// Verify the target user exists before locking on them
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	allocation := &domain.Allocation{
		ID:                    uuid.New(),
		ProjectID:             projectID,
		UserID:                input.UserID,
		AllocatedHoursPerWeek: input.AllocatedHoursPerWeek,
		StartDate:             input.StartDate,
		EndDate:               input.EndDate,
		Notes:                 input.Notes,
	}

	err = s.tx.WithinUserLock(ctx, input.UserID, func(ctx context.Context) error {
		if err := s.checkCapacity(ctx, input.UserID, uuid.Nil, input.AllocatedHoursPerWeek, input.StartDate, input.EndDate); err != nil {
			return err
		}
		return s.allocationRepo.Create(ctx, allocation)
	})
	if err != nil {
		return nil, err
	}

	// Return the allocation with the joined user summary
	return s.allocationRepo.GetByID(ctx, allocation.ID)
}

// Update applies a partial update to an allocation. The capacity check
// is re-run only when the hours or period actually change, so an
// identical update is idempotent and cannot be falsely rejected.
func (s *AllocationService) Update(ctx context.Context, actor domain.Actor, projectID, allocationID uuid.UUID, patch domain.AllocationPatch) (*domain.Allocation, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Authorize(actor, project, ActionManageAllocations); err != nil {
		return nil, err
	}

	allocation, err := s.getProjectAllocation(ctx, projectID, allocationID)
	if err != nil {
		return nil, err
	}

	capacityRelevant := patch.ApplyTo(allocation)

	if err := validateHoursAndPeriod(allocation.AllocatedHoursPerWeek, allocation.StartDate, allocation.EndDate); err != nil {
		return nil, err
	}

	if !capacityRelevant {
		// Only notes changed (or nothing at all): no capacity re-check needed
		if err := s.allocationRepo.Update(ctx, allocation); err != nil {
			return nil, err
		}
		return s.allocationRepo.GetByID(ctx, allocationID)
	}

	err = s.tx.WithinUserLock(ctx, allocation.UserID, func(ctx context.Context) error {
		// The edited allocation is excluded: its prior hours must not
		// count against the new value
		if err := s.checkCapacity(ctx, allocation.UserID, allocation.ID, allocation.AllocatedHoursPerWeek, allocation.StartDate, allocation.EndDate); err != nil {
			return err
		}
		return s.allocationRepo.Update(ctx, allocation)
	})
	if err != nil {
		return nil, err
	}

	return s.allocationRepo.GetByID(ctx, allocationID)
}

// Delete removes an allocation. Removing load can never violate the
// capacity cap, so no validation is performed.
func (s *AllocationService) Delete(ctx context.Context, actor domain.Actor, projectID, allocationID uuid.UUID) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.policy.Authorize(actor, project, ActionManageAllocations); err != nil {
		return err
	}

	if _, err := s.getProjectAllocation(ctx, projectID, allocationID); err != nil {
		return err
	}

	return s.allocationRepo.Delete(ctx, allocationID)
}

// checkCapacity runs the overlap resolution and capacity validation for
// a candidate allocation, excluding excludeID from the overlap set
func (s *AllocationService) checkCapacity(ctx context.Context, userID, excludeID uuid.UUID, requestedHours decimal.Decimal, start, end *domain.Date) error {
	maxHours := domain.DefaultMaxHoursPerWeek
	capacity, err := s.capacityRepo.GetActiveByUser(ctx, userID)
	switch {
	case err == nil:
		maxHours = capacity.MaxHoursPerWeek
	case errors.Is(err, domain.ErrCapacityNotFound):
		// No active capacity record: fall back to the default maximum
	default:
		return err
	}

	existing, err := s.allocationRepo.ListByUser(ctx, userID, excludeID)
	if err != nil {
		return err
	}

	overlapping := s.resolver.Overlapping(existing, start, end)
	return s.validator.Validate(requestedHours, overlapping, maxHours)
}

// getProjectAllocation fetches an allocation and verifies it belongs to
// the project from the request URL
func (s *AllocationService) getProjectAllocation(ctx context.Context, projectID, allocationID uuid.UUID) (*domain.Allocation, error) {
	allocation, err := s.allocationRepo.GetByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if allocation.ProjectID != projectID {
		return nil, domain.ErrAllocationNotFound
	}
	return allocation, nil
}

// validateHoursAndPeriod checks the domain invariants of an allocation:
// positive hours and end date not before start date
func validateHoursAndPeriod(hours decimal.Decimal, start, end *domain.Date) error {
	if !hours.IsPositive() {
		return domain.ErrNonPositiveHours
	}
	if start != nil && end != nil && end.Before(*start) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

package service

import (
	"github.com/shopspring/decimal"

	"github.com/aidar/resourcing-service/internal/domain"
)

// OverlapResolver selects the allocations whose periods intersect a
// candidate period. Pure in-memory filtering, no side effects.
type OverlapResolver struct{}

// NewOverlapResolver creates a new OverlapResolver
func NewOverlapResolver() *OverlapResolver {
	return &OverlapResolver{}
}

// Overlapping returns the subset of existing allocations that overlap
// the candidate period. An allocation missing either date is treated
// as ongoing and always overlaps; an open-ended candidate overlaps
// every existing allocation.
func (r *OverlapResolver) Overlapping(existing []*domain.Allocation, candidateStart, candidateEnd *domain.Date) []*domain.Allocation {
	overlapping := make([]*domain.Allocation, 0, len(existing))
	for _, allocation := range existing {
		if allocation.OverlapsPeriod(candidateStart, candidateEnd) {
			overlapping = append(overlapping, allocation)
		}
	}
	return overlapping
}

// CapacityValidator decides whether a candidate allocation would push
// a user over their declared weekly capacity.
type CapacityValidator struct{}

// NewCapacityValidator creates a new CapacityValidator
func NewCapacityValidator() *CapacityValidator {
	return &CapacityValidator{}
}

// Validate sums the overlapping allocations' hours plus the requested
// hours and compares against maxHours. The boundary is inclusive: a
// total exactly equal to the maximum is accepted.
func (v *CapacityValidator) Validate(requestedHours decimal.Decimal, overlapping []*domain.Allocation, maxHours decimal.Decimal) error {
	existingHours := decimal.Zero
	for _, allocation := range overlapping {
		existingHours = existingHours.Add(allocation.AllocatedHoursPerWeek)
	}

	totalHours := existingHours.Add(requestedHours)
	if totalHours.GreaterThan(maxHours) {
		return &domain.CapacityExceededError{
			MaxHours:       maxHours,
			ExistingHours:  existingHours,
			RequestedHours: requestedHours,
			TotalHours:     totalHours,
		}
	}

	return nil
}

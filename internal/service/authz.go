package service

import (
	"github.com/aidar/resourcing-service/internal/domain"
)

// Action identifies an operation checked by the authorization policy
type Action string

// Actions known to the policy
const (
	ActionViewAllocations   Action = "allocations:view"
	ActionManageAllocations Action = "allocations:manage"
	ActionManageCapacity    Action = "capacity:manage"
)

// AuthorizationPolicy is the single place where role and ownership
// checks live. Handlers and services ask it instead of branching on
// roles inline.
type AuthorizationPolicy struct{}

// NewAuthorizationPolicy creates a new AuthorizationPolicy
func NewAuthorizationPolicy() *AuthorizationPolicy {
	return &AuthorizationPolicy{}
}

// Authorize returns nil when the actor may perform the action on the
// project, domain.ErrForbidden otherwise. The project may be nil for
// actions that are not project-scoped (capacity management).
func (p *AuthorizationPolicy) Authorize(actor domain.Actor, project *domain.Project, action Action) error {
	switch action {
	case ActionViewAllocations:
		// Any authenticated user may read
		return nil
	case ActionManageAllocations:
		if actor.Role == domain.RoleAdmin || actor.Role == domain.RoleProjectManager || actor.Role == domain.RoleSuperAdmin {
			return nil
		}
		if project != nil && project.IsOwnedBy(actor.UserID) {
			return nil
		}
		return domain.ErrForbidden
	case ActionManageCapacity:
		if actor.Role == domain.RoleAdmin || actor.Role == domain.RoleProjectManager || actor.Role == domain.RoleSuperAdmin {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

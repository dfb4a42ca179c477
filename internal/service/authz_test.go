package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aidar/resourcing-service/internal/domain"
)

func TestAuthorizationPolicy_Authorize(t *testing.T) {
	policy := NewAuthorizationPolicy()

	ownerID := uuid.New()
	project := &domain.Project{ID: uuid.New(), Name: "CRM rollout", OwnerID: ownerID}

	tests := []struct {
		name    string
		actor   domain.Actor
		action  Action
		wantErr error
	}{
		{
			name:    "member may view allocations",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleMember},
			action:  ActionViewAllocations,
			wantErr: nil,
		},
		{
			name:    "member may not manage allocations",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleMember},
			action:  ActionManageAllocations,
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "project owner may manage allocations",
			actor:   domain.Actor{UserID: ownerID, Role: domain.RoleMember},
			action:  ActionManageAllocations,
			wantErr: nil,
		},
		{
			name:    "admin may manage allocations",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin},
			action:  ActionManageAllocations,
			wantErr: nil,
		},
		{
			name:    "project manager may manage allocations",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleProjectManager},
			action:  ActionManageAllocations,
			wantErr: nil,
		},
		{
			name:    "super admin may manage allocations",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleSuperAdmin},
			action:  ActionManageAllocations,
			wantErr: nil,
		},
		{
			name:    "member may not manage capacity even as project owner",
			actor:   domain.Actor{UserID: ownerID, Role: domain.RoleMember},
			action:  ActionManageCapacity,
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "admin may manage capacity",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin},
			action:  ActionManageCapacity,
			wantErr: nil,
		},
		{
			name:    "unknown action is denied",
			actor:   domain.Actor{UserID: uuid.New(), Role: domain.RoleSuperAdmin},
			action:  Action("unknown"),
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(tt.actor, project, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

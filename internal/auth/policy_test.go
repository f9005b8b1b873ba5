package auth

import (
	"testing"

	"jobportal/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPolicyTable(t *testing.T) {
	const owner, other uint = 1, 2

	tests := []struct {
		role         models.Role
		actor        uint
		canCreate    bool
		canEditOwned bool
		canDelete    bool
	}{
		{models.RoleAdmin, other, false, true, true},
		{models.RoleRecruiter, owner, true, true, true},
		{models.RoleRecruiter, other, true, false, false},
		{models.RoleJobSeeker, owner, false, false, false},
		{models.Role("UNKNOWN"), owner, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.canCreate, CanCreateJob(tt.role), "create")
			assert.Equal(t, tt.canEditOwned, CanEditJob(tt.role, tt.actor, owner), "edit")
			assert.Equal(t, tt.canDelete, CanDeleteJob(tt.role, tt.actor, owner), "delete")
		})
	}
}

func TestEveryRoleCanViewJobsAndEditOwnProfile(t *testing.T) {
	for _, role := range models.Roles() {
		assert.True(t, HasPermission(role, ActionViewJobs), role)
		assert.True(t, HasPermission(role, ActionEditOwnProfile), role)
	}
}

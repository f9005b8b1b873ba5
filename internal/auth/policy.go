package auth

import "jobportal/internal/models"

// Action - действие, доступ к которому определяется ролью профиля
type Action string

const (
	ActionViewJobs       Action = "jobs:read"
	ActionCreateJob      Action = "jobs:create"
	ActionEditOwnJob     Action = "jobs:write:self"
	ActionDeleteOwnJob   Action = "jobs:delete:self"
	ActionEditAnyJob     Action = "jobs:write"
	ActionDeleteAnyJob   Action = "jobs:delete"
	ActionEditOwnProfile Action = "profile:write:self"
)

// Permissions - таблица разрешений по ролям
var Permissions = map[models.Role][]Action{
	models.RoleAdmin: {
		ActionViewJobs,
		ActionEditAnyJob,
		ActionDeleteAnyJob,
		ActionEditOwnProfile,
	},
	models.RoleRecruiter: {
		ActionViewJobs,
		ActionCreateJob,
		ActionEditOwnJob,
		ActionDeleteOwnJob,
		ActionEditOwnProfile,
	},
	models.RoleJobSeeker: {
		ActionViewJobs,
		ActionEditOwnProfile,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.Role, action Action) bool {
	for _, a := range Permissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// CanCreateJob - создавать вакансии может только RECRUITER
func CanCreateJob(role models.Role) bool {
	return HasPermission(role, ActionCreateJob)
}

// CanEditJob - ADMIN правит любую вакансию, RECRUITER только свою
func CanEditJob(role models.Role, actorID, ownerID uint) bool {
	if HasPermission(role, ActionEditAnyJob) {
		return true
	}
	return HasPermission(role, ActionEditOwnJob) && actorID == ownerID
}

// CanDeleteJob - ADMIN удаляет любую вакансию, RECRUITER только свою
func CanDeleteJob(role models.Role, actorID, ownerID uint) bool {
	if HasPermission(role, ActionDeleteAnyJob) {
		return true
	}
	return HasPermission(role, ActionDeleteOwnJob) && actorID == ownerID
}

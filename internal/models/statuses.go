package models

// Role - закрытое перечисление ролей профиля
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleRecruiter Role = "RECRUITER"
	RoleJobSeeker Role = "JOB_SEEKER"
)

// DefaultRole назначается профилям, созданным лениво или без явной роли
const DefaultRole = RoleJobSeeker

// Roles - все роли в порядке отображения
func Roles() []Role {
	return []Role{RoleAdmin, RoleRecruiter, RoleJobSeeker}
}

// RegistrableRoles - роли, которые можно выбрать при самостоятельной регистрации
func RegistrableRoles() []Role {
	return []Role{RoleRecruiter, RoleJobSeeker}
}

// IsValid проверяет, что роль входит в перечисление
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleJobSeeker:
		return true
	default:
		return false
	}
}

// Label - человекочитаемое название роли
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleRecruiter:
		return "Recruiter"
	case RoleJobSeeker:
		return "Job Seeker"
	default:
		return string(r)
	}
}

package auth

import "jobportal/internal/models"

// Principal - аутентифицированный пользователь текущего запроса
type Principal struct {
	UserID    uint
	Role      models.Role
	SessionID string
}

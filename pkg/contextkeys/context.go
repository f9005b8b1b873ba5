package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// UserIDKey - ключ gin.Context с ID аутентифицированного пользователя (uint)
	UserIDKey = "userID"

	// RoleKey - ключ gin.Context с ролью пользователя (models.Role)
	RoleKey = "role"

	// SessionIDKey - ключ gin.Context с ID серверной сессии
	SessionIDKey = "sessionID"
)

package handlers

import "github.com/gin-gonic/gin"

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HomeHandler    *HomeHandler
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	JobHandler     *JobHandler
	HealthHandler  *HealthHandler
}

// RouteRegistrar - хэндлер, который сам регистрирует свои маршруты
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// All - хэндлеры в порядке регистрации маршрутов
func (a *AppHandlers) All() []RouteRegistrar {
	return []RouteRegistrar{
		a.HealthHandler,
		a.HomeHandler,
		a.AuthHandler,
		a.ProfileHandler,
		a.JobHandler,
	}
}

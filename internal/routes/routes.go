package routes

import (
	"net/http"
	"strings"

	"jobportal/internal/handlers"
	"jobportal/internal/logger"
	"jobportal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// MediaRoute - раздача файлов локального хранилища (пустой Dir - не раздавать)
type MediaRoute struct {
	URLPrefix string
	Dir       string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	media MediaRoute,
) {
	root := ginRouter.Group("")
	for _, h := range appHandlers.All() {
		h.RegisterRoutes(root)
	}

	if media.Dir != "" && strings.HasPrefix(media.URLPrefix, "/") {
		ginRouter.Static(media.URLPrefix, media.Dir)
		logger.Info("Media route registered", "prefix", media.URLPrefix, "dir", media.Dir)
	}

	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.New(apperrors.CodeNotFound, "http", "Page not found", http.StatusNotFound))
	})
	ginRouter.NoMethod(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.New(apperrors.CodeInvalidOperation, "http", "Method not allowed", http.StatusMethodNotAllowed))
	})
}

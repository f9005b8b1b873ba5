package handlers

import (
	"net/http"

	"jobportal/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
	healthService services.HealthService
}

func NewHealthHandler(base *BaseHandler, healthService services.HealthService) *HealthHandler {
	return &HealthHandler{BaseHandler: base, healthService: healthService}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/healthz", h.Check)
}

// Check: 200 при доступной БД (кэш может быть degraded), иначе 503
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.healthService.Check(c.Request.Context(), h.GetDB(c))
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

package handlers

import (
	"net/http"

	"jobportal/internal/middleware"
	"jobportal/internal/services"
	"jobportal/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// TermsText - текст пользовательского соглашения
const TermsText = "By registering on Job Portal you agree to provide accurate information, " +
	"to use the site only for lawful recruiting and job searching, and to keep your credentials private. " +
	"Job listings are published by recruiters, who are responsible for their content."

type HomeHandler struct {
	*BaseHandler
	jobService services.JobService
	guards     *middleware.RouteGuards
}

func NewHomeHandler(base *BaseHandler, jobService services.JobService, guards *middleware.RouteGuards) *HomeHandler {
	return &HomeHandler{
		BaseHandler: base,
		jobService:  jobService,
		guards:      guards,
	}
}

func (h *HomeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.guards.Auth.Optional(), h.Home)
	rg.GET("/terms", h.Terms)
}

// Home - до трех случайных вакансий из кэшированного списка
func (h *HomeHandler) Home(c *gin.Context) {
	featured, err := h.jobService.Featured(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp := dto.HomeResponse{Featured: featured}
	if p, ok := middleware.GetPrincipal(c); ok {
		resp.User = &dto.UserDTO{ID: p.UserID, Role: p.Role}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HomeHandler) Terms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": "Terms and Conditions", "content": TermsText})
}

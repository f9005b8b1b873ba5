package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"jobportal/internal/middleware"
	"jobportal/internal/services"
	"jobportal/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
	guards     *middleware.RouteGuards
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, guards *middleware.RouteGuards) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
		guards:      guards,
	}
}

// RegisterRoutes: все маршруты вакансий требуют входа. Права на запись
// проверяет JobService по таблице разрешений.
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	required := h.guards.Auth.Required()

	jobs := rg.Group("/jobs", required)
	{
		jobs.GET("", h.guards.JobsListThrottle, h.ListJobs)
		jobs.GET("/:id", h.guards.UserThrottle, h.GetJob)
		jobs.POST("/:id/edit", h.guards.UserThrottle, h.UpdateJob)
		jobs.POST("/:id/delete", h.guards.UserThrottle, h.DeleteJob)
	}

	rg.POST("/create_job", required, h.guards.UserThrottle, h.CreateJob)
}

// ListJobs - 10 вакансий на страницу, сначала новые; ?q= и ?location= фильтруют
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	query := dto.JobListQuery{
		Query:    strings.TrimSpace(c.Query("q")),
		Location: strings.TrimSpace(c.Query("location")),
		Page:     page,
		PageSize: pageSize,
	}

	resp, err := h.jobService.List(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), h.GetDB(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.JobRequest
	if err := bindBody(c, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), h.GetDB(c), principal.UserID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.JobMutationResponse{
		Message:  "Job listing created successfully!",
		Redirect: fmt.Sprintf("/jobs/%d", job.ID),
		Job:      *job,
	})
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.JobRequest
	if err := bindBody(c, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), h.GetDB(c), principal.UserID, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobMutationResponse{
		Message:  "Job listing updated successfully!",
		Redirect: fmt.Sprintf("/jobs/%d", job.ID),
		Job:      *job,
	})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	jobID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), h.GetDB(c), principal.UserID, jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message:  "Job listing deleted successfully!",
		Redirect: "/jobs",
	})
}

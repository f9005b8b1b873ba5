package dto

import (
	"strings"
	"time"

	"jobportal/internal/models"
)

// JobRequest - данные вакансии для создания и редактирования
type JobRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=250"`
	Company     string `json:"company" form:"company" validate:"required,max=250"`
	Location    string `json:"location" form:"location" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
}

// Trim обрезает пробелы во всех полях
func (r *JobRequest) Trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)
}

// JobListQuery - параметры списка вакансий
type JobListQuery struct {
	Query    string
	Location string
	Page     int
	PageSize int
}

type JobResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   uint      `json:"created_by"`
}

func NewJobResponse(job *models.JobListing) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		CreatedAt:   job.CreatedAt,
		CreatedBy:   job.CreatedByID,
	}
}

func NewJobResponses(jobs []models.JobListing) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, NewJobResponse(&jobs[i]))
	}
	return out
}

// JobListResponse - страница вакансий
type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
	PaginationMeta
	Query    string `json:"q,omitempty"`
	Location string `json:"location,omitempty"`
}

// JobMutationResponse - результат создания или редактирования вакансии
type JobMutationResponse struct {
	Message  string      `json:"message"`
	Redirect string      `json:"redirect"`
	Job      JobResponse `json:"job"`
}

// HomeResponse - главная страница: до трех случайных вакансий
type HomeResponse struct {
	Featured []JobResponse `json:"featured_jobs"`
	User     *UserDTO      `json:"user,omitempty"`
}

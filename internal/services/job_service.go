package services

import (
	"context"
	"math/rand/v2"

	"jobportal/internal/auth"
	"jobportal/internal/cache"
	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
	"jobportal/internal/services/dto"
	"jobportal/internal/validator"
	"jobportal/pkg/apperrors"

	"gorm.io/gorm"
)

// FeaturedJobsCount - сколько вакансий показывать на главной
const FeaturedJobsCount = 3

type JobService interface {
	List(ctx context.Context, db *gorm.DB, query dto.JobListQuery) (*dto.JobListResponse, error)
	Get(ctx context.Context, db *gorm.DB, jobID uint) (*dto.JobResponse, error)

	// Featured - до трех случайных вакансий из кэшированного снимка
	Featured(ctx context.Context, db *gorm.DB) ([]dto.JobResponse, error)

	// AllJobs - полный список через кэш "all_jobs"
	AllJobs(ctx context.Context, db *gorm.DB) ([]models.JobListing, error)

	Create(ctx context.Context, db *gorm.DB, actorID uint, req *dto.JobRequest) (*dto.JobResponse, error)
	Update(ctx context.Context, db *gorm.DB, actorID, jobID uint, req *dto.JobRequest) (*dto.JobResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actorID, jobID uint) error
}

type JobServiceImpl struct {
	jobRepo     repositories.JobRepository
	profileRepo repositories.ProfileRepository
	cache       *cache.JobListCache
	validator   *validator.Validator
	shuffle     func(n int, swap func(i, j int))
}

func NewJobService(
	jobRepo repositories.JobRepository,
	profileRepo repositories.ProfileRepository,
	jobCache *cache.JobListCache,
	v *validator.Validator,
) JobService {
	return &JobServiceImpl{
		jobRepo:     jobRepo,
		profileRepo: profileRepo,
		cache:       jobCache,
		validator:   v,
		shuffle:     rand.Shuffle,
	}
}

func (s *JobServiceImpl) List(ctx context.Context, db *gorm.DB, query dto.JobListQuery) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobRepo.List(db, repositories.JobFilter{
		Query:    query.Query,
		Location: query.Location,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, handleJobError(err)
	}

	return &dto.JobListResponse{
		Jobs:           dto.NewJobResponses(jobs),
		PaginationMeta: dto.NewPaginationMeta(total, query.Page, query.PageSize),
		Query:          query.Query,
		Location:       query.Location,
	}, nil
}

func (s *JobServiceImpl) Get(ctx context.Context, db *gorm.DB, jobID uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	resp := dto.NewJobResponse(job)
	return &resp, nil
}

func (s *JobServiceImpl) AllJobs(ctx context.Context, db *gorm.DB) ([]models.JobListing, error) {
	jobs, err := s.cache.GetAllJobs(ctx, func() ([]models.JobListing, error) {
		return s.jobRepo.FindAll(db)
	})
	if err != nil {
		return nil, handleJobError(err)
	}
	return jobs, nil
}

func (s *JobServiceImpl) Featured(ctx context.Context, db *gorm.DB) ([]dto.JobResponse, error) {
	jobs, err := s.AllJobs(ctx, db)
	if err != nil {
		return nil, err
	}

	// выборка без возвращения: перемешиваем копию и берем первые
	picked := append([]models.JobListing(nil), jobs...)
	s.shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > FeaturedJobsCount {
		picked = picked[:FeaturedJobsCount]
	}
	return dto.NewJobResponses(picked), nil
}

// Create - только RECRUITER. Отказ не меняет ни БД, ни кэш.
func (s *JobServiceImpl) Create(ctx context.Context, db *gorm.DB, actorID uint, req *dto.JobRequest) (*dto.JobResponse, error) {
	role, err := s.roleOf(db, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.CanCreateJob(role) {
		logger.CtxWarn(ctx, "job creation denied", "user_id", actorID, "role", role)
		return nil, apperrors.ErrJobCreateDenied
	}

	req.Trim()
	if err := s.validator.Validate(req); err != nil {
		return nil, validationFailed(err)
	}

	job := &models.JobListing{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		CreatedByID: actorID,
	}
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, handleJobError(err)
	}
	s.cache.Invalidate(ctx)

	logger.CtxInfo(ctx, "✅ job created", "job_id", job.ID, "user_id", actorID)
	resp := dto.NewJobResponse(job)
	return &resp, nil
}

// Update - владелец-RECRUITER или ADMIN. id, владелец и created_at не меняются.
func (s *JobServiceImpl) Update(ctx context.Context, db *gorm.DB, actorID, jobID uint, req *dto.JobRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	role, err := s.roleOf(db, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.CanEditJob(role, actorID, job.CreatedByID) {
		logger.CtxWarn(ctx, "job edit denied", "job_id", jobID, "user_id", actorID, "role", role)
		return nil, apperrors.ErrJobAccessDenied
	}

	req.Trim()
	if err := s.validator.Validate(req); err != nil {
		return nil, validationFailed(err)
	}

	job.Title = req.Title
	job.Company = req.Company
	job.Location = req.Location
	job.Description = req.Description
	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, handleJobError(err)
	}
	s.cache.Invalidate(ctx)

	logger.CtxInfo(ctx, "job updated", "job_id", job.ID, "user_id", actorID)
	resp := dto.NewJobResponse(job)
	return &resp, nil
}

// Delete - владелец-RECRUITER или ADMIN. Удаление безвозвратное.
func (s *JobServiceImpl) Delete(ctx context.Context, db *gorm.DB, actorID, jobID uint) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return handleJobError(err)
	}
	role, err := s.roleOf(db, actorID)
	if err != nil {
		return err
	}
	if !auth.CanDeleteJob(role, actorID, job.CreatedByID) {
		logger.CtxWarn(ctx, "job delete denied", "job_id", jobID, "user_id", actorID, "role", role)
		return apperrors.ErrJobAccessDenied
	}

	if err := s.jobRepo.Delete(db, job.ID); err != nil {
		return handleJobError(err)
	}
	s.cache.Invalidate(ctx)

	logger.CtxInfo(ctx, "job deleted", "job_id", job.ID, "user_id", actorID)
	return nil
}

// roleOf читает роль из профиля (профиль создается лениво)
func (s *JobServiceImpl) roleOf(db *gorm.DB, userID uint) (models.Role, error) {
	profile, _, err := s.profileRepo.GetOrCreate(db, userID)
	if err != nil {
		return "", handleProfileError(err)
	}
	return profile.Role, nil
}

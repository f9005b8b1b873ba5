package repositories

import (
	"errors"
	"strings"

	"jobportal/internal/models"

	"gorm.io/gorm"
)

// JobFilter - параметры поиска по вакансиям
type JobFilter struct {
	Query    string // подстрока в title, company или description
	Location string // подстрока в location
	Page     int
	PageSize int
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.JobListing) error
	FindByID(db *gorm.DB, id uint) (*models.JobListing, error)

	// FindAll - все вакансии, новые первыми (снимок для кэша)
	FindAll(db *gorm.DB) ([]models.JobListing, error)

	// List - страница вакансий по фильтру, новые первыми, и общее число совпадений
	List(db *gorm.DB, filter JobFilter) ([]models.JobListing, int64, error)

	// Update меняет только редактируемые поля. CreatedByID и CreatedAt сохраняются.
	Update(db *gorm.DB, job *models.JobListing) error
	Delete(db *gorm.DB, id uint) error
}

type jobRepository struct{}

func NewJobRepository() JobRepository {
	return &jobRepository{}
}

func (r *jobRepository) Create(db *gorm.DB, job *models.JobListing) error {
	return db.Create(job).Error
}

func (r *jobRepository) FindByID(db *gorm.DB, id uint) (*models.JobListing, error) {
	var job models.JobListing
	if err := db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindAll(db *gorm.DB) ([]models.JobListing, error) {
	var jobs []models.JobListing
	err := db.Order("created_at DESC").Order("id DESC").Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) List(db *gorm.DB, filter JobFilter) ([]models.JobListing, int64, error) {
	query := db.Model(&models.JobListing{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(company) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var jobs []models.JobListing
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&jobs).Error

	return jobs, total, err
}

// Update не проверяет RowsAffected: MySQL считает только измененные строки,
// и повторная отправка тех же полей дала бы 0. Существование проверяет FindByID.
func (r *jobRepository) Update(db *gorm.DB, job *models.JobListing) error {
	return db.Model(&models.JobListing{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"title":       job.Title,
		"company":     job.Company,
		"location":    job.Location,
		"description": job.Description,
	}).Error
}

func (r *jobRepository) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.JobListing{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

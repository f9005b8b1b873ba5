package cache

import (
	"context"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/models"
)

// AllJobsKey - ключ снимка полного списка вакансий
const AllJobsKey = "all_jobs"

// DefaultJobsTTL - срок жизни снимка
const DefaultJobsTTL = 5 * time.Minute

// JobListCache - read-through кэш полного списка вакансий.
// Источник истины - БД: ошибки кэша логируются и не прерывают запрос.
type JobListCache struct {
	store Store
	ttl   time.Duration
}

func NewJobListCache(store Store, ttl time.Duration) *JobListCache {
	if ttl <= 0 {
		ttl = DefaultJobsTTL
	}
	return &JobListCache{store: store, ttl: ttl}
}

// GetAllJobs возвращает живой снимок или загружает список через load и кэширует его
func (c *JobListCache) GetAllJobs(ctx context.Context, load func() ([]models.JobListing, error)) ([]models.JobListing, error) {
	var jobs []models.JobListing
	hit, err := c.store.GetJSON(ctx, AllJobsKey, &jobs)
	logger.CacheLog("get", AllJobsKey, hit, err)
	if err == nil && hit {
		return jobs, nil
	}

	jobs, err = load()
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.JobListing{}
	}

	setErr := c.store.SetJSON(ctx, AllJobsKey, jobs, c.ttl)
	logger.CacheLog("set", AllJobsKey, false, setErr)

	return jobs, nil
}

// Invalidate безусловно удаляет снимок
func (c *JobListCache) Invalidate(ctx context.Context) {
	err := c.store.Delete(ctx, AllJobsKey)
	logger.CacheLog("delete", AllJobsKey, false, err)
}

// TTL - срок жизни снимка
func (c *JobListCache) TTL() time.Duration {
	return c.ttl
}

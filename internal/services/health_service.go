package services

import (
	"context"
	"time"

	"jobportal/internal/cache"

	"gorm.io/gorm"
)

// HealthStatus - состояние зависимостей
type HealthStatus struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Duration string            `json:"duration"`
}

// Healthy - все зависимости отвечают
func (h *HealthStatus) Healthy() bool {
	return h.Status == "ok"
}

type HealthService interface {
	Check(ctx context.Context, db *gorm.DB) *HealthStatus
}

type HealthServiceImpl struct {
	cache cache.Store
}

func NewHealthService(store cache.Store) HealthService {
	return &HealthServiceImpl{cache: store}
}

func (s *HealthServiceImpl) Check(ctx context.Context, db *gorm.DB) *HealthStatus {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := &HealthStatus{Status: "ok", Checks: map[string]string{}}

	if sqlDB, err := db.DB(); err != nil {
		status.fail("database", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		status.fail("database", err)
	} else {
		status.Checks["database"] = "ok"
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			// кэш не обязателен: запросы продолжают работать через БД
			status.Checks["cache"] = "degraded: " + err.Error()
		} else {
			status.Checks["cache"] = "ok"
		}
	}

	status.Duration = time.Since(start).String()
	return status
}

func (h *HealthStatus) fail(name string, err error) {
	h.Status = "unavailable"
	h.Checks[name] = "error: " + err.Error()
}

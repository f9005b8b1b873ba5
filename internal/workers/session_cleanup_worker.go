package workers

import (
	"context"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/repositories"

	"gorm.io/gorm"
)

// SessionCleanupWorker периодически удаляет истекшие сессии и токены сброса пароля
type SessionCleanupWorker struct {
	db          *gorm.DB
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
	interval    time.Duration
	now         func() time.Time
}

func NewSessionCleanupWorker(db *gorm.DB, sessionRepo repositories.SessionRepository, userRepo repositories.UserRepository, interval time.Duration) *SessionCleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionCleanupWorker{
		db:          db,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		interval:    interval,
		now:         time.Now,
	}
}

// Start запускает очистку в фоне
func (w *SessionCleanupWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *SessionCleanupWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход очистки
func (w *SessionCleanupWorker) RunOnce(ctx context.Context) {
	db := w.db.WithContext(ctx)
	now := w.now()

	if n, err := w.sessionRepo.CleanExpired(db, now); err != nil {
		logger.Error("Error cleaning expired sessions", "error", err)
	} else if n > 0 {
		logger.Info("Removed expired sessions", "count", n)
	}

	if n, err := w.userRepo.ClearExpiredResetTokens(db, now); err != nil {
		logger.Error("Error clearing expired reset tokens", "error", err)
	} else if n > 0 {
		logger.Info("Cleared expired password reset tokens", "count", n)
	}
}

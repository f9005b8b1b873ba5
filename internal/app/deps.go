package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobportal/internal/auth"
	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/email"
	"jobportal/internal/handlers"
	"jobportal/internal/imageprocessor"
	"jobportal/internal/logger"
	"jobportal/internal/middleware"
	"jobportal/internal/notifications"
	"jobportal/internal/queue"
	"jobportal/internal/repositories"
	"jobportal/internal/services"
	"jobportal/internal/storage"
	"jobportal/internal/validator"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Repositories - stateless репозитории, общие для сервисов и воркеров
type Repositories struct {
	Users    repositories.UserRepository
	Profiles repositories.ProfileRepository
	Jobs     repositories.JobRepository
	Sessions repositories.SessionRepository
}

// Dependencies - собранный граф зависимостей приложения
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB

	Redis      *redis.Client
	CacheStore cache.Store
	JobCache   *cache.JobListCache

	Queue         QueueTransport // nil в inline-режиме
	EmailProvider email.Provider
	Mailer        *notifications.Mailer
	Notifier      notifications.Sender

	Storage   storage.Storage
	Validator *validator.Validator

	Repos    Repositories
	Services *services.ServiceContainer
	Guards   *middleware.RouteGuards
	Handlers *handlers.AppHandlers

	closers []func() error
}

// QueueTransport - очередь, в которую пишет web и из которой читает воркер
type QueueTransport interface {
	queue.Publisher
	queue.Consumer
}

// Option переопределяет часть зависимостей (тесты, воркер)
type Option func(*buildOptions)

type buildOptions struct {
	emailProvider email.Provider
	cacheStore    cache.Store
	storage       storage.Storage
	queue         QueueTransport
	forceQueue    bool
}

// WithEmailProvider подменяет провайдера почты
func WithEmailProvider(p email.Provider) Option {
	return func(o *buildOptions) { o.emailProvider = p }
}

// WithCacheStore подменяет хранилище кэша
func WithCacheStore(s cache.Store) Option {
	return func(o *buildOptions) { o.cacheStore = s }
}

// WithStorage подменяет файловое хранилище
func WithStorage(s storage.Storage) Option {
	return func(o *buildOptions) { o.storage = s }
}

// WithQueue подменяет транспорт очереди
func WithQueue(q QueueTransport) Option {
	return func(o *buildOptions) { o.queue = q }
}

// withConsumer - очередь нужна независимо от режима уведомлений (процесс воркера)
func withConsumer() Option {
	return func(o *buildOptions) { o.forceQueue = true }
}

// BuildDependencies собирает все компоненты: cache -> queue -> email -> services -> handlers
func BuildDependencies(ctx context.Context, cfg *config.Config, db *gorm.DB, opts ...Option) (*Dependencies, error) {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}

	d := &Dependencies{Config: cfg, DB: db}
	ok := false
	defer func() {
		if !ok {
			_ = d.Close()
		}
	}()

	mode, err := notifications.ParseMode(cfg.Notifications.Mode)
	if err != nil {
		return nil, err
	}

	// --- Redis (кэш и/или очередь) ---
	needRedis := (o.cacheStore == nil && cfg.Cache.Backend == "redis") ||
		(o.queue == nil && (mode == notifications.ModeQueued || o.forceQueue) && cfg.Queue.Transport == "redis")
	if needRedis {
		client, err := cache.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		d.Redis = client
		d.closers = append(d.closers, client.Close)
	}

	// --- Кэш списка вакансий ---
	switch {
	case o.cacheStore != nil:
		d.CacheStore = o.cacheStore
	case cfg.Cache.Backend == "redis":
		d.CacheStore = cache.NewRedisStore(d.Redis, "jobportal:")
	default:
		d.CacheStore = cache.NewMemoryStore()
	}
	d.JobCache = cache.NewJobListCache(d.CacheStore, time.Duration(cfg.Cache.JobsTTL)*time.Second)
	logger.Info("Cache initialized", "backend", cfg.Cache.Backend, "ttl", d.JobCache.TTL())

	// --- Очередь ---
	if o.queue != nil {
		d.Queue = o.queue
	} else if mode == notifications.ModeQueued || o.forceQueue {
		q, err := newQueue(cfg, d.Redis)
		if err != nil {
			return nil, err
		}
		d.Queue = q
		d.closers = append(d.closers, q.Close)
	}

	// --- Почта и уведомления ---
	if o.emailProvider != nil {
		d.EmailProvider = o.emailProvider
	} else {
		d.EmailProvider = newEmailProvider(cfg)
	}
	d.closers = append(d.closers, d.EmailProvider.Close)

	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	resetTTL := time.Duration(cfg.Session.ResetTokenTTL) * time.Minute
	d.Mailer = notifications.NewMailer(d.EmailProvider, templates, cfg.Server.PublicURL, resetTTL)

	if mode == notifications.ModeQueued {
		d.Notifier = notifications.NewQueuedSender(d.Queue)
	} else {
		d.Notifier = notifications.NewInlineSender(d.Mailer)
	}
	logger.Info("Notifications initialized", "mode", mode, "queue", cfg.Queue.Transport)

	// --- Хранилище файлов ---
	if o.storage != nil {
		d.Storage = o.storage
	} else {
		st, err := storage.NewStorage(ctx, storage.ConfigFromApp(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		d.Storage = st
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	d.Validator = validator.New()

	// 1. Репозитории и сервисы
	d.Repos = Repositories{
		Users:    repositories.NewUserRepository(),
		Profiles: repositories.NewProfileRepository(),
		Jobs:     repositories.NewJobRepository(),
		Sessions: repositories.NewSessionRepository(),
	}
	d.Services = initializeServices(cfg, d)

	// 2. Middleware-guards и хэндлеры
	authMW := middleware.NewAuth(d.Services.AuthService, cfg.Session.CookieName)
	d.Guards = middleware.NewRouteGuards(authMW, cfg)
	d.Handlers = initializeHandlers(cfg, d)

	ok = true
	return d, nil
}

func initializeServices(cfg *config.Config, d *Dependencies) *services.ServiceContainer {
	tokens := auth.NewTokenManager(cfg.JWT.Secret)
	images := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes)

	authService := services.NewAuthService(
		d.Repos.Users,
		d.Repos.Profiles,
		d.Repos.Sessions,
		tokens,
		d.Notifier,
		services.AuthSettings{
			RememberTTL: time.Duration(cfg.Session.RememberDays) * 24 * time.Hour,
			DefaultTTL:  time.Duration(cfg.Session.DefaultHours) * time.Hour,
			ResetTTL:    time.Duration(cfg.Session.ResetTokenTTL) * time.Minute,
			PublicURL:   cfg.Server.PublicURL,
		},
	)
	profileService := services.NewProfileService(d.Repos.Users, d.Repos.Profiles, d.Storage, images, cfg.Upload.AvatarSize)
	jobService := services.NewJobService(d.Repos.Jobs, d.Repos.Profiles, d.JobCache, d.Validator)
	healthService := services.NewHealthService(d.CacheStore)

	return &services.ServiceContainer{
		AuthService:    authService,
		ProfileService: profileService,
		JobService:     jobService,
		HealthService:  healthService,
	}
}

func initializeHandlers(cfg *config.Config, d *Dependencies) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(d.Validator)
	svc := d.Services

	return &handlers.AppHandlers{
		HomeHandler: handlers.NewHomeHandler(baseHandler, svc.JobService, d.Guards),
		AuthHandler: handlers.NewAuthHandler(baseHandler, svc.AuthService, d.Guards, handlers.CookieSettings{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}),
		ProfileHandler: handlers.NewProfileHandler(baseHandler, svc.ProfileService, d.Guards, cfg.Upload.MaxSize),
		JobHandler:     handlers.NewJobHandler(baseHandler, svc.JobService, d.Guards),
		HealthHandler:  handlers.NewHealthHandler(baseHandler, svc.HealthService),
	}
}

func newQueue(cfg *config.Config, rdb *redis.Client) (QueueTransport, error) {
	switch cfg.Queue.Transport {
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis queue requires redis url")
		}
		return queue.NewRedisQueue(rdb, cfg.Queue.Name), nil
	case "amqp":
		return queue.NewAMQPQueue(cfg.Queue.AMQPURL, cfg.Queue.Name)
	default:
		return nil, fmt.Errorf("unsupported queue transport: %s", cfg.Queue.Transport)
	}
}

// newEmailProvider: без SMTP-хоста письма только пишутся в лог
func newEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host is not configured, emails are written to the log")
		return email.NewLogProvider()
	}
	provider := email.NewSMTPProvider(email.ConfigFromApp(cfg))
	if err := provider.Validate(); err != nil {
		logger.Warn("SMTP configuration is incomplete", "error", err)
	}
	return provider
}

// Close освобождает соединения в обратном порядке создания
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

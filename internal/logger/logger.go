package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init инициализирует глобальный логгер
// env: "development", "production" или "test"
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

// InitWithWriter - то же, что Init, но с произвольным writer (тесты)
func InitWithWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	switch env {
	case "development":
		// Development: читаемый текстовый формат
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		// В тестах шумят только предупреждения и ошибки
		opts.Level = slog.LevelWarn
		opts.AddSource = false
		handler = slog.NewTextHandler(w, opts)
	default:
		// Production: JSON формат для парсинга
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	once.Do(func() {
		if log == nil {
			Init("development")
		}
	})
	return log
}

// ============================================
// Convenience функции для быстрого логирования
// ============================================

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// ============================================
// Специализированные логгеры
// ============================================

// CacheLog логирует обращение к кэшу.
// Ошибки кэша не фатальны: запрос продолжает работу через БД.
func CacheLog(operation, key string, hit bool, err error) {
	fields := []any{
		"operation", operation,
		"key", key,
		"hit", hit,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Warn("cache operation failed", fields...)
	} else {
		GetLogger().Debug("cache operation", fields...)
	}
}

// TaskLog логирует обработку фоновой задачи
func TaskLog(worker, task string, attempt int, err error) {
	fields := []any{
		"worker", worker,
		"task", task,
		"attempt", attempt,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("task failed", fields...)
	} else {
		GetLogger().Info("task completed", fields...)
	}
}

package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrJobNotFound     = errors.New("job listing not found")
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateUsername / ErrDuplicateEmail - нарушение уникального индекса users
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	// ErrDuplicateKey - нарушение уникальности, поле не удалось определить
	ErrDuplicateKey = errors.New("duplicate key")
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueFailed   = "UNIQUE constraint failed"
	sqliteUniqueFailedV2 = "constraint failed: UNIQUE"
)

// uniqueViolation возвращает текст, по которому можно понять затронутое поле,
// и true, если err - нарушение уникального ограничения.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName + " " + pgErr.Detail, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return myErr.Message, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	msg := err.Error()
	if strings.Contains(msg, sqliteUniqueFailed) || strings.Contains(msg, sqliteUniqueFailedV2) {
		return msg, true
	}
	return "", false
}

// MapUserWriteError переводит нарушение уникальности users в доменные ошибки репозитория
func MapUserWriteError(err error) error {
	hint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	hint = strings.ToLower(hint)
	switch {
	case strings.Contains(hint, "username"):
		return ErrDuplicateUsername
	case strings.Contains(hint, "email"):
		return ErrDuplicateEmail
	default:
		return ErrDuplicateKey
	}
}

// IsDuplicate - любое нарушение уникальности, уже переведенное репозиторием
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateKey)
}

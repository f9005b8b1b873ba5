package services

import (
	"errors"
	"net/http"

	"jobportal/internal/repositories"
	"jobportal/internal/validator"
	"jobportal/pkg/apperrors"

	"gorm.io/gorm"
)

// validationFailed переводит ошибку валидатора в AppError 400 со списком полей
func validationFailed(err error) error {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.ValidationError(vErr.Errors)
	}
	return apperrors.InternalError(err)
}

// fieldError - ошибка валидации одного поля
func fieldError(field string, reasons ...string) error {
	details := make([]validator.FieldError, 0, len(reasons))
	for _, r := range reasons {
		details = append(details, validator.FieldError{Field: field, Reason: r})
	}
	return apperrors.ValidationError(details)
}

func handleAccountError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateUsername):
		return apperrors.ErrUsernameTaken.WithError(err)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return apperrors.ErrEmailTaken.WithError(err)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return apperrors.ErrAlreadyExists(err)
	case errors.Is(err, repositories.ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound(err)
	}
	return dependencyError(err)
}

func handleProfileError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrProfileNotFound) ||
		errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrProfileNotFound.WithError(err)
	}
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		return apperrors.ErrEmailTaken.WithError(err)
	}
	return dependencyError(err)
}

func handleJobError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrJobNotFound.WithError(err)
	}
	return dependencyError(err)
}

// dependencyError - необработанная ошибка хранилища: уже AppError пропускается как есть
func dependencyError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, "database", "Database operation failed", http.StatusInternalServerError)
}

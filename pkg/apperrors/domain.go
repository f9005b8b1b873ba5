package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок домена
(аккаунты, профили, вакансии, уведомления).
*/

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrRateLimited - превышен лимит запросов (429)
func ErrRateLimited(scope string) *AppError {
	return New(CodeRateLimited, "throttle", "Request was throttled", http.StatusTooManyRequests).
		WithDetails(map[string]string{"scope": scope})
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Accounts ---

// ErrUsernameTaken - username уже занят
var ErrUsernameTaken = New(
	CodeAlreadyExists,
	"account",
	"Username already exists",
	http.StatusConflict,
)

// ErrEmailTaken - email уже используется другим аккаунтом
var ErrEmailTaken = New(
	CodeAlreadyExists,
	"account",
	"Email already exists",
	http.StatusConflict,
)

// ErrInvalidCredentials - неверный username или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (сессия, сброс пароля)
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrSessionExpired - сессия истекла или была завершена
var ErrSessionExpired = New(
	CodeTokenExpired,
	"auth",
	"Session has expired, please log in again",
	http.StatusUnauthorized,
)

// ErrNotLoggedIn - операция требует входа
var ErrNotLoggedIn = New(
	CodeUnauthorized,
	"auth",
	"You must be logged in",
	http.StatusUnauthorized,
)

// ErrAdminRegistration - роль ADMIN нельзя выбрать при регистрации
var ErrAdminRegistration = New(
	CodeForbidden,
	"account",
	"Admin accounts cannot be self-registered",
	http.StatusForbidden,
)

// --- Profile ---

// ErrProfileNotFound - профиль пользователя не найден
var ErrProfileNotFound = New(
	CodeNotFound,
	"profile",
	"User profile not found",
	http.StatusNotFound,
)

// ErrFileTooLarge - файл превышает максимальный размер
var ErrFileTooLarge = New(
	CodeValidationFailed,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME-тип файла не разрешен
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Jobs ---

// ErrJobNotFound - вакансия не найдена
var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job listing not found",
	http.StatusNotFound,
)

// ErrJobCreateDenied - роль не позволяет публиковать вакансии
var ErrJobCreateDenied = New(
	CodeForbidden,
	"job",
	"Access denied: RECRUITER role required",
	http.StatusForbidden,
)

// ErrJobAccessDenied - нет прав изменять или удалять эту вакансию
var ErrJobAccessDenied = New(
	CodeForbidden,
	"job",
	"You do not have permission to modify this job listing",
	http.StatusForbidden,
)

// --- Notifications ---

// ErrWelcomeEmailFailed - аккаунт создан, но письмо не отправлено (inline-режим)
var ErrWelcomeEmailFailed = New(
	CodeExternalServiceError,
	"notification",
	"Registration succeeded but the welcome email could not be sent",
	http.StatusBadGateway,
)

package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"jobportal/internal/auth"
	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/internal/notifications"
	"jobportal/internal/repositories"
	"jobportal/internal/services/dto"
	"jobportal/internal/validator"
	"jobportal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthSettings - сроки жизни сессий и токенов сброса
type AuthSettings struct {
	RememberTTL time.Duration // сессия с "remember me"
	DefaultTTL  time.Duration // сессия до закрытия браузера
	ResetTTL    time.Duration // токен сброса пароля
	PublicURL   string        // база для ссылки сброса пароля
}

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, input *dto.RegisterInput) (*models.User, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.Session, error)
	Logout(ctx context.Context, db *gorm.DB, sessionID string) error
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*auth.Principal, error)
	RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error
	ConfirmPasswordReset(ctx context.Context, db *gorm.DB, req *dto.PasswordResetConfirm) error
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	sessionRepo repositories.SessionRepository
	tokens      *auth.TokenManager
	notifier    notifications.Sender
	settings    AuthSettings
	now         func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	sessionRepo repositories.SessionRepository,
	tokens *auth.TokenManager,
	notifier notifications.Sender,
	settings AuthSettings,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		notifier:    notifier,
		settings:    settings,
		now:         time.Now,
	}
}

// Register создает аккаунт и профиль одной транзакцией, затем отправляет
// приветственное письмо. Уникальность username/email окончательно проверяется
// индексом при коммите: проигравший в гонке получает ErrUsernameTaken.
// Если письмо в inline-режиме не ушло, аккаунт остается созданным,
// а вызывающий получает ErrWelcomeEmailFailed вместе с пользователем.
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, input *dto.RegisterInput) (*models.User, error) {
	if input.Role == models.RoleAdmin {
		return nil, apperrors.ErrAdminRegistration
	}
	if problems := auth.ValidatePassword(input.Password, input.Username); len(problems) > 0 {
		return nil, fieldError("password", problems...)
	}

	if exists, err := s.userRepo.ExistsByUsername(db, input.Username); err != nil {
		return nil, dependencyError(err)
	} else if exists {
		return nil, apperrors.ErrUsernameTaken
	}
	if input.Email != nil {
		if exists, err := s.userRepo.ExistsByEmail(db, *input.Email, 0); err != nil {
			return nil, dependencyError(err)
		} else if exists {
			return nil, apperrors.ErrEmailTaken
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, dependencyError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleAccountError(err)
	}

	profile := &models.Profile{
		UserID:      user.ID,
		Role:        input.Role,
		PhoneNumber: input.PhoneNumber,
		Location:    input.Location,
		Skills:      input.Skills,
		Experience:  input.Experience,
		Education:   input.Education,
	}
	if err := s.profileRepo.Create(tx, profile); err != nil {
		return nil, dependencyError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, handleAccountError(mapCommitError(err))
	}
	user.Profile = profile

	logger.CtxInfo(ctx, "✅ user registered", "user_id", user.ID, "username", user.Username, "role", profile.Role)

	if user.Email != nil {
		if err := s.notifier.NotifyWelcome(ctx, user.Username, *user.Email); err != nil {
			return user, apperrors.ErrWelcomeEmailFailed.WithError(err)
		}
	}
	return user, nil
}

// Login проверяет учетные данные и открывает серверную сессию
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.Session, error) {
	user, err := s.userRepo.FindByUsername(db, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, dependencyError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	profile, _, err := s.profileRepo.GetOrCreate(db, user.ID)
	if err != nil {
		return nil, dependencyError(err)
	}

	ttl := s.settings.DefaultTTL
	if req.RememberMe {
		ttl = s.settings.RememberTTL
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Remember:  req.RememberMe,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.sessionRepo.Create(db, session); err != nil {
		return nil, dependencyError(err)
	}

	token, exp, err := s.tokens.Generate(user.ID, profile.Role, session.ID, ttl)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID, "remember", req.RememberMe)

	return &dto.Session{
		Token:     token,
		ExpiresAt: exp,
		Remember:  req.RememberMe,
		User:      user,
		Role:      profile.Role,
	}, nil
}

// Logout завершает сессию; уже удаленная сессия не считается ошибкой
func (s *AuthServiceImpl) Logout(ctx context.Context, db *gorm.DB, sessionID string) error {
	if err := s.sessionRepo.DeleteByID(db, sessionID); err != nil && !errors.Is(err, repositories.ErrSessionNotFound) {
		return dependencyError(err)
	}
	logger.CtxInfo(ctx, "user logged out", "session_id", sessionID)
	return nil
}

// Authenticate проверяет токен и наличие живой сессии в БД.
// Роль берется из профиля, а не из токена: смена роли действует сразу.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, db *gorm.DB, token string) (*auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	session, err := s.sessionRepo.FindByID(db, claims.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, dependencyError(err)
	}
	if session.UserID != claims.UserID {
		return nil, apperrors.ErrInvalidToken
	}
	if session.IsExpired(s.now()) {
		// сессию мог уже удалить воркер очистки
		if err := s.sessionRepo.DeleteByID(db, session.ID); err != nil && !errors.Is(err, repositories.ErrSessionNotFound) {
			logger.CtxWithError(ctx, "failed to delete expired session", err, "session_id", session.ID, "user_id", session.UserID)
		}
		return nil, apperrors.ErrSessionExpired
	}

	profile, _, err := s.profileRepo.GetOrCreate(db, session.UserID)
	if err != nil {
		return nil, dependencyError(err)
	}

	return &auth.Principal{
		UserID:    session.UserID,
		Role:      profile.Role,
		SessionID: session.ID,
	}, nil
}

// RequestPasswordReset выпускает токен сброса и отправляет ссылку.
// Ответ не зависит от того, существует ли email.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error {
	normalized := validator.NormalizeEmail(email)
	if normalized == nil {
		return nil
	}

	user, err := s.userRepo.FindByEmail(db, *normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxDebug(ctx, "password reset requested for unknown email")
			return nil
		}
		return dependencyError(err)
	}

	token, err := generateResetToken()
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.SetResetToken(db, user.ID, hashToken(token), s.now().Add(s.settings.ResetTTL)); err != nil {
		return dependencyError(err)
	}

	link := s.resetLink(token)
	if err := s.notifier.NotifyPasswordReset(ctx, user.Username, *user.Email, link); err != nil {
		logger.CtxWithError(ctx, "password reset email not delivered", err, "user_id", user.ID)
	}
	return nil
}

// ConfirmPasswordReset меняет пароль по токену и завершает все сессии пользователя
func (s *AuthServiceImpl) ConfirmPasswordReset(ctx context.Context, db *gorm.DB, req *dto.PasswordResetConfirm) error {
	user, err := s.userRepo.FindByResetTokenHash(db, hashToken(req.Token))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return dependencyError(err)
	}
	if user.ResetTokenExp == nil || !s.now().Before(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	if problems := auth.ValidatePassword(req.NewPassword, user.Username); len(problems) > 0 {
		return fieldError("new_password", problems...)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return dependencyError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.UpdatePassword(tx, user.ID, hash); err != nil {
		return handleAccountError(err)
	}
	if err := s.sessionRepo.DeleteByUserID(tx, user.ID); err != nil {
		return dependencyError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return dependencyError(err)
	}

	logger.CtxInfo(ctx, "password reset completed", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) resetLink(token string) string {
	base := strings.TrimSuffix(s.settings.PublicURL, "/")
	return base + "/password-reset/confirm?token=" + url.QueryEscape(token)
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken - в БД хранится только sha256 токена
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// mapCommitError: часть драйверов сообщает о нарушении уникальности только при коммите
func mapCommitError(err error) error {
	return repositories.MapUserWriteError(err)
}

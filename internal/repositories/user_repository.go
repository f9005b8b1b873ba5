package repositories

import (
	"errors"
	"time"

	"jobportal/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)

	// ExistsByUsername / ExistsByEmail - предварительная проверка уникальности.
	// Окончательное решение принимает уникальный индекс при коммите.
	ExistsByUsername(db *gorm.DB, username string) (bool, error)
	ExistsByEmail(db *gorm.DB, email string, excludeID uint) (bool, error)

	UpdateEmail(db *gorm.DB, userID uint, email *string) error
	UpdatePassword(db *gorm.DB, userID uint, passwordHash string) error

	SetResetToken(db *gorm.DB, userID uint, tokenHash string, expiresAt time.Time) error
	FindByResetTokenHash(db *gorm.DB, tokenHash string) (*models.User, error)
	ClearExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	return MapUserWriteError(db.Create(user).Error)
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(db *gorm.DB, email string, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdateEmail(db *gorm.DB, userID uint, email *string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"email":      email,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return MapUserWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword меняет хеш пароля и гасит токен сброса
func (r *userRepository) UpdatePassword(db *gorm.DB, userID uint, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash":    passwordHash,
		"reset_token_hash": nil,
		"reset_token_exp":  nil,
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetResetToken(db *gorm.DB, userID uint, tokenHash string, expiresAt time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reset_token_hash": tokenHash,
		"reset_token_exp":  expiresAt,
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) FindByResetTokenHash(db *gorm.DB, tokenHash string) (*models.User, error) {
	var user models.User
	if err := db.Where("reset_token_hash = ?", tokenHash).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ClearExpiredResetTokens удаляет просроченные токены сброса (воркер очистки)
func (r *userRepository) ClearExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.User{}).
		Where("reset_token_exp IS NOT NULL AND reset_token_exp < ?", now).
		Updates(map[string]interface{}{
			"reset_token_hash": nil,
			"reset_token_exp":  nil,
		})
	return result.RowsAffected, result.Error
}

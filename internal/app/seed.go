package app

import (
	"errors"
	"fmt"

	"jobportal/internal/auth"
	"jobportal/internal/config"
	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/internal/validator"

	"gorm.io/gorm"
)

// seedFirstAdmin создает первого администратора из конфигурации.
// ADMIN нельзя выбрать при регистрации, поэтому это единственный путь его создать.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	username := cfg.Admin.Username
	password := cfg.Admin.Password

	if username == "" || password == "" {
		logger.Warn("FIRST_ADMIN_USERNAME or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var existing models.User
	result := tx.Where("username = ?", username).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "username", username)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "username", username)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     username,
		Email:        validator.NormalizeEmail(cfg.Admin.Email),
		PasswordHash: hash,
	}
	if err := tx.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	profile := &models.Profile{UserID: admin.ID, Role: models.RoleAdmin}
	if err := tx.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	logger.Info("✅ Successfully created first admin user AND profile", "username", username)
	return nil
}

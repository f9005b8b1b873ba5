package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"jobportal/internal/imageprocessor"
	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
	"jobportal/internal/services/dto"
	"jobportal/internal/storage"
	"jobportal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileService - просмотр и редактирование собственного профиля
type ProfileService interface {
	// GetProfile возвращает профиль, лениво создавая его с ролью по умолчанию
	GetProfile(ctx context.Context, db *gorm.DB, userID uint) (*dto.ProfileResponse, error)

	// UpdateProfile сохраняет форму редактирования (и изображение, если передано)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID uint, input *dto.ProfileInput, image *dto.ImageUpload) (*dto.ProfileResponse, error)

	// APIGetProfile - как GetProfile, но без ленивого создания: 404 при отсутствии
	APIGetProfile(ctx context.Context, db *gorm.DB, userID uint) (*dto.ProfileResponse, error)

	// APIUpdateProfile обновляет существующий профиль; 404 при отсутствии
	APIUpdateProfile(ctx context.Context, db *gorm.DB, userID uint, input *dto.ProfileInput) (*dto.ProfileResponse, error)
}

type ProfileServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	storage     storage.Storage
	images      *imageprocessor.Processor
	avatarSize  int
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
	avatarSize int,
) ProfileService {
	return &ProfileServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		storage:     store,
		images:      images,
		avatarSize:  avatarSize,
	}
}

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, db *gorm.DB, userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	profile, created, err := s.profileRepo.GetOrCreate(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	if created {
		logger.CtxInfo(ctx, "profile created lazily", "user_id", userID)
	}
	return s.buildResponse(ctx, user, profile), nil
}

func (s *ProfileServiceImpl) APIGetProfile(ctx context.Context, db *gorm.DB, userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	return s.buildResponse(ctx, user, profile), nil
}

func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID uint, input *dto.ProfileInput, image *dto.ImageUpload) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	profile, _, err := s.profileRepo.GetOrCreate(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	return s.apply(ctx, db, user, profile, input, image)
}

func (s *ProfileServiceImpl) APIUpdateProfile(ctx context.Context, db *gorm.DB, userID uint, input *dto.ProfileInput) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	return s.apply(ctx, db, user, profile, input, nil)
}

// apply записывает изменения. Повторная отправка тех же данных
// оставляет профиль в том же состоянии.
func (s *ProfileServiceImpl) apply(
	ctx context.Context,
	db *gorm.DB,
	user *models.User,
	profile *models.Profile,
	input *dto.ProfileInput,
	image *dto.ImageUpload,
) (*dto.ProfileResponse, error) {
	emailChanged := !equalPtr(user.Email, input.Email)
	if emailChanged && input.Email != nil {
		exists, err := s.userRepo.ExistsByEmail(db, *input.Email, user.ID)
		if err != nil {
			return nil, dependencyError(err)
		}
		if exists {
			return nil, apperrors.ErrEmailTaken
		}
	}

	oldImage := profile.ProfileImage
	newImage := profile.ProfileImage
	var uploaded *string

	switch {
	case image != nil && len(image.Data) > 0:
		key, err := s.storeImage(ctx, user.ID, image)
		if err != nil {
			return nil, err
		}
		newImage, uploaded = &key, &key
	case input.RemoveImage:
		newImage = nil
	}

	profile.PhoneNumber = input.PhoneNumber
	profile.Location = input.Location
	profile.Skills = input.Skills
	profile.Experience = input.Experience
	profile.Education = input.Education
	profile.ProfileImage = newImage

	tx := db.Begin()
	if tx.Error != nil {
		s.discardImage(ctx, uploaded)
		return nil, dependencyError(tx.Error)
	}
	defer tx.Rollback()

	if emailChanged {
		if err := s.userRepo.UpdateEmail(tx, user.ID, input.Email); err != nil {
			s.discardImage(ctx, uploaded)
			return nil, handleProfileError(err)
		}
		user.Email = input.Email
	}
	if err := s.profileRepo.Update(tx, profile); err != nil {
		s.discardImage(ctx, uploaded)
		return nil, handleProfileError(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.discardImage(ctx, uploaded)
		return nil, handleProfileError(repositories.MapUserWriteError(err))
	}

	if oldImage != nil && !equalPtr(oldImage, newImage) {
		s.discardImage(ctx, oldImage)
	}

	updated, err := s.profileRepo.FindByUserID(db, user.ID)
	if err != nil {
		return nil, handleProfileError(err)
	}

	logger.CtxInfo(ctx, "profile updated", "user_id", user.ID)
	return s.buildResponse(ctx, user, updated), nil
}

func (s *ProfileServiceImpl) storeImage(ctx context.Context, userID uint, image *dto.ImageUpload) (string, error) {
	if s.storage == nil || s.images == nil {
		return "", apperrors.ErrInvalidOperation("upload", "Image uploads are not configured")
	}

	res, err := s.images.ProcessAvatar(image.Data, s.avatarSize)
	if err != nil {
		if errors.Is(err, imageprocessor.ErrTooLarge) {
			return "", apperrors.ErrFileTooLarge
		}
		// неразрешенный тип или поврежденное изображение
		return "", apperrors.ErrInvalidFileType.WithError(err)
	}

	key := fmt.Sprintf("profile_images/%d/%s%s", userID, uuid.NewString(), res.Extension)
	if err := s.storage.Save(ctx, key, bytes.NewReader(res.Data), res.ContentType); err != nil {
		return "", apperrors.DependencyError(err, "storage", "Failed to store profile image")
	}
	return key, nil
}

// discardImage удаляет файл; ошибка только логируется
func (s *ProfileServiceImpl) discardImage(ctx context.Context, key *string) {
	if key == nil || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, *key); err != nil {
		logger.CtxWithError(ctx, "failed to delete profile image", err, "key", *key)
	}
}

func (s *ProfileServiceImpl) buildResponse(ctx context.Context, user *models.User, profile *models.Profile) *dto.ProfileResponse {
	var imageURL *string
	if profile.ProfileImage != nil && s.storage != nil {
		if u, err := s.storage.GetURL(ctx, *profile.ProfileImage); err == nil {
			imageURL = &u
		}
	}
	return dto.NewProfileResponse(user, profile, imageURL)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

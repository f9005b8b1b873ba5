package repositories

import (
	"errors"

	"jobportal/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByUserID(db *gorm.DB, userID uint) (*models.Profile, error)

	// GetOrCreate возвращает профиль пользователя, создавая его с ролью
	// по умолчанию, если записи нет. created == true, если профиль создан сейчас.
	GetOrCreate(db *gorm.DB, userID uint) (profile *models.Profile, created bool, err error)

	// Update сохраняет редактируемые поля. Роль и владелец не меняются.
	Update(db *gorm.DB, profile *models.Profile) error
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(db *gorm.DB, profile *models.Profile) error {
	if profile.Role == "" {
		profile.Role = models.DefaultRole
	}
	return db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(db *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetOrCreate(db *gorm.DB, userID uint) (*models.Profile, bool, error) {
	profile, err := r.FindByUserID(db, userID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	profile = &models.Profile{UserID: userID, Role: models.DefaultRole}
	if err := db.Create(profile).Error; err != nil {
		// Параллельный запрос успел создать профиль - берем его
		if _, dup := uniqueViolation(err); dup {
			existing, findErr := r.FindByUserID(db, userID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return profile, true, nil
}

// Update вызывается для уже загруженного профиля, поэтому RowsAffected не проверяется
func (r *profileRepository) Update(db *gorm.DB, profile *models.Profile) error {
	return db.Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"phone_number":  profile.PhoneNumber,
		"location":      profile.Location,
		"skills":        profile.Skills,
		"experience":    profile.Experience,
		"education":     profile.Education,
		"profile_image": profile.ProfileImage,
		"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
	}).Error
}

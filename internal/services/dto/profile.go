package dto

import (
	"strings"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/validator"
)

// ProfileForm - сырая форма редактирования профиля.
// Роль здесь отсутствует: она не редактируется владельцем.
type ProfileForm struct {
	Email       string     `json:"email" form:"email"`
	PhoneNumber string     `json:"phone_number" form:"phone_number"`
	Location    string     `json:"location" form:"location"`
	Skills      string     `json:"skills" form:"skills"`
	Experience  FlexString `json:"experience" form:"experience"`
	Education   string     `json:"education" form:"education"`
	RemoveImage bool       `json:"remove_image" form:"remove_image"`
}

// ProfileInput - нормализованные данные профиля
type ProfileInput struct {
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=10,max=15"`
	Location    *string `json:"location" validate:"omitempty,min=3,max=100"`
	Skills      *string `json:"skills"`
	Experience  *int    `json:"experience" validate:"omitempty,min=0"`
	Education   *string `json:"education"`
	RemoveImage bool    `json:"remove_image"`
}

func (f *ProfileForm) Normalize() (ProfileInput, []validator.FieldError) {
	var errs []validator.FieldError

	experience, fe := validator.ParseExperience("experience", f.Experience.String())
	if fe != nil {
		errs = append(errs, *fe)
	}

	return ProfileInput{
		Email:       validator.NormalizeEmail(f.Email),
		PhoneNumber: validator.NormalizeText(f.PhoneNumber),
		Location:    validator.NormalizeText(f.Location),
		Skills:      validator.NormalizeText(f.Skills),
		Experience:  experience,
		Education:   validator.NormalizeText(f.Education),
		RemoveImage: f.RemoveImage,
	}, errs
}

// ImageUpload - загруженное изображение профиля
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ProfileResponse - профиль вместе с данными аккаунта
type ProfileResponse struct {
	UserID          uint        `json:"user_id"`
	Username        string      `json:"username"`
	Email           *string     `json:"email"`
	Role            models.Role `json:"role"`
	RoleLabel       string      `json:"role_label"`
	PhoneNumber     *string     `json:"phone_number"`
	Location        *string     `json:"location"`
	Skills          *string     `json:"skills"`
	SkillsList      []string    `json:"skills_list"`
	Experience      *int        `json:"experience"`
	Education       *string     `json:"education"`
	ProfileImageURL *string     `json:"profile_image_url"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewProfileResponse собирает ответ; imageURL - уже разрешенный URL изображения
func NewProfileResponse(user *models.User, profile *models.Profile, imageURL *string) *ProfileResponse {
	return &ProfileResponse{
		UserID:          user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            profile.Role,
		RoleLabel:       profile.Role.Label(),
		PhoneNumber:     profile.PhoneNumber,
		Location:        profile.Location,
		Skills:          profile.Skills,
		SkillsList:      splitSkills(profile.Skills),
		Experience:      profile.Experience,
		Education:       profile.Education,
		ProfileImageURL: imageURL,
		UpdatedAt:       profile.UpdatedAt,
	}
}

func splitSkills(skills *string) []string {
	if skills == nil {
		return []string{}
	}
	out := []string{}
	for _, s := range strings.Split(*skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

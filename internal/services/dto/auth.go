package dto

import (
	"strings"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/validator"
)

// RegisterForm - сырая форма регистрации (JSON или form-urlencoded)
type RegisterForm struct {
	Username        string     `json:"username" form:"username"`
	Email           string     `json:"email" form:"email"`
	Password        string     `json:"password" form:"password"`
	ConfirmPassword string     `json:"confirm_password" form:"confirm_password"`
	Role            string     `json:"role" form:"role"`
	PhoneNumber     string     `json:"phone_number" form:"phone_number"`
	Location        string     `json:"location" form:"location"`
	Skills          string     `json:"skills" form:"skills"`
	Experience      FlexString `json:"experience" form:"experience"`
	Education       string     `json:"education" form:"education"`
	Terms           bool       `json:"terms" form:"terms"`
}

// RegisterInput - нормализованные данные регистрации
type RegisterInput struct {
	Username        string      `json:"username" validate:"required,min=3,max=30"`
	Email           *string     `json:"email" validate:"omitempty,email,max=254"`
	Password        string      `json:"password" validate:"required"`
	ConfirmPassword string      `json:"confirm_password" validate:"eqfield=Password"`
	Role            models.Role `json:"role" validate:"required,is-role"`
	PhoneNumber     *string     `json:"phone_number" validate:"omitempty,min=10,max=15"`
	Location        *string     `json:"location" validate:"omitempty,min=3,max=100"`
	Skills          *string     `json:"skills"`
	Experience      *int        `json:"experience" validate:"omitempty,min=0"`
	Education       *string     `json:"education"`
	Terms           bool        `json:"terms" validate:"accepted"`
}

// Normalize приводит форму к RegisterInput. Роль по умолчанию JOB_SEEKER,
// стаж по умолчанию 0.
func (f *RegisterForm) Normalize() (RegisterInput, []validator.FieldError) {
	var errs []validator.FieldError

	experience, fe := validator.ParseExperience("experience", f.Experience.String())
	if fe != nil {
		errs = append(errs, *fe)
	}
	if experience == nil && fe == nil {
		zero := 0
		experience = &zero
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(f.Role)))
	if role == "" {
		role = models.DefaultRole
	}

	return RegisterInput{
		Username:        strings.TrimSpace(f.Username),
		Email:           validator.NormalizeEmail(f.Email),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		Role:            role,
		PhoneNumber:     validator.NormalizeText(f.PhoneNumber),
		Location:        validator.NormalizeText(f.Location),
		Skills:          validator.NormalizeText(f.Skills),
		Experience:      experience,
		Education:       validator.NormalizeText(f.Education),
		Terms:           f.Terms,
	}, errs
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Username   string `json:"username" form:"username" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

// LoginResponse - результат входа: токен сессии и краткие данные пользователя
type LoginResponse struct {
	Message   string    `json:"message"`
	Redirect  string    `json:"redirect"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// UserDTO - базовая информация о пользователе
type UserDTO struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    *string     `json:"email"`
	Role     models.Role `json:"role"`
}

// PasswordResetRequest - запрос сброса пароля
type PasswordResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// PasswordResetConfirm - подтверждение сброса пароля
type PasswordResetConfirm struct {
	Token           string `json:"token" form:"token" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"eqfield=NewPassword"`
}

// Session - результат входа на уровне сервиса
type Session struct {
	Token     string
	ExpiresAt time.Time
	Remember  bool
	User      *models.User
	Role      models.Role
}

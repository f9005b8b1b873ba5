package models

import "time"

// User - учетная запись. Никогда не удаляется приложением.
type User struct {
	BaseModel
	Username       string  `gorm:"size:150;uniqueIndex;not null"`
	Email          *string `gorm:"size:254;uniqueIndex"` // NULL, если email не указан
	PasswordHash   string  `gorm:"not null"`
	ResetTokenHash *string `gorm:"size:64;index"`
	ResetTokenExp  *time.Time

	// Relations
	Profile  *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sessions []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// EmailValue возвращает email или пустую строку
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// Session - серверная сессия входа. Выход удаляет запись.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Remember  bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// IsExpired - истекла ли сессия на момент now
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

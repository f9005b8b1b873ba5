package models

// Profile - профиль пользователя, один к одному с User
type Profile struct {
	BaseModel
	UserID       uint    `gorm:"uniqueIndex;not null"`
	Role         Role    `gorm:"type:varchar(20);not null;default:'JOB_SEEKER'"`
	PhoneNumber  *string `gorm:"size:15;index"`
	Location     *string `gorm:"size:100;index"`
	Skills       *string `gorm:"type:text"`
	Experience   *int
	Education    *string `gorm:"type:text"`
	ProfileImage *string `gorm:"size:255"` // ключ в хранилище
}

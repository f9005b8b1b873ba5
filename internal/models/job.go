package models

import "time"

// JobListing - вакансия. Владелец (CreatedByID) и CreatedAt не меняются после создания.
type JobListing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:250;not null;index" json:"title"`
	Company     string    `gorm:"size:250;not null" json:"company"`
	Location    string    `gorm:"size:100;not null;index" json:"location"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
	CreatedByID uint      `gorm:"not null;index" json:"created_by"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
}

func (JobListing) TableName() string {
	return "job_listings"
}

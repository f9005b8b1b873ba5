package models

import (
	"time"
)

// BaseModel - автоинкрементный ID и таймстемпы.
// uint вместо uuid, чтобы схема одинаково работала на postgres, mysql и sqlite.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All возвращает все модели в порядке создания таблиц (AutoMigrate)
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&JobListing{},
		&Session{},
	}
}

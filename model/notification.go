package model

import "time"

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Title     string `gorm:"type:varchar(255)"`
	Body      string `gorm:"type:text"`
	ReadAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

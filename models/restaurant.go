package models

import "time"

type Restaurant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Address      string    `gorm:"type:text" json:"address"`
	CuisineType  string    `gorm:"type:varchar(100)" json:"cuisine_type"`
	OpeningHours string    `gorm:"type:varchar(100)" json:"opening_hours"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

package models

import "time"

type MenuItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	BasePrice    float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"base_price"`
	MenuPrice    float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"menu_price"`
	Available    bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

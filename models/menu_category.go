package models

import "time"

type MenuCategory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RestaurantID  uint      `gorm:"not null;index" json:"restaurant_id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	OrderPosition int       `gorm:"not null;default:0" json:"order_position"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

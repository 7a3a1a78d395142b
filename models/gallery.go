package models

import (
	"time"

	"gorm.io/gorm"
)

// GalleryImage represents an append-only progress photo attached to an order
type GalleryImage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	ImageKey  string         `gorm:"not null" json:"image_key"`
	Caption   string         `gorm:"not null" json:"caption"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the GalleryImage model
func (GalleryImage) TableName() string {
	return "gallery_images"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// DesignStatus enumerates customer review states for a design version
type DesignStatus string

const (
	DesignSubmitted        DesignStatus = "submitted"
	DesignApproved         DesignStatus = "approved"
	DesignChangesRequested DesignStatus = "changes_requested"
)

// DesignVersion represents a versioned batch of design images submitted for
// customer review. Versions are strictly increasing per order; feedback does
// not affect the order's stage.
type DesignVersion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	Version   int            `gorm:"not null" json:"version"`
	ImageKeys []string       `gorm:"serializer:json" json:"image_keys"`
	Notes     string         `gorm:"type:text" json:"notes"`
	Status    DesignStatus   `gorm:"not null;default:'submitted'" json:"status"`
	Feedback  *string        `json:"feedback,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the DesignVersion model
func (DesignVersion) TableName() string {
	return "design_versions"
}

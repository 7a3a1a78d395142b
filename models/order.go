package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a custom scale-model commission in the system
type Order struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Reference          string         `gorm:"uniqueIndex;not null" json:"reference"`
	ModelName          string         `gorm:"not null" json:"model_name"`
	Scale              string         `json:"scale"`                                       // e.g. "1:48", "1:72"
	BudgetRange        string         `json:"budget_range"`                                // e.g. "300-500"
	Description        string         `gorm:"type:text" json:"description"`
	ReferenceImageKeys []string       `gorm:"serializer:json" json:"reference_image_keys"` // S3 keys for customer-supplied reference images
	Stage              Stage          `gorm:"not null;default:'enquiry_received'" json:"stage"`
	TrackingNumber     *string        `json:"tracking_number,omitempty"`  // set when the order ships
	Carrier            *string        `json:"carrier,omitempty"`          // set when the order ships
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	CustomerID         uint           `gorm:"not null;index" json:"customer_id"`
	Customer           User           `gorm:"foreignKey:CustomerID" json:"customer"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

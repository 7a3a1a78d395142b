package models

import (
	"time"

	"gorm.io/gorm"
)

// QuoteStatus enumerates the lifecycle states of a quote
type QuoteStatus string

const (
	QuoteProposed QuoteStatus = "proposed"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
)

// Quote represents a priced, time-bound proposal attached to an order.
// Rejected quotes are kept as history; resubmissions get the next version.
type Quote struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	Order           Order          `gorm:"foreignKey:OrderID" json:"-"`
	Version         int            `gorm:"not null" json:"version"` // monotonic per order
	Amount          float64        `gorm:"not null" json:"amount"`
	Currency        string         `gorm:"not null;default:'USD'" json:"currency"`
	Timeline        string         `gorm:"not null" json:"timeline"` // e.g. "4 weeks"
	ValidUntil      time.Time      `gorm:"not null" json:"valid_until"`
	ScopeOfWork     []string       `gorm:"serializer:json" json:"scope_of_work"`
	Terms           string         `gorm:"type:text" json:"terms"`
	Status          QuoteStatus    `gorm:"not null;default:'proposed'" json:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	AcceptedAt      *time.Time     `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time     `json:"rejected_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// Expired reports whether the quote's validity window has passed
func (q *Quote) Expired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

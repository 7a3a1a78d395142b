package models

import (
	"time"

	"gorm.io/gorm"
)

// InvoiceStatus enumerates the lifecycle states of an invoice
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

// Invoice represents a billing document generated from an accepted quote.
// Totals are computed once at generation time and never recomputed.
type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderID       uint           `gorm:"not null;uniqueIndex" json:"order_id"` // at most one invoice per order
	Order         Order          `gorm:"foreignKey:OrderID" json:"-"`
	QuoteID       uint           `gorm:"not null;index" json:"quote_id"`
	Quote         Quote          `gorm:"foreignKey:QuoteID" json:"-"`
	Number        string         `gorm:"uniqueIndex;not null" json:"number"`
	IssuedAt      time.Time      `gorm:"not null" json:"issued_at"`
	DueAt         time.Time      `gorm:"not null" json:"due_at"`
	Items         []InvoiceItem  `gorm:"foreignKey:InvoiceID" json:"items"`
	Subtotal      float64        `gorm:"not null" json:"subtotal"`
	Tax           float64        `gorm:"not null" json:"tax"`
	Total         float64        `gorm:"not null" json:"total"`
	Currency      string         `gorm:"not null;default:'USD'" json:"currency"`
	Status        InvoiceStatus  `gorm:"not null;default:'unpaid'" json:"status"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	PaymentMethod *string        `json:"payment_method,omitempty"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents one billed line on an invoice
type InvoiceItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InvoiceID   uint      `gorm:"not null;index" json:"invoice_id"`
	Description string    `gorm:"not null" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

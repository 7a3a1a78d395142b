package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mirabelle-minis/commissions-api/models"
	"gorm.io/gorm"
)

// invoiceDueDays is how long after issue an invoice falls due
const invoiceDueDays = 14

// InvoiceService owns invoice generation and payment processing
type InvoiceService struct {
	db      *gorm.DB
	taxRate float64
}

// NewInvoiceService creates a new invoice service with the configured tax rate
func NewInvoiceService(db *gorm.DB, taxRate float64) *InvoiceService {
	return &InvoiceService{db: db, taxRate: taxRate}
}

// GenerateInvoice creates the invoice for an accepted quote: a single line
// item at the quote amount, tax at the configured rate, total = subtotal +
// tax. An order can have at most one invoice.
func (s *InvoiceService) GenerateInvoice(quoteID uint) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		quote, txErr := findQuote(tx, quoteID)
		if txErr != nil {
			return txErr
		}

		if quote.Status != models.QuoteAccepted {
			return NewStateConflictError("QUOTE_NOT_ACCEPTED", string(quote.Status), string(models.QuoteAccepted))
		}

		var existing int64
		if txErr := tx.Model(&models.Invoice{}).
			Where("order_id = ?", quote.OrderID).
			Count(&existing).Error; txErr != nil {
			return txErr
		}
		if existing > 0 {
			return NewStateConflictError("INVOICE_EXISTS", "invoice exists", "no invoice for order")
		}

		order, txErr := findOrder(tx, quote.OrderID)
		if txErr != nil {
			return txErr
		}

		subtotal := roundCents(quote.Amount)
		tax := roundCents(subtotal * s.taxRate)
		now := time.Now()

		inv := models.Invoice{
			OrderID:  order.ID,
			QuoteID:  quote.ID,
			Number:   newInvoiceNumber(),
			IssuedAt: now,
			DueAt:    now.AddDate(0, 0, invoiceDueDays),
			Items: []models.InvoiceItem{
				{
					Description: fmt.Sprintf("Custom model commission %s (quote v%d)", order.Reference, quote.Version),
					Quantity:    1,
					UnitPrice:   subtotal,
				},
			},
			Subtotal: subtotal,
			Tax:      tax,
			Total:    roundCents(subtotal + tax),
			Currency: quote.Currency,
			Status:   models.InvoiceUnpaid,
		}

		if txErr := tx.Create(&inv).Error; txErr != nil {
			return txErr
		}

		invoice = &inv
		notify(order.Customer.Email, TemplateInvoiceIssued, map[string]interface{}{
			"order_reference": order.Reference,
			"invoice_number":  inv.Number,
			"total":           inv.Total,
			"currency":        inv.Currency,
			"due_at":          inv.DueAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoiceForOrder fetches the invoice of an order with its items loaded
func (s *InvoiceService) GetInvoiceForOrder(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Items").Where("order_id = ?", orderID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice for order", orderID)
		}
		return nil, err
	}
	return &invoice, nil
}

// ProcessPayment charges the unpaid invoice of an order through the payment
// gateway, marks it paid, and advances the order to in_production. A failed
// charge leaves invoice and order untouched.
func (s *InvoiceService) ProcessPayment(orderID uint, method string) (*models.Invoice, error) {
	if strings.TrimSpace(method) == "" {
		return nil, NewValidationError("MISSING_PAYMENT_METHOD", "payment method is required")
	}

	var invoice *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		txErr := tx.Preload("Items").Where("order_id = ?", orderID).First(&inv).Error
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return NewNotFoundError("invoice for order", orderID)
			}
			return txErr
		}

		if inv.Status != models.InvoiceUnpaid {
			return NewStateConflictError("INVOICE_NOT_UNPAID", string(inv.Status), string(models.InvoiceUnpaid))
		}

		order, txErr := findOrder(tx, orderID)
		if txErr != nil {
			return txErr
		}
		if order.Stage != models.StageQuoteAccepted {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage), string(models.StageQuoteAccepted))
		}

		transactionID, txErr := GetPaymentGateway().Charge(inv.Total, inv.Currency, method)
		if txErr != nil {
			return NewValidationError("PAYMENT_FAILED", "payment failed: %v", txErr)
		}

		now := time.Now()
		result := tx.Model(&models.Invoice{}).
			Where("id = ? AND status = ?", inv.ID, models.InvoiceUnpaid).
			Updates(map[string]interface{}{
				"status":         models.InvoicePaid,
				"paid_at":        now,
				"payment_method": method,
				"transaction_id": transactionID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewStateConflictError("INVOICE_NOT_UNPAID", "already paid", string(models.InvoiceUnpaid))
		}

		if txErr := transition(tx, order, models.StageInProduction, nil); txErr != nil {
			return txErr
		}

		inv.Status = models.InvoicePaid
		inv.PaidAt = &now
		inv.PaymentMethod = &method
		inv.TransactionID = &transactionID
		invoice = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// roundCents rounds a monetary amount to two decimal places
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// newInvoiceNumber generates a unique invoice number, e.g. INV-1A2B3C4D
func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}

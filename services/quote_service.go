package services

import (
	"errors"
	"strings"
	"time"

	"github.com/mirabelle-minis/commissions-api/models"
	"gorm.io/gorm"
)

// QuoteService owns quote creation and the customer accept/reject decision
type QuoteService struct {
	db *gorm.DB
}

// NewQuoteService creates a new quote service
func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{db: db}
}

// QuoteInput is the admin-supplied proposal for an order
type QuoteInput struct {
	Amount      float64
	Currency    string
	Timeline    string
	ValidUntil  time.Time
	ScopeOfWork []string
	Terms       string
}

// CreateQuote validates and persists a new quote, assigns the next version
// number for the order, advances the order to quote_sent, and notifies the
// customer. Legal from pending_admin_review and questionnaire_completed.
func (s *QuoteService) CreateQuote(orderID uint, input QuoteInput) (*models.Quote, error) {
	if err := validateQuoteInput(input); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, txErr := findOrder(tx, orderID)
		if txErr != nil {
			return txErr
		}

		if order.Stage != models.StagePendingAdminReview && order.Stage != models.StageQuestionnaireCompleted {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage),
				string(models.StagePendingAdminReview)+" or "+string(models.StageQuestionnaireCompleted))
		}

		var maxVersion int
		if txErr := tx.Model(&models.Quote{}).
			Where("order_id = ?", orderID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; txErr != nil {
			return txErr
		}

		q := models.Quote{
			OrderID:     orderID,
			Version:     maxVersion + 1,
			Amount:      input.Amount,
			Currency:    currency,
			Timeline:    input.Timeline,
			ValidUntil:  input.ValidUntil,
			ScopeOfWork: input.ScopeOfWork,
			Terms:       input.Terms,
			Status:      models.QuoteProposed,
		}

		if txErr := tx.Create(&q).Error; txErr != nil {
			return txErr
		}

		if txErr := transition(tx, order, models.StageQuoteSent, nil); txErr != nil {
			return txErr
		}

		quote = &q
		notify(order.Customer.Email, TemplateQuoteSent, map[string]interface{}{
			"order_reference": order.Reference,
			"amount":          q.Amount,
			"currency":        q.Currency,
			"version":         q.Version,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// GetQuote fetches a quote by id
func (s *QuoteService) GetQuote(quoteID uint) (*models.Quote, error) {
	return findQuote(s.db, quoteID)
}

// ListQuotes returns the quote history for an order, oldest version first
func (s *QuoteService) ListQuotes(orderID uint) ([]models.Quote, error) {
	var quotes []models.Quote
	if err := s.db.Where("order_id = ?", orderID).Order("version ASC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// AcceptQuote marks a proposed quote accepted and advances the order to
// quote_accepted. Accepting an already-decided or expired quote is an error.
func (s *QuoteService) AcceptQuote(quoteID uint) (*models.Quote, error) {
	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, txErr := findQuote(tx, quoteID)
		if txErr != nil {
			return txErr
		}

		if q.Status != models.QuoteProposed {
			return NewStateConflictError("QUOTE_NOT_PROPOSED", string(q.Status), string(models.QuoteProposed))
		}
		if q.Expired(time.Now()) {
			return NewStateConflictError("QUOTE_EXPIRED", "expired", "valid until "+q.ValidUntil.Format(time.RFC3339))
		}

		order, txErr := findOrder(tx, q.OrderID)
		if txErr != nil {
			return txErr
		}
		if order.Stage != models.StageQuoteSent {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage), string(models.StageQuoteSent))
		}

		now := time.Now()
		result := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", q.ID, models.QuoteProposed).
			Updates(map[string]interface{}{
				"status":      models.QuoteAccepted,
				"accepted_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewStateConflictError("QUOTE_NOT_PROPOSED", "already decided", string(models.QuoteProposed))
		}

		if txErr := transition(tx, order, models.StageQuoteAccepted, nil); txErr != nil {
			return txErr
		}

		q.Status = models.QuoteAccepted
		q.AcceptedAt = &now
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// RejectQuote marks a proposed quote rejected with a mandatory reason and
// returns the order to pending_admin_review so the admin can revise. The
// quote record is kept as history.
func (s *QuoteService) RejectQuote(quoteID uint, reason string) (*models.Quote, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, NewValidationError("MISSING_REJECTION_REASON", "rejection reason is required")
	}

	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, txErr := findQuote(tx, quoteID)
		if txErr != nil {
			return txErr
		}

		if q.Status != models.QuoteProposed {
			return NewStateConflictError("QUOTE_NOT_PROPOSED", string(q.Status), string(models.QuoteProposed))
		}
		if q.Expired(time.Now()) {
			return NewStateConflictError("QUOTE_EXPIRED", "expired", "valid until "+q.ValidUntil.Format(time.RFC3339))
		}

		order, txErr := findOrder(tx, q.OrderID)
		if txErr != nil {
			return txErr
		}
		if order.Stage != models.StageQuoteSent {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage), string(models.StageQuoteSent))
		}

		now := time.Now()
		result := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", q.ID, models.QuoteProposed).
			Updates(map[string]interface{}{
				"status":           models.QuoteRejected,
				"rejection_reason": reason,
				"rejected_at":      now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewStateConflictError("QUOTE_NOT_PROPOSED", "already decided", string(models.QuoteProposed))
		}

		if txErr := transition(tx, order, models.StagePendingAdminReview, nil); txErr != nil {
			return txErr
		}

		q.Status = models.QuoteRejected
		q.RejectionReason = &reason
		q.RejectedAt = &now
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// validateQuoteInput checks the proposal: positive amount, non-empty
// timeline, a future validity date, and at least one scope line.
func validateQuoteInput(input QuoteInput) error {
	if input.Amount <= 0 {
		return NewValidationError("INVALID_AMOUNT", "quote amount must be positive")
	}
	if strings.TrimSpace(input.Timeline) == "" {
		return NewValidationError("MISSING_TIMELINE", "quote timeline is required")
	}
	if !input.ValidUntil.After(time.Now()) {
		return NewValidationError("INVALID_VALID_UNTIL", "quote validity date must be in the future")
	}

	var scope int
	for _, line := range input.ScopeOfWork {
		if strings.TrimSpace(line) != "" {
			scope++
		}
	}
	if scope == 0 {
		return NewValidationError("EMPTY_SCOPE", "quote needs at least one scope of work line")
	}

	return nil
}

// findQuote fetches a quote by id, translating gorm's not-found error
func findQuote(tx *gorm.DB, quoteID uint) (*models.Quote, error) {
	var quote models.Quote
	if err := tx.First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("quote", quoteID)
		}
		return nil, err
	}
	return &quote, nil
}

package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mirabelle-minis/commissions-api/models"
	"gorm.io/gorm"
)

// OrderService owns the commission order lifecycle. All workflow mutations
// go through it; controllers never write order state directly.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// EnquiryInput is the customer-supplied intake data for a new commission
type EnquiryInput struct {
	ModelName          string
	Scale              string
	BudgetRange        string
	Description        string
	ReferenceImageKeys []string
}

// CreateEnquiry creates a new order in the enquiry_received stage
func (s *OrderService) CreateEnquiry(customerID uint, input EnquiryInput) (*models.Order, error) {
	if strings.TrimSpace(input.ModelName) == "" {
		return nil, NewValidationError("MISSING_MODEL_NAME", "model name is required")
	}

	order := models.Order{
		Reference:          newOrderReference(),
		ModelName:          input.ModelName,
		Scale:              input.Scale,
		BudgetRange:        input.BudgetRange,
		Description:        input.Description,
		ReferenceImageKeys: input.ReferenceImageKeys,
		Stage:              models.StageEnquiryReceived,
		CustomerID:         customerID,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Customer").First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrder fetches an order with its customer loaded
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	return findOrder(s.db, orderID)
}

// ListOrders returns orders, newest first. A zero customerID means all
// customers (admin view); an empty stage means all stages.
func (s *OrderService) ListOrders(customerID uint, stage models.Stage) ([]models.Order, error) {
	query := s.db.Preload("Customer").Order("created_at DESC")
	if customerID != 0 {
		query = query.Where("customer_id = ?", customerID)
	}
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// StartReview moves an order from enquiry_received to pending_admin_review
func (s *OrderService) StartReview(orderID uint) (*models.Order, error) {
	return s.advance(orderID, models.StageEnquiryReceived, models.StagePendingAdminReview, nil)
}

// MarkReadyToShip moves an order from in_production to ready_to_ship
func (s *OrderService) MarkReadyToShip(orderID uint) (*models.Order, error) {
	return s.advance(orderID, models.StageInProduction, models.StageReadyToShip, nil)
}

// Ship moves an order from ready_to_ship to shipped, recording the tracking
// number and carrier, and notifies the customer.
func (s *OrderService) Ship(orderID uint, trackingNumber, carrier string) (*models.Order, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, NewValidationError("MISSING_TRACKING_NUMBER", "tracking number is required")
	}
	if strings.TrimSpace(carrier) == "" {
		return nil, NewValidationError("MISSING_CARRIER", "carrier is required")
	}

	order, err := s.advance(orderID, models.StageReadyToShip, models.StageShipped, map[string]interface{}{
		"tracking_number": trackingNumber,
		"carrier":         carrier,
	})
	if err != nil {
		return nil, err
	}

	notify(order.Customer.Email, TemplateOrderShipped, map[string]interface{}{
		"order_reference": order.Reference,
		"tracking_number": trackingNumber,
		"carrier":         carrier,
	})

	return order, nil
}

// Complete moves an order from shipped to completed
func (s *OrderService) Complete(orderID uint) (*models.Order, error) {
	return s.advance(orderID, models.StageShipped, models.StageCompleted, nil)
}

// Cancel moves an order into the terminal cancelled stage. A non-empty
// reason is required; the move is irreversible.
func (s *OrderService) Cancel(orderID uint, reason string) (*models.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, NewValidationError("MISSING_CANCELLATION_REASON", "cancellation reason is required")
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = findOrder(tx, orderID)
		if txErr != nil {
			return txErr
		}

		if order.Stage.IsTerminal() {
			return NewStateConflictError("ORDER_TERMINAL", string(order.Stage), "any non-terminal stage")
		}

		return transition(tx, order, models.StageCancelled, map[string]interface{}{
			"cancellation_reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// OrderActions describes the legal actions and progress position for an
// order in its current state.
type OrderActions struct {
	Stage         models.Stage    `json:"stage"`
	Actions       []models.Action `json:"actions"`
	ProgressIndex int             `json:"progress_index"`
	ProgressSteps int             `json:"progress_steps"`
}

// AvailableActions computes the legal action set for an order from its stage
// and attachment state.
func (s *OrderService) AvailableActions(orderID uint) (*OrderActions, error) {
	order, err := findOrder(s.db, orderID)
	if err != nil {
		return nil, err
	}

	var activeQuestionnaires int64
	if err := s.db.Model(&models.Questionnaire{}).
		Where("order_id = ? AND answered = ?", orderID, false).
		Count(&activeQuestionnaires).Error; err != nil {
		return nil, err
	}

	var acceptedQuotes int64
	if err := s.db.Model(&models.Quote{}).
		Where("order_id = ? AND status = ?", orderID, models.QuoteAccepted).
		Count(&acceptedQuotes).Error; err != nil {
		return nil, err
	}

	var invoices int64
	if err := s.db.Model(&models.Invoice{}).
		Where("order_id = ?", orderID).
		Count(&invoices).Error; err != nil {
		return nil, err
	}

	return &OrderActions{
		Stage:         order.Stage,
		Actions:       models.AvailableActions(order.Stage, activeQuestionnaires > 0, acceptedQuotes > 0, invoices > 0),
		ProgressIndex: models.ProgressIndex(order.Stage),
		ProgressSteps: models.ProgressSteps,
	}, nil
}

// advance runs a single guarded stage transition in a transaction
func (s *OrderService) advance(orderID uint, from, to models.Stage, extra map[string]interface{}) (*models.Order, error) {
	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = findOrder(tx, orderID)
		if txErr != nil {
			return txErr
		}

		if order.Stage != from {
			return NewStateConflictError("INVALID_STAGE", string(order.Stage), string(from))
		}

		return transition(tx, order, to, extra)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// findOrder fetches an order by id, translating gorm's not-found error
func findOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("Customer").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order", orderID)
		}
		return nil, err
	}
	return &order, nil
}

// transition applies a stage change with a stage-guarded update, so a
// concurrent actor that already moved the order causes a conflict instead
// of a lost update.
func transition(tx *gorm.DB, order *models.Order, to models.Stage, extra map[string]interface{}) error {
	if !models.CanTransition(order.Stage, to) {
		return NewStateConflictError("INVALID_TRANSITION", string(order.Stage), string(to))
	}

	updates := map[string]interface{}{"stage": to}
	for k, v := range extra {
		updates[k] = v
	}

	result := tx.Model(&models.Order{}).
		Where("id = ? AND stage = ?", order.ID, order.Stage).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewStateConflictError("STALE_STAGE", "unknown", string(order.Stage))
	}

	order.Stage = to
	if reason, ok := extra["cancellation_reason"].(string); ok {
		order.CancellationReason = &reason
	}
	if tracking, ok := extra["tracking_number"].(string); ok {
		order.TrackingNumber = &tracking
	}
	if carrier, ok := extra["carrier"].(string); ok {
		order.Carrier = &carrier
	}

	return nil
}

// newOrderReference generates a short unique order reference, e.g. CM-1A2B3C4D
func newOrderReference() string {
	return "CM-" + strings.ToUpper(uuid.NewString()[:8])
}

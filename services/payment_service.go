package services

import (
	"fmt"

	"github.com/google/uuid"
)

// PaymentGateway defines the interface for charging a customer
type PaymentGateway interface {
	Charge(amount float64, currency, method string) (transactionID string, err error)
}

// StubGateway approves every charge and returns a generated transaction id.
// It stands in for a real payment processor.
type StubGateway struct{}

// NewStubGateway creates a new stub payment gateway
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// Charge approves the charge and returns a transaction id
func (g *StubGateway) Charge(amount float64, currency, method string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid charge amount: %.2f", amount)
	}
	return "txn_" + uuid.NewString(), nil
}

var gatewayInstance PaymentGateway

// InitPaymentGateway initializes the payment gateway instance
func InitPaymentGateway(g PaymentGateway) PaymentGateway {
	gatewayInstance = g
	return gatewayInstance
}

// GetPaymentGateway returns the initialized payment gateway instance
func GetPaymentGateway() PaymentGateway {
	if gatewayInstance == nil {
		gatewayInstance = NewStubGateway()
	}
	return gatewayInstance
}

// SetPaymentGateway sets the payment gateway instance (primarily for testing)
func SetPaymentGateway(g PaymentGateway) {
	gatewayInstance = g
}

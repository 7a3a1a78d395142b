package services

import (
	"fmt"
	"sync"
)

// RecordedCharge records one call to the mock payment gateway
type RecordedCharge struct {
	Amount   float64
	Currency string
	Method   string
}

// MockGateway is a mock implementation of PaymentGateway for testing
type MockGateway struct {
	charges []RecordedCharge
	err     error
	mu      sync.RWMutex
}

// NewMockGateway creates a new mock payment gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// SetAsMockForTesting sets this mock as the global gateway instance for testing
func (m *MockGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// FailWith makes all subsequent Charge calls return err
func (m *MockGateway) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Charge records the charge and returns a deterministic transaction id
func (m *MockGateway) Charge(amount float64, currency, method string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}

	m.charges = append(m.charges, RecordedCharge{
		Amount:   amount,
		Currency: currency,
		Method:   method,
	})
	return fmt.Sprintf("txn_mock_%d", len(m.charges)), nil
}

// Charges returns a copy of all recorded charges (for testing assertions)
func (m *MockGateway) Charges() []RecordedCharge {
	m.mu.RLock()
	defer m.mu.RUnlock()

	charges := make([]RecordedCharge, len(m.charges))
	copy(charges, m.charges)
	return charges
}

// Clear removes all recorded charges
func (m *MockGateway) Clear() {
	m.mu.Lock()
	m.charges = nil
	m.mu.Unlock()
}

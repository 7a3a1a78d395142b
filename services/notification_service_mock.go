package services

import "sync"

// SentNotification records one call to the mock notifier
type SentNotification struct {
	Recipient string
	Template  string
	Payload   map[string]interface{}
}

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	sent []SentNotification
	err  error
	mu   sync.RWMutex
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SetAsMockForTesting sets this mock as the global notifier instance for testing
func (m *MockNotifier) SetAsMockForTesting() {
	SetNotifier(m)
}

// FailWith makes all subsequent Notify calls return err
func (m *MockNotifier) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Notify records the notification
func (m *MockNotifier) Notify(recipient, template string, payload map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, SentNotification{
		Recipient: recipient,
		Template:  template,
		Payload:   payload,
	})
	return nil
}

// Sent returns a copy of all recorded notifications (for testing assertions)
func (m *MockNotifier) Sent() []SentNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sent := make([]SentNotification, len(m.sent))
	copy(sent, m.sent)
	return sent
}

// Clear removes all recorded notifications
func (m *MockNotifier) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}

package services

import "log"

// Notification template names sent to customers as orders progress.
const (
	TemplateQuestionnaireSent = "questionnaire_sent"
	TemplateQuoteSent         = "quote_sent"
	TemplateInvoiceIssued     = "invoice_issued"
	TemplateOrderShipped      = "order_shipped"
	TemplateNewMessage        = "new_message"
)

// Notifier defines the interface for out-of-band customer notifications
type Notifier interface {
	Notify(recipient, template string, payload map[string]interface{}) error
}

// LogNotifier writes notifications to the application log. It stands in for
// a real email/push provider.
type LogNotifier struct{}

// NewLogNotifier creates a new log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification
func (n *LogNotifier) Notify(recipient, template string, payload map[string]interface{}) error {
	log.Printf("notify %s: template=%s payload=%v", recipient, template, payload)
	return nil
}

var notifierInstance Notifier

// InitNotifier initializes the notifier instance
func InitNotifier(n Notifier) Notifier {
	notifierInstance = n
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() Notifier {
	if notifierInstance == nil {
		notifierInstance = NewLogNotifier()
	}
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// notify sends a notification and logs failures without propagating them.
// A notification failure never fails the operation that triggered it.
func notify(recipient, template string, payload map[string]interface{}) {
	if err := GetNotifier().Notify(recipient, template, payload); err != nil {
		log.Printf("warning: failed to send %s notification to %s: %v", template, recipient, err)
	}
}

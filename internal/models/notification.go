package models

// EmailMessage is a single transactional email with plain and HTML bodies.
type EmailMessage struct {
	To          string
	ToName      string
	Subject     string
	Content     string
	HTMLContent string
	// Category groups messages in the provider's analytics, e.g. "order_confirmation".
	Category string
	// OrderID is echoed back on delivery events.
	OrderID string
}

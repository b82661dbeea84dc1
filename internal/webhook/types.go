package webhook

import (
	"time"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// EventTypeWildcard is a special filter that matches all event types
const EventTypeWildcard = "*"

// WebhookEvent represents a webhook event to be delivered to clients
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the notification type (e.g., "ownership_request_received")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data is the notification the event was derived from
	Data domain.NotificationEvent `json:"data"`
}

// NewWebhookEvent wraps a notification in a webhook envelope
func NewWebhookEvent(eventID string, notification domain.NotificationEvent, at time.Time) WebhookEvent {
	return WebhookEvent{
		EventID:   eventID,
		EventType: string(notification.Type),
		Timestamp: at.UTC(),
		Data:      notification,
	}
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Body is the response body (limited to 4KB)
	Body string
	// Error contains error details if delivery failed
	Error string
}

package messaging

import (
	"context"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// Publisher defines the interface for publishing notification events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishNotification publishes a notification event on its type's subject
	PublishNotification(ctx context.Context, event domain.NotificationEvent) error
	// Close closes the connection
	Close()
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/messaging"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// Input is a notification addressed to a single user
type Input struct {
	UserID        uuid.UUID
	Type          domain.NotificationType
	Title         string
	Message       string
	ArtworkID     *uuid.UUID
	RelatedUserID *uuid.UUID
	Metadata      map[string]any
}

// Sink accepts notifications. Callers treat delivery as best-effort.
//
//go:generate mockgen -source=service.go -destination=../mocks/notification.go -package=mocks -mock_names=Sink=MockNotificationSink,Service=MockNotificationService
type Sink interface {
	// CreateNotification stores the notification and publishes it to the broker
	CreateNotification(ctx context.Context, input Input) error
}

// Service is the notification sink plus the recipient-facing operations
type Service interface {
	Sink
	// List returns the user's notifications, newest first, with the total count
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int, offset uint64) ([]schema.Notification, uint64, error)
	// MarkRead marks one of the user's notifications as read
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type service struct {
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewService creates a notification service. publisher may be nil, in which case
// notifications are only stored.
func NewService(st store.Store, publisher messaging.Publisher, clock adapter.Clock) Service {
	return &service{
		store:     st,
		publisher: publisher,
		clock:     clock,
	}
}

// CreateNotification writes the notification row, then publishes it. The row is the source
// of truth, so a publish failure is logged and not returned.
func (s *service) CreateNotification(ctx context.Context, input Input) error {
	if input.UserID == uuid.Nil {
		return fmt.Errorf("notification recipient is required")
	}

	var metadata []byte
	if len(input.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(input.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal notification metadata: %w", err)
		}
	}

	row, err := s.store.CreateNotification(ctx, store.CreateNotificationInput{
		UserID:        input.UserID,
		Type:          input.Type,
		Title:         input.Title,
		Message:       input.Message,
		ArtworkID:     input.ArtworkID,
		RelatedUserID: input.RelatedUserID,
		Metadata:      metadata,
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	if err := s.publisher.PublishNotification(ctx, toEvent(row, input.Metadata)); err != nil {
		logger.WarnCtx(ctx, "Failed to publish notification event",
			zap.Error(err),
			zap.String("notificationID", row.ID.String()),
			zap.String("type", string(row.Type)))
	}

	return nil
}

// List returns the user's notifications
func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int, offset uint64) ([]schema.Notification, uint64, error) {
	if userID == uuid.Nil {
		return nil, 0, domain.ErrAuthenticationRequired
	}

	return s.store.ListNotifications(ctx, store.NotificationQueryFilter{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
}

// MarkRead marks a notification as read. Notifications of other users are reported as not found.
func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrAuthenticationRequired
	}

	ok, err := s.store.MarkNotificationRead(ctx, userID, notificationID, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotificationNotFound
	}

	return nil
}

func toEvent(row *schema.Notification, metadata map[string]any) domain.NotificationEvent {
	event := domain.NotificationEvent{
		NotificationID: row.ID.String(),
		UserID:         row.UserID.String(),
		Type:           row.Type,
		Title:          row.Title,
		Message:        row.Message,
		Metadata:       metadata,
		CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if row.ArtworkID != nil {
		id := row.ArtworkID.String()
		event.ArtworkID = &id
	}
	if row.RelatedUserID != nil {
		id := row.RelatedUserID.String()
		event.RelatedUserID = &id
	}
	return event
}

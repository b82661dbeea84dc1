package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore

// Store defines the interface for database operations
type Store interface {
	// WithTransaction runs fn against a store bound to a single database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	// =============================================================================
	// Accounts
	// =============================================================================

	// GetAccountByID retrieves an account profile by its ID
	GetAccountByID(ctx context.Context, id uuid.UUID) (*schema.Account, error)
	// UpsertAccount creates or refreshes an account profile
	UpsertAccount(ctx context.Context, input UpsertAccountInput) (*schema.Account, error)

	// =============================================================================
	// Artworks
	// =============================================================================

	// GetArtworkByID retrieves an artwork by its ID
	GetArtworkByID(ctx context.Context, id uuid.UUID) (*schema.Artwork, error)
	// CreateArtwork registers a new artwork
	CreateArtwork(ctx context.Context, input CreateArtworkInput) (*schema.Artwork, error)
	// UpdateArtworkProvenance writes provenance columns if the artwork is still owned by input.OwnerID.
	// Returns false when no row matched.
	UpdateArtworkProvenance(ctx context.Context, input UpdateArtworkProvenanceInput) (bool, error)
	// TransferArtworkOwnership reassigns the artwork if it is still owned by input.FromOwnerID.
	// Returns false when no row matched.
	TransferArtworkOwnership(ctx context.Context, input TransferArtworkOwnershipInput) (bool, error)

	// =============================================================================
	// Provenance update requests
	// =============================================================================

	// HasPendingRequest checks whether the requester already has a pending request for the artwork
	HasPendingRequest(ctx context.Context, artworkID, requesterID uuid.UUID) (bool, error)
	// CreateRequest inserts a pending request.
	// Returns domain.ErrDuplicatePendingRequest if a pending request already exists for the pair.
	CreateRequest(ctx context.Context, input CreateRequestInput) (*schema.ProvenanceUpdateRequest, error)
	// GetRequestByID retrieves a request by its ID
	GetRequestByID(ctx context.Context, id uuid.UUID) (*schema.ProvenanceUpdateRequest, error)
	// GetRequestSummaryByID retrieves a request joined with its artwork and requester
	GetRequestSummaryByID(ctx context.Context, id uuid.UUID) (*RequestSummary, error)
	// ListPendingRequestsForOwner lists pending requests on artworks currently owned by ownerID, newest first
	ListPendingRequestsForOwner(ctx context.Context, ownerID uuid.UUID) ([]RequestSummary, error)
	// ListRequestsByRequester lists requests submitted by requesterID in any status, newest first
	ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]RequestSummary, error)
	// TransitionRequest moves a pending request to a terminal status.
	// Returns false when the request is no longer pending.
	TransitionRequest(ctx context.Context, input TransitionRequestInput) (bool, error)

	// =============================================================================
	// Changes journal
	// =============================================================================

	// CreateChangesJournal appends an entry to the changes journal
	CreateChangesJournal(ctx context.Context, input CreateChangesJournalInput) error
	// ListArtworkHistory lists journal entries for an artwork, newest first, with the total count
	ListArtworkHistory(ctx context.Context, artworkID uuid.UUID, limit int, offset uint64) ([]schema.ChangesJournal, uint64, error)

	// =============================================================================
	// Notifications
	// =============================================================================

	// CreateNotification inserts a notification row
	CreateNotification(ctx context.Context, input CreateNotificationInput) (*schema.Notification, error)
	// ListNotifications lists a user's notifications, newest first, with the total count
	ListNotifications(ctx context.Context, filter NotificationQueryFilter) ([]schema.Notification, uint64, error)
	// MarkNotificationRead marks a notification owned by userID as read.
	// Returns false when no matching notification exists.
	MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID, readAt time.Time) (bool, error)

	// =============================================================================
	// Webhooks
	// =============================================================================

	// GetActiveWebhookClientsByEventType retrieves active webhook clients that match the given event type
	GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error)
	// GetWebhookClientByID retrieves a webhook client by client ID
	GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error)
	// CreateWebhookClient creates a new webhook client
	CreateWebhookClient(ctx context.Context, input CreateWebhookClientInput) (*schema.WebhookClient, error)
	// CreateWebhookDelivery creates a new webhook delivery record, or loads the existing row for the same client and event
	CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error
	// UpdateWebhookDeliveryStatus updates the status and result of a webhook delivery
	UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error
}

// UpsertAccountInput represents the input for creating or refreshing an account profile
type UpsertAccountInput struct {
	ID          uuid.UUID
	DisplayName string
	AvatarURL   *string
}

// CreateArtworkInput represents the input for registering an artwork
type CreateArtworkInput struct {
	OwnerID      uuid.UUID
	ImageURL     *string
	ThumbnailURL *string
	// Columns holds the initial provenance column values keyed by column name
	Columns   map[string]any
	CreatedAt time.Time
}

// UpdateArtworkProvenanceInput represents a conditional provenance write
type UpdateArtworkProvenanceInput struct {
	ArtworkID uuid.UUID
	// OwnerID is the owner the write is conditioned on
	OwnerID uuid.UUID
	// Columns holds the column assignments; nil values clear the column
	Columns   map[string]any
	UpdatedAt time.Time
}

// TransferArtworkOwnershipInput represents a conditional ownership transfer
type TransferArtworkOwnershipInput struct {
	ArtworkID   uuid.UUID
	FromOwnerID uuid.UUID
	ToOwnerID   uuid.UUID
	UpdatedAt   time.Time
}

// CreateRequestInput represents the input for submitting a request
type CreateRequestInput struct {
	ArtworkID      uuid.UUID
	RequestedBy    uuid.UUID
	RequestType    domain.RequestType
	UpdateFields   datatypes.JSON
	RequestMessage *string
	RequestedAt    time.Time
}

// TransitionRequestInput represents the review outcome written to a pending request
type TransitionRequestInput struct {
	RequestID     uuid.UUID
	Status        domain.RequestStatus
	ReviewedBy    uuid.UUID
	ReviewedAt    time.Time
	ReviewMessage *string
}

// CreateChangesJournalInput represents a journal entry
type CreateChangesJournalInput struct {
	SubjectType schema.SubjectType
	SubjectID   uuid.UUID
	ActorID     uuid.UUID
	RequestID   *uuid.UUID
	ChangedAt   time.Time
	Meta        datatypes.JSON
}

// CreateNotificationInput represents the input for creating a notification row
type CreateNotificationInput struct {
	UserID        uuid.UUID
	Type          domain.NotificationType
	Title         string
	Message       string
	ArtworkID     *uuid.UUID
	RelatedUserID *uuid.UUID
	Metadata      datatypes.JSON
	CreatedAt     time.Time
}

// NotificationQueryFilter represents filters for listing notifications
type NotificationQueryFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     uint64
}

// CreateWebhookClientInput represents the input for registering a webhook client
type CreateWebhookClientInput struct {
	ClientID         string
	WebhookURL       string
	WebhookSecret    string
	EventFilters     datatypes.JSON
	IsActive         bool
	RetryMaxAttempts int
}

// RequestSummary is a request joined with the presentation data of its artwork and requester
type RequestSummary struct {
	ID                   uuid.UUID            `gorm:"column:id"`
	ArtworkID            uuid.UUID            `gorm:"column:artwork_id"`
	RequestedBy          uuid.UUID            `gorm:"column:requested_by"`
	RequestType          domain.RequestType   `gorm:"column:request_type"`
	UpdateFields         datatypes.JSON       `gorm:"column:update_fields"`
	RequestMessage       *string              `gorm:"column:request_message"`
	Status               domain.RequestStatus `gorm:"column:status"`
	ReviewedBy           *uuid.UUID           `gorm:"column:reviewed_by"`
	ReviewedAt           *time.Time           `gorm:"column:reviewed_at"`
	ReviewMessage        *string              `gorm:"column:review_message"`
	RequestedAt          time.Time            `gorm:"column:requested_at"`
	ArtworkOwnerID       uuid.UUID            `gorm:"column:artwork_owner_id"`
	ArtworkTitle         *string              `gorm:"column:artwork_title"`
	ArtworkThumbnailURL  *string              `gorm:"column:artwork_thumbnail_url"`
	RequesterDisplayName *string              `gorm:"column:requester_display_name"`
}

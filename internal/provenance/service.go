package provenance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/notification"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// Service is the artwork provenance workflow: the artwork registry, direct owner edits,
// and the request/approval flow through which non-owners propose changes.
//
// Every caller ID is the authenticated account; uuid.Nil means no identity and yields
// domain.ErrAuthenticationRequired wherever an identity is needed.
//
//go:generate mockgen -source=service.go -destination=../mocks/provenance.go -package=mocks -mock_names=Service=MockProvenanceService
type Service interface {
	// UpdateProfile creates or refreshes the caller's public profile
	UpdateProfile(ctx context.Context, callerID uuid.UUID, displayName string, avatarURL *string) (*schema.Account, error)

	// CreateArtwork registers an artwork owned by the caller
	CreateArtwork(ctx context.Context, input CreateArtworkInput) (*schema.Artwork, error)
	// GetArtwork returns an artwork; private sensitive fields are hidden unless viewerID is the owner
	GetArtwork(ctx context.Context, viewerID uuid.UUID, artworkID uuid.UUID) (*schema.Artwork, error)
	// ListArtworkHistory returns the artwork's change journal, newest first. Values of private
	// sensitive fields are withheld unless viewerID is the owner.
	ListArtworkHistory(ctx context.Context, viewerID, artworkID uuid.UUID, limit int, offset uint64) ([]schema.ChangesJournal, uint64, error)

	// UpdateProvenance applies a patch as the artwork's current owner and notifies the owner
	UpdateProvenance(ctx context.Context, callerID, artworkID uuid.UUID, patch domain.ProvenancePatch) (*schema.Artwork, error)
	// BatchUpdateProvenance applies patches to several artworks one by one, collecting per-item failures
	BatchUpdateProvenance(ctx context.Context, callerID uuid.UUID, items []BatchItem) (*BatchResult, error)

	// SubmitRequest proposes a provenance update or an ownership transfer to the artwork's owner
	SubmitRequest(ctx context.Context, input SubmitRequestInput) (*schema.ProvenanceUpdateRequest, error)
	// ListPendingRequestsForOwner lists pending requests on artworks the caller currently owns
	ListPendingRequestsForOwner(ctx context.Context, ownerID uuid.UUID) ([]store.RequestSummary, error)
	// ListSubmittedRequests lists the caller's own requests in every status
	ListSubmittedRequests(ctx context.Context, requesterID uuid.UUID) ([]store.RequestSummary, error)
	// GetRequest returns a request visible to its requester or the artwork's current owner
	GetRequest(ctx context.Context, callerID, requestID uuid.UUID) (*store.RequestSummary, error)
	// RespondToRequest approves or denies a pending request as the artwork's current owner
	RespondToRequest(ctx context.Context, input RespondInput) (*schema.ProvenanceUpdateRequest, error)
}

// CreateArtworkInput represents the input for registering an artwork
type CreateArtworkInput struct {
	OwnerID      uuid.UUID
	Fields       domain.ProvenancePatch
	ImageURL     *string
	ThumbnailURL *string
}

// SubmitRequestInput represents a request proposed by a non-owner
type SubmitRequestInput struct {
	ArtworkID   uuid.UUID
	RequesterID uuid.UUID
	Type        domain.RequestType
	// Fields is the proposed patch; required for provenance updates, empty for ownership requests
	Fields  domain.ProvenancePatch
	Message *string
}

// RespondInput represents the owner's review of a request
type RespondInput struct {
	RequestID     uuid.UUID
	ReviewerID    uuid.UUID
	Action        domain.ReviewAction
	ReviewMessage *string
}

// BatchItem is one artwork patch in a batch update
type BatchItem struct {
	ArtworkID uuid.UUID
	Fields    domain.ProvenancePatch
}

// BatchItemError reports why one batch item was not applied
type BatchItemError struct {
	ArtworkID uuid.UUID
	Err       error
}

// BatchResult summarizes a batch update
type BatchResult struct {
	Succeeded int
	Errors    []BatchItemError
}

type service struct {
	store         store.Store
	notifications notification.Sink
	clock         adapter.Clock
}

// NewService creates the provenance service
func NewService(st store.Store, sink notification.Sink, clock adapter.Clock) Service {
	return &service{
		store:         st,
		notifications: sink,
		clock:         clock,
	}
}

// outbox collects notifications produced inside a transaction; they are sent only after commit
type outbox []notification.Input

func (o *outbox) add(input notification.Input) {
	*o = append(*o, input)
}

// flush sends the queued notifications. Failures are logged and swallowed.
func (s *service) flush(ctx context.Context, o outbox) {
	for _, n := range o {
		if err := s.notifications.CreateNotification(ctx, n); err != nil {
			logger.ErrorCtx(ctx, err,
				zap.String("message", "Failed to create notification"),
				zap.String("type", string(n.Type)),
				zap.String("userID", n.UserID.String()))
		}
	}
}

// UpdateProfile creates or refreshes the caller's public profile
func (s *service) UpdateProfile(ctx context.Context, callerID uuid.UUID, displayName string, avatarURL *string) (*schema.Account, error) {
	if callerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", domain.ErrInvalidProfile)
	}

	return s.store.UpsertAccount(ctx, store.UpsertAccountInput{
		ID:          callerID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	})
}

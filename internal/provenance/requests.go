package provenance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// SubmitRequest proposes a change to the artwork's current owner
func (s *service) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*schema.ProvenanceUpdateRequest, error) {
	if input.RequesterID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}

	var updateFields []byte
	switch input.Type {
	case domain.RequestTypeProvenanceUpdate:
		if input.Fields.IsEmpty() {
			return nil, fmt.Errorf("%w: a provenance update needs at least one field", domain.ErrInvalidPatch)
		}
		var err error
		updateFields, err = json.Marshal(input.Fields)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update fields: %w", err)
		}
	case domain.RequestTypeOwnershipRequest:
		if !input.Fields.IsEmpty() {
			return nil, fmt.Errorf("%w: an ownership request cannot carry fields", domain.ErrInvalidPatch)
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRequestType, input.Type)
	}

	// the checks and the insert run on the primary so a just-transferred artwork is seen with its new owner
	var artwork *schema.Artwork
	var request *schema.ProvenanceUpdateRequest
	err := s.store.WithTransaction(ctx, func(tx store.Store) error {
		var err error
		artwork, err = tx.GetArtworkByID(ctx, input.ArtworkID)
		if err != nil {
			return err
		}
		if artwork == nil {
			return domain.ErrArtworkNotFound
		}
		if artwork.AccountID == input.RequesterID {
			return domain.ErrIsOwner
		}

		pending, err := tx.HasPendingRequest(ctx, input.ArtworkID, input.RequesterID)
		if err != nil {
			return err
		}
		if pending {
			return domain.ErrDuplicatePendingRequest
		}

		// a racing submission that passed the check above is rejected by the pending-request index
		request, err = tx.CreateRequest(ctx, store.CreateRequestInput{
			ArtworkID:      input.ArtworkID,
			RequestedBy:    input.RequesterID,
			RequestType:    input.Type,
			UpdateFields:   updateFields,
			RequestMessage: input.Message,
			RequestedAt:    s.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Request submitted",
		zap.String("requestID", request.ID.String()),
		zap.String("artworkID", artwork.ID.String()),
		zap.String("requestType", string(request.RequestType)))

	requester, err := s.store.GetAccountByID(ctx, input.RequesterID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load requester profile", zap.Error(err))
	}
	s.flush(ctx, outbox{requestReceived(artwork, request, requester)})

	return request, nil
}

// ListPendingRequestsForOwner lists pending requests on artworks the caller owns right now
func (s *service) ListPendingRequestsForOwner(ctx context.Context, ownerID uuid.UUID) ([]store.RequestSummary, error) {
	if ownerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.store.ListPendingRequestsForOwner(ctx, ownerID)
}

// ListSubmittedRequests lists the caller's own requests
func (s *service) ListSubmittedRequests(ctx context.Context, requesterID uuid.UUID) ([]store.RequestSummary, error) {
	if requesterID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.store.ListRequestsByRequester(ctx, requesterID)
}

// GetRequest returns a request to its requester or to the artwork's current owner.
// Anyone else gets domain.ErrRequestNotFound.
func (s *service) GetRequest(ctx context.Context, callerID, requestID uuid.UUID) (*store.RequestSummary, error) {
	if callerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}

	summary, err := s.store.GetRequestSummaryByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if summary == nil || (summary.RequestedBy != callerID && summary.ArtworkOwnerID != callerID) {
		return nil, domain.ErrRequestNotFound
	}
	return summary, nil
}

// RespondToRequest resolves a pending request.
//
// The claim of the request, the artwork mutation and the journal entry share one
// transaction: if the artwork write fails the request stays pending and the call can be
// retried, and of two concurrent reviewers only the one whose conditional claim matches
// the pending row proceeds. The requester is notified after commit.
func (s *service) RespondToRequest(ctx context.Context, input RespondInput) (*schema.ProvenanceUpdateRequest, error) {
	if input.ReviewerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if !input.Action.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReviewAction, input.Action)
	}

	var out outbox
	var resolved *schema.ProvenanceUpdateRequest
	err := s.store.WithTransaction(ctx, func(tx store.Store) error {
		request, err := tx.GetRequestByID(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrRequestNotFound
		}
		if request.Status != domain.RequestStatusPending {
			return domain.ErrRequestAlreadyProcessed
		}

		artwork, err := tx.GetArtworkByID(ctx, request.ArtworkID)
		if err != nil {
			return err
		}
		grant, err := authorizeOwner(artwork, input.ReviewerID)
		if err != nil {
			return err
		}

		reviewedAt := s.clock.Now()
		claimed, err := tx.TransitionRequest(ctx, store.TransitionRequestInput{
			RequestID:     request.ID,
			Status:        input.Action.ResultingStatus(),
			ReviewedBy:    input.ReviewerID,
			ReviewedAt:    reviewedAt,
			ReviewMessage: input.ReviewMessage,
		})
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrRequestAlreadyProcessed
		}

		title := artworkTitle(artwork)
		if input.Action == domain.ReviewActionApprove {
			title, err = s.applyRequest(ctx, tx, grant, request, artwork)
			if err != nil {
				return err
			}
		}

		request.Status = input.Action.ResultingStatus()
		request.ReviewedBy = uuidPtr(input.ReviewerID)
		request.ReviewedAt = &reviewedAt
		request.ReviewMessage = input.ReviewMessage
		resolved = request

		out.add(requestResolved(artwork, title, request, input.Action))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Request resolved",
		zap.String("requestID", resolved.ID.String()),
		zap.String("status", string(resolved.Status)),
		zap.String("reviewerID", input.ReviewerID.String()))

	s.flush(ctx, out)
	return resolved, nil
}

// applyRequest performs the artwork mutation of an approved request and returns the
// artwork title as it reads afterwards
func (s *service) applyRequest(ctx context.Context, tx store.Store, grant OwnerGrant, request *schema.ProvenanceUpdateRequest, artwork *schema.Artwork) (string, error) {
	switch request.RequestType {
	case domain.RequestTypeOwnershipRequest:
		return artworkTitle(artwork), s.transferOwnership(ctx, tx, grant, request.RequestedBy, uuidPtr(request.ID))
	case domain.RequestTypeProvenanceUpdate:
		patch, err := domain.ParseProvenancePatch(request.UpdateFields)
		if err != nil {
			return "", err
		}
		title := titleAfter(artwork, patch)
		// the requester is notified separately, so the owner notification is suppressed
		return title, s.applyProvenance(ctx, tx, grant, patch, applyOptions{
			requestID: uuidPtr(request.ID),
			title:     title,
		}, nil)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRequestType, request.RequestType)
	}
}

package provenance

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/notification"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

const untitled = "Untitled"

func artworkTitle(artwork *schema.Artwork) string {
	if artwork == nil || artwork.Title == nil || *artwork.Title == "" {
		return untitled
	}
	return *artwork.Title
}

// titleAfter returns the artwork title as it will read once patch is applied
func titleAfter(artwork *schema.Artwork, patch domain.ProvenancePatch) string {
	v, ok := patch.Get(domain.FieldTitle)
	if !ok {
		return artworkTitle(artwork)
	}
	if v.Text == nil {
		return untitled
	}
	return *v.Text
}

func displayName(account *schema.Account) string {
	if account == nil || account.DisplayName == "" {
		return "Someone"
	}
	return account.DisplayName
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

// requestReceived is sent to the owner when a request is submitted
func requestReceived(artwork *schema.Artwork, request *schema.ProvenanceUpdateRequest, requester *schema.Account) notification.Input {
	n := notification.Input{
		UserID:        artwork.AccountID,
		ArtworkID:     uuidPtr(artwork.ID),
		RelatedUserID: uuidPtr(request.RequestedBy),
		Metadata: map[string]any{
			"request_id":   request.ID.String(),
			"request_type": string(request.RequestType),
			"link":         domain.REVIEW_REQUESTS_PATH,
		},
	}
	if request.RequestMessage != nil {
		n.Metadata["request_message"] = *request.RequestMessage
	}

	switch request.RequestType {
	case domain.RequestTypeOwnershipRequest:
		n.Type = domain.NotificationTypeOwnershipRequestReceived
		n.Title = "New ownership request"
		n.Message = fmt.Sprintf("%s has requested ownership of %q", displayName(requester), artworkTitle(artwork))
	default:
		n.Type = domain.NotificationTypeProvenanceRequestReceived
		n.Title = "New provenance update request"
		n.Message = fmt.Sprintf("%s has proposed changes to the provenance of %q", displayName(requester), artworkTitle(artwork))
	}
	return n
}

// requestResolved is sent to the requester once the owner responds. title is the
// artwork title after the response took effect.
func requestResolved(artwork *schema.Artwork, title string, request *schema.ProvenanceUpdateRequest, action domain.ReviewAction) notification.Input {
	n := notification.Input{
		UserID:        request.RequestedBy,
		ArtworkID:     uuidPtr(artwork.ID),
		RelatedUserID: uuidPtr(artwork.AccountID),
		Metadata: map[string]any{
			"request_id":   request.ID.String(),
			"request_type": string(request.RequestType),
			"link":         fmt.Sprintf(domain.ARTWORK_DETAIL_PATH, artwork.ID),
			"request_link": fmt.Sprintf(domain.SUBMITTED_REQUEST_PATH, request.ID),
		},
	}
	if request.ReviewMessage != nil {
		n.Metadata["review_message"] = *request.ReviewMessage
	}

	switch {
	case action == domain.ReviewActionDeny:
		n.Type = domain.NotificationTypeRequestDenied
		n.Title = "Request denied"
		n.Message = fmt.Sprintf("Your request for %q was denied", title)
	case request.RequestType == domain.RequestTypeOwnershipRequest:
		n.Type = domain.NotificationTypeOwnershipRequestApproved
		n.Title = "Ownership request approved"
		n.Message = fmt.Sprintf("You are now the owner of %q", title)
	default:
		n.Type = domain.NotificationTypeProvenanceRequestApproved
		n.Title = "Provenance update approved"
		n.Message = fmt.Sprintf("Your update to %q was applied", title)
	}
	return n
}

// artworkUpdated is sent to the owner after a direct provenance edit
func artworkUpdated(grant OwnerGrant, title string, patch domain.ProvenancePatch) notification.Input {
	fields := make([]string, 0, patch.Len())
	for _, f := range patch.Fields() {
		fields = append(fields, string(f))
	}

	return notification.Input{
		UserID:    grant.Owner(),
		Type:      domain.NotificationTypeArtworkUpdated,
		Title:     "Artwork updated",
		Message:   fmt.Sprintf("The provenance of %q was updated", title),
		ArtworkID: uuidPtr(grant.ArtworkID()),
		Metadata: map[string]any{
			"fields": fields,
			"link":   fmt.Sprintf(domain.ARTWORK_DETAIL_PATH, grant.ArtworkID()),
		},
	}
}

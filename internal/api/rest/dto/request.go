package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// SubmitRequestRequest represents the request body for proposing a change to an artwork
type SubmitRequestRequest struct {
	RequestType  domain.RequestType     `json:"request_type"`
	UpdateFields domain.ProvenancePatch `json:"update_fields"`
	Message      *string                `json:"message,omitempty"`
}

// RespondToRequestRequest represents the owner's review
type RespondToRequestRequest struct {
	Action        string  `json:"action"`
	ReviewMessage *string `json:"review_message,omitempty"`
}

// RequestResponse represents a provenance update request
type RequestResponse struct {
	ID             uuid.UUID            `json:"id"`
	ArtworkID      uuid.UUID            `json:"artwork_id"`
	RequestedBy    uuid.UUID            `json:"requested_by"`
	RequestType    domain.RequestType   `json:"request_type"`
	UpdateFields   json.RawMessage      `json:"update_fields"`
	RequestMessage *string              `json:"request_message,omitempty"`
	Status         domain.RequestStatus `json:"status"`
	ReviewedBy     *uuid.UUID           `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time           `json:"reviewed_at,omitempty"`
	ReviewMessage  *string              `json:"review_message,omitempty"`
	RequestedAt    time.Time            `json:"requested_at"`
}

// RequestSummaryResponse is a request with its artwork and requester presentation data
type RequestSummaryResponse struct {
	RequestResponse
	Artwork   RequestArtwork   `json:"artwork"`
	Requester RequestRequester `json:"requester"`
}

// RequestArtwork is the artwork shown next to a request
type RequestArtwork struct {
	OwnerID      uuid.UUID `json:"owner_id"`
	Title        *string   `json:"title"`
	ThumbnailURL *string   `json:"thumbnail_url"`
}

// RequestRequester is the requester shown next to a request
type RequestRequester struct {
	DisplayName *string `json:"display_name"`
}

// RequestListResponse represents a list of requests
type RequestListResponse struct {
	Items []RequestSummaryResponse `json:"items"`
}

// MapRequestToDTO maps a schema.ProvenanceUpdateRequest to RequestResponse
func MapRequestToDTO(r *schema.ProvenanceUpdateRequest) *RequestResponse {
	return &RequestResponse{
		ID:             r.ID,
		ArtworkID:      r.ArtworkID,
		RequestedBy:    r.RequestedBy,
		RequestType:    r.RequestType,
		UpdateFields:   updateFields(r.UpdateFields),
		RequestMessage: r.RequestMessage,
		Status:         r.Status,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     r.ReviewedAt,
		ReviewMessage:  r.ReviewMessage,
		RequestedAt:    r.RequestedAt,
	}
}

// MapRequestSummaryToDTO maps a store.RequestSummary to RequestSummaryResponse
func MapRequestSummaryToDTO(r *store.RequestSummary) *RequestSummaryResponse {
	return &RequestSummaryResponse{
		RequestResponse: RequestResponse{
			ID:             r.ID,
			ArtworkID:      r.ArtworkID,
			RequestedBy:    r.RequestedBy,
			RequestType:    r.RequestType,
			UpdateFields:   updateFields(r.UpdateFields),
			RequestMessage: r.RequestMessage,
			Status:         r.Status,
			ReviewedBy:     r.ReviewedBy,
			ReviewedAt:     r.ReviewedAt,
			ReviewMessage:  r.ReviewMessage,
			RequestedAt:    r.RequestedAt,
		},
		Artwork: RequestArtwork{
			OwnerID:      r.ArtworkOwnerID,
			Title:        r.ArtworkTitle,
			ThumbnailURL: r.ArtworkThumbnailURL,
		},
		Requester: RequestRequester{
			DisplayName: r.RequesterDisplayName,
		},
	}
}

// MapRequestSummariesToDTO maps a list of summaries
func MapRequestSummariesToDTO(rows []store.RequestSummary) *RequestListResponse {
	items := make([]RequestSummaryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *MapRequestSummaryToDTO(&rows[i]))
	}
	return &RequestListResponse{Items: items}
}

func updateFields(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(raw)
}

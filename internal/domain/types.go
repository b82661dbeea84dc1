package domain

import "fmt"

// RequestType represents the kind of change a non-owner proposes for an artwork
type RequestType string

const (
	// RequestTypeProvenanceUpdate proposes field-level changes to the provenance record
	RequestTypeProvenanceUpdate RequestType = "provenance_update"
	// RequestTypeOwnershipRequest proposes that the artwork be transferred to the requester
	RequestTypeOwnershipRequest RequestType = "ownership_request"
)

// Valid checks if the request type is one of the known types
func (t RequestType) Valid() bool {
	return t == RequestTypeProvenanceUpdate || t == RequestTypeOwnershipRequest
}

// RequestStatus represents the lifecycle state of a provenance update request
type RequestStatus string

const (
	// RequestStatusPending is the initial state, awaiting review by the artwork owner
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved is terminal; the proposed change was applied
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusDenied is terminal; the artwork was not mutated
	RequestStatusDenied RequestStatus = "denied"
)

// Terminal reports whether no further transition is possible from this status
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusDenied
}

// ReviewAction represents the owner's decision on a pending request
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionDeny    ReviewAction = "deny"
)

// Valid checks if the review action is known
func (a ReviewAction) Valid() bool {
	return a == ReviewActionApprove || a == ReviewActionDeny
}

// ResultingStatus returns the terminal status a pending request moves to under this action
func (a ReviewAction) ResultingStatus() RequestStatus {
	if a == ReviewActionApprove {
		return RequestStatusApproved
	}
	return RequestStatusDenied
}

// ParseReviewAction parses a review action from user input
func ParseReviewAction(s string) (ReviewAction, error) {
	a := ReviewAction(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReviewAction, s)
	}
	return a, nil
}

// NotificationType represents the category of a user notification
type NotificationType string

const (
	NotificationTypeProvenanceRequestReceived NotificationType = "provenance_request_received"
	NotificationTypeOwnershipRequestReceived  NotificationType = "ownership_request_received"
	NotificationTypeProvenanceRequestApproved NotificationType = "provenance_request_approved"
	NotificationTypeOwnershipRequestApproved  NotificationType = "ownership_request_approved"
	NotificationTypeRequestDenied             NotificationType = "request_denied"
	NotificationTypeArtworkUpdated            NotificationType = "artwork_updated"
)

// Subject returns the message broker subject a notification of this type is published on
// Format: notifications.{type}
func (t NotificationType) Subject() string {
	return fmt.Sprintf("%s.%s", NOTIFICATION_SUBJECT_PREFIX, t)
}

// NotificationEvent is the message published to the broker for every notification row
type NotificationEvent struct {
	NotificationID string           `json:"notification_id"`
	UserID         string           `json:"user_id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	ArtworkID      *string          `json:"artwork_id,omitempty"`
	RelatedUserID  *string          `json:"related_user_id,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	CreatedAt      string           `json:"created_at"`
}

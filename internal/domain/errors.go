package domain

import "errors"

var (
	// ErrAuthenticationRequired is returned when an operation needs a caller identity and none is present
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrArtworkNotFound is returned when the referenced artwork does not exist
	ErrArtworkNotFound = errors.New("artwork not found")

	// ErrRequestNotFound is returned when the referenced request does not exist or is not visible to the caller
	ErrRequestNotFound = errors.New("request not found")

	// ErrNotificationNotFound is returned when a notification does not exist for the caller
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrIsOwner is returned when the current owner submits a request for their own artwork
	ErrIsOwner = errors.New("you already own this artwork")

	// ErrNotArtworkOwner is returned when the caller is not the artwork's current owner
	ErrNotArtworkOwner = errors.New("only the current owner can perform this action")

	// ErrDuplicatePendingRequest is returned when the requester already has a pending request for the artwork
	ErrDuplicatePendingRequest = errors.New("a pending request for this artwork already exists")

	// ErrRequestAlreadyProcessed is returned when responding to a request that is no longer pending
	ErrRequestAlreadyProcessed = errors.New("request has already been processed")

	// ErrInvalidPatch is returned when proposed provenance fields do not match the artwork schema
	ErrInvalidPatch = errors.New("invalid provenance fields")

	// ErrInvalidRequestType is returned for an unknown request type
	ErrInvalidRequestType = errors.New("invalid request type")

	// ErrInvalidReviewAction is returned for an unknown review action
	ErrInvalidReviewAction = errors.New("invalid review action")

	// ErrInvalidProfile is returned when a profile update is missing its display name
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrInvalidWebhookClient is returned when a webhook client registration is malformed
	ErrInvalidWebhookClient = errors.New("invalid webhook client")
)

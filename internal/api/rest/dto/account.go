package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// UpdateProfileRequest represents the request body for updating the caller's profile
type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// AccountResponse represents a public profile
type AccountResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapAccountToDTO maps a schema.Account to AccountResponse
func MapAccountToDTO(a *schema.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
		CreatedAt:   a.CreatedAt,
	}
}

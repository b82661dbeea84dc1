package dto

import (
	"encoding/json"
	"time"

	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// CreateWebhookClientRequest represents the request body for creating a webhook client
type CreateWebhookClientRequest struct {
	WebhookURL       string   `json:"webhook_url"`
	EventFilters     []string `json:"event_filters"`
	RetryMaxAttempts *int     `json:"retry_max_attempts,omitempty"`
}

// CreateWebhookClientResponse represents the response for creating a webhook client.
// This is the only response that carries the signing secret.
type CreateWebhookClientResponse struct {
	ClientID         string    `json:"client_id"`
	WebhookURL       string    `json:"webhook_url"`
	WebhookSecret    string    `json:"webhook_secret"`
	EventFilters     []string  `json:"event_filters"`
	IsActive         bool      `json:"is_active"`
	RetryMaxAttempts int       `json:"retry_max_attempts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MapWebhookClientToDTO maps a schema.WebhookClient to CreateWebhookClientResponse
func MapWebhookClientToDTO(c *schema.WebhookClient) (*CreateWebhookClientResponse, error) {
	var filters []string
	if len(c.EventFilters) > 0 {
		if err := json.Unmarshal(c.EventFilters, &filters); err != nil {
			return nil, err
		}
	}

	return &CreateWebhookClientResponse{
		ClientID:         c.ClientID,
		WebhookURL:       c.WebhookURL,
		WebhookSecret:    c.WebhookSecret,
		EventFilters:     filters,
		IsActive:         c.IsActive,
		RetryMaxAttempts: c.RetryMaxAttempts,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}, nil
}

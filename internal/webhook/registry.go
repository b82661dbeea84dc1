package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

const (
	// DEFAULT_RETRY_MAX_ATTEMPTS is used when a client does not choose its own retry budget
	DEFAULT_RETRY_MAX_ATTEMPTS = 5
	// MAX_RETRY_MAX_ATTEMPTS caps the retry budget a client may request
	MAX_RETRY_MAX_ATTEMPTS = 10

	secretBytes = 32
)

// SupportedEventTypes lists the notification types a webhook client can subscribe to
var SupportedEventTypes = []string{
	EventTypeWildcard,
	string(domain.NotificationTypeProvenanceRequestReceived),
	string(domain.NotificationTypeOwnershipRequestReceived),
	string(domain.NotificationTypeProvenanceRequestApproved),
	string(domain.NotificationTypeOwnershipRequestApproved),
	string(domain.NotificationTypeRequestDenied),
	string(domain.NotificationTypeArtworkUpdated),
}

// IsValidEventType checks if the event type can be used as a webhook filter
func IsValidEventType(eventType string) bool {
	return slices.Contains(SupportedEventTypes, eventType)
}

// RegisterClientInput represents a webhook client registration
type RegisterClientInput struct {
	WebhookURL   string
	EventFilters []string
	// RetryMaxAttempts defaults to DEFAULT_RETRY_MAX_ATTEMPTS when nil
	RetryMaxAttempts *int
	// AllowInsecureURL accepts plain http endpoints (local development)
	AllowInsecureURL bool
}

// Registry manages external systems subscribed to notification events
//
//go:generate mockgen -source=registry.go -destination=../mocks/webhook_registry.go -package=mocks -mock_names=Registry=MockWebhookRegistry
type Registry interface {
	// RegisterClient creates an active client with a freshly generated signing secret.
	// The secret is only ever returned here.
	RegisterClient(ctx context.Context, input RegisterClientInput) (*schema.WebhookClient, error)
}

type registry struct {
	store store.Store
}

// NewRegistry creates a webhook client registry
func NewRegistry(st store.Store) Registry {
	return &registry{store: st}
}

// RegisterClient validates the registration and stores the client
func (r *registry) RegisterClient(ctx context.Context, input RegisterClientInput) (*schema.WebhookClient, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	retryMaxAttempts := DEFAULT_RETRY_MAX_ATTEMPTS
	if input.RetryMaxAttempts != nil {
		retryMaxAttempts = *input.RetryMaxAttempts
	}

	filters, err := json.Marshal(input.EventFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event filters: %w", err)
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	client, err := r.store.CreateWebhookClient(ctx, store.CreateWebhookClientInput{
		ClientID:         uuid.NewString(),
		WebhookURL:       input.WebhookURL,
		WebhookSecret:    secret,
		EventFilters:     filters,
		IsActive:         true,
		RetryMaxAttempts: retryMaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Registered webhook client",
		zap.String("clientID", client.ClientID),
		zap.Strings("eventFilters", input.EventFilters))

	return client, nil
}

func validateRegistration(input RegisterClientInput) error {
	if input.WebhookURL == "" {
		return fmt.Errorf("%w: webhook_url is required", domain.ErrInvalidWebhookClient)
	}

	u, err := url.Parse(input.WebhookURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: webhook_url must be a valid URL", domain.ErrInvalidWebhookClient)
	}
	if u.Scheme != "https" && (!input.AllowInsecureURL || u.Scheme != "http") {
		return fmt.Errorf("%w: webhook_url must be a valid HTTPS URL", domain.ErrInvalidWebhookClient)
	}

	if len(input.EventFilters) == 0 {
		return fmt.Errorf("%w: event_filters is required and must not be empty", domain.ErrInvalidWebhookClient)
	}
	for _, eventType := range input.EventFilters {
		if !IsValidEventType(eventType) {
			return fmt.Errorf("%w: unsupported event type: %s. Supported types: %v",
				domain.ErrInvalidWebhookClient, eventType, SupportedEventTypes)
		}
	}

	if input.RetryMaxAttempts != nil {
		if *input.RetryMaxAttempts < 1 || *input.RetryMaxAttempts > MAX_RETRY_MAX_ATTEMPTS {
			return fmt.Errorf("%w: retry_max_attempts must be between 1 and %d",
				domain.ErrInvalidWebhookClient, MAX_RETRY_MAX_ATTEMPTS)
		}
	}

	return nil
}

// generateSecret returns a hex-encoded random signing key
func generateSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

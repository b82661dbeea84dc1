package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// pendingRequestIndex is the partial unique index guarding one pending request per (artwork, requester)
const pendingRequestIndex = "idx_provenance_update_requests_one_pending"

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// primary returns a handle that reads from the primary when a read replica is configured
func (s *pgStore) primary(ctx context.Context) *gorm.DB {
	db := s.db.WithContext(ctx)
	if hasDBResolver(s.db) {
		return db.Clauses(dbresolver.Write)
	}
	return db
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// RegisterReadReplica routes reads to the replica at replicaDSN. Writes, transactions and
// reads that must observe the latest state stay on the primary.
func RegisterReadReplica(db *gorm.DB, replicaDSN string) error {
	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replica: %w", err)
	}
	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// MaxIdleConns never exceeds MaxOpenConns.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// isUniqueViolation reports whether err is a unique constraint violation on the given constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// WithTransaction runs fn inside a database transaction
func (s *pgStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// =============================================================================
// Accounts
// =============================================================================

// GetAccountByID retrieves an account profile by its ID
func (s *pgStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*schema.Account, error) {
	var account schema.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// UpsertAccount creates or refreshes an account profile
func (s *pgStore) UpsertAccount(ctx context.Context, input UpsertAccountInput) (*schema.Account, error) {
	account := schema.Account{
		ID:          input.ID,
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url"}),
		}).
		Create(&account).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	return &account, nil
}

// =============================================================================
// Artworks
// =============================================================================

// GetArtworkByID retrieves an artwork by its ID
func (s *pgStore) GetArtworkByID(ctx context.Context, id uuid.UUID) (*schema.Artwork, error) {
	var artwork schema.Artwork
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&artwork).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}
	return &artwork, nil
}

// CreateArtwork registers a new artwork
func (s *pgStore) CreateArtwork(ctx context.Context, input CreateArtworkInput) (*schema.Artwork, error) {
	id := uuid.New()
	values := map[string]any{
		"id":            id,
		"account_id":    input.OwnerID,
		"image_url":     input.ImageURL,
		"thumbnail_url": input.ThumbnailURL,
		"created_at":    input.CreatedAt,
		"updated_at":    input.CreatedAt,
	}
	for column, value := range input.Columns {
		if value == nil {
			continue
		}
		values[column] = value
	}

	var artwork schema.Artwork
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&schema.Artwork{}).Create(values).Error; err != nil {
			return fmt.Errorf("failed to create artwork: %w", err)
		}
		if err := tx.Where("id = ?", id).First(&artwork).Error; err != nil {
			return fmt.Errorf("failed to load created artwork: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &artwork, nil
}

// UpdateArtworkProvenance writes provenance columns conditioned on the current owner
func (s *pgStore) UpdateArtworkProvenance(ctx context.Context, input UpdateArtworkProvenanceInput) (bool, error) {
	updates := make(map[string]any, len(input.Columns)+1)
	for column, value := range input.Columns {
		updates[column] = value
	}
	updates["updated_at"] = input.UpdatedAt

	result := s.db.WithContext(ctx).
		Model(&schema.Artwork{}).
		Where("id = ? AND account_id = ?", input.ArtworkID, input.OwnerID).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update artwork provenance: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// TransferArtworkOwnership reassigns the artwork conditioned on the current owner
func (s *pgStore) TransferArtworkOwnership(ctx context.Context, input TransferArtworkOwnershipInput) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Artwork{}).
		Where("id = ? AND account_id = ?", input.ArtworkID, input.FromOwnerID).
		Updates(map[string]any{
			"account_id": input.ToOwnerID,
			"updated_at": input.UpdatedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transfer artwork ownership: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// =============================================================================
// Provenance update requests
// =============================================================================

// HasPendingRequest checks whether the requester already has a pending request for the artwork.
// Reads from the primary so a request created moments ago is always seen.
func (s *pgStore) HasPendingRequest(ctx context.Context, artworkID, requesterID uuid.UUID) (bool, error) {
	var count int64
	err := s.primary(ctx).
		Model(&schema.ProvenanceUpdateRequest{}).
		Where("artwork_id = ? AND requested_by = ? AND status = ?", artworkID, requesterID, domain.RequestStatusPending).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return count > 0, nil
}

// CreateRequest inserts a pending request
func (s *pgStore) CreateRequest(ctx context.Context, input CreateRequestInput) (*schema.ProvenanceUpdateRequest, error) {
	updateFields := input.UpdateFields
	if len(updateFields) == 0 {
		updateFields = []byte("{}")
	}

	request := &schema.ProvenanceUpdateRequest{
		ID:             uuid.New(),
		ArtworkID:      input.ArtworkID,
		RequestedBy:    input.RequestedBy,
		RequestType:    input.RequestType,
		UpdateFields:   updateFields,
		RequestMessage: input.RequestMessage,
		Status:         domain.RequestStatusPending,
		RequestedAt:    input.RequestedAt,
	}

	err := s.db.WithContext(ctx).Omit("Artwork").Create(request).Error
	if err != nil {
		if isUniqueViolation(err, pendingRequestIndex) {
			return nil, domain.ErrDuplicatePendingRequest
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return request, nil
}

// GetRequestByID retrieves a request by its ID
func (s *pgStore) GetRequestByID(ctx context.Context, id uuid.UUID) (*schema.ProvenanceUpdateRequest, error) {
	var request schema.ProvenanceUpdateRequest
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

// requestSummaries builds the request listing query. Ownership comes from the
// artwork row at query time, never from the request.
func (s *pgStore) requestSummaries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("provenance_update_requests AS r").
		Select(`r.id, r.artwork_id, r.requested_by, r.request_type, r.update_fields, r.request_message,
			r.status, r.reviewed_by, r.reviewed_at, r.review_message, r.requested_at,
			a.account_id AS artwork_owner_id, a.title AS artwork_title, a.thumbnail_url AS artwork_thumbnail_url,
			acc.display_name AS requester_display_name`).
		Joins("JOIN artworks a ON a.id = r.artwork_id").
		Joins("LEFT JOIN accounts acc ON acc.id = r.requested_by")
}

// GetRequestSummaryByID retrieves a request joined with its artwork and requester
func (s *pgStore) GetRequestSummaryByID(ctx context.Context, id uuid.UUID) (*RequestSummary, error) {
	var rows []RequestSummary
	err := s.requestSummaries(ctx).
		Where("r.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get request summary: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListPendingRequestsForOwner lists pending requests on artworks currently owned by ownerID
func (s *pgStore) ListPendingRequestsForOwner(ctx context.Context, ownerID uuid.UUID) ([]RequestSummary, error) {
	rows := []RequestSummary{}
	err := s.requestSummaries(ctx).
		Where("r.status = ? AND a.account_id = ?", domain.RequestStatusPending, ownerID).
		Order("r.requested_at DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return rows, nil
}

// ListRequestsByRequester lists requests submitted by requesterID
func (s *pgStore) ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]RequestSummary, error) {
	rows := []RequestSummary{}
	err := s.requestSummaries(ctx).
		Where("r.requested_by = ?", requesterID).
		Order("r.requested_at DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted requests: %w", err)
	}
	return rows, nil
}

// TransitionRequest moves a pending request to a terminal status in a single conditional update
func (s *pgStore) TransitionRequest(ctx context.Context, input TransitionRequestInput) (bool, error) {
	if !input.Status.Terminal() {
		return false, fmt.Errorf("invalid target status: %s", input.Status)
	}

	result := s.db.WithContext(ctx).
		Model(&schema.ProvenanceUpdateRequest{}).
		Where("id = ? AND status = ?", input.RequestID, domain.RequestStatusPending).
		Updates(map[string]any{
			"status":         input.Status,
			"reviewed_by":    input.ReviewedBy,
			"reviewed_at":    input.ReviewedAt,
			"review_message": input.ReviewMessage,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition request: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// =============================================================================
// Changes journal
// =============================================================================

// CreateChangesJournal appends an entry to the changes journal
func (s *pgStore) CreateChangesJournal(ctx context.Context, input CreateChangesJournalInput) error {
	entry := &schema.ChangesJournal{
		SubjectType: input.SubjectType,
		SubjectID:   input.SubjectID,
		ActorID:     input.ActorID,
		RequestID:   input.RequestID,
		ChangedAt:   input.ChangedAt,
		Meta:        input.Meta,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create changes journal: %w", err)
	}
	return nil
}

// ListArtworkHistory lists journal entries for an artwork, newest first
func (s *pgStore) ListArtworkHistory(ctx context.Context, artworkID uuid.UUID, limit int, offset uint64) ([]schema.ChangesJournal, uint64, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.ChangesJournal{}).
		Where("subject_id = ?", artworkID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count artwork history: %w", err)
	}

	entries := []schema.ChangesJournal{}
	err := query.
		Order("\"cursor\" DESC").
		Limit(limit).
		Offset(int(offset)). //nolint:gosec,G115
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artwork history: %w", err)
	}

	return entries, uint64(total), nil //nolint:gosec,G115
}

// =============================================================================
// Notifications
// =============================================================================

// CreateNotification inserts a notification row
func (s *pgStore) CreateNotification(ctx context.Context, input CreateNotificationInput) (*schema.Notification, error) {
	notification := &schema.Notification{
		ID:            uuid.New(),
		UserID:        input.UserID,
		Type:          input.Type,
		Title:         input.Title,
		Message:       input.Message,
		ArtworkID:     input.ArtworkID,
		RelatedUserID: input.RelatedUserID,
		Metadata:      input.Metadata,
		CreatedAt:     input.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// ListNotifications lists a user's notifications, newest first
func (s *pgStore) ListNotifications(ctx context.Context, filter NotificationQueryFilter) ([]schema.Notification, uint64, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.Notification{}).
		Where("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		query = query.Where("NOT is_read")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	notifications := []schema.Notification{}
	err := query.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(int(filter.Offset)). //nolint:gosec,G115
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, uint64(total), nil //nolint:gosec,G115
}

// MarkNotificationRead marks a notification owned by userID as read. Already-read
// notifications keep their original read_at.
func (s *pgStore) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID, readAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]any{
			"is_read": true,
			"read_at": gorm.Expr("COALESCE(read_at, ?)", readAt),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// =============================================================================
// Webhooks
// =============================================================================

// GetActiveWebhookClientsByEventType retrieves active webhook clients that match the given event type
func (s *pgStore) GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error) {
	var clients []*schema.WebhookClient

	// JSONB containment: the filter array holds the event type or the wildcard
	err := s.db.WithContext(ctx).
		Where("is_active").
		Where("event_filters @> ?::jsonb OR event_filters @> ?::jsonb",
			fmt.Sprintf(`["%s"]`, eventType),
			`["*"]`).
		Find(&clients).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get webhook clients by event type: %w", err)
	}

	return clients, nil
}

// GetWebhookClientByID retrieves a webhook client by client ID
func (s *pgStore) GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error) {
	var client schema.WebhookClient
	err := s.db.WithContext(ctx).Where("client_id = ?", clientID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook client: %w", err)
	}
	return &client, nil
}

// CreateWebhookClient creates a new webhook client
func (s *pgStore) CreateWebhookClient(ctx context.Context, input CreateWebhookClientInput) (*schema.WebhookClient, error) {
	now := time.Now()
	client := &schema.WebhookClient{
		ClientID:         input.ClientID,
		WebhookURL:       input.WebhookURL,
		WebhookSecret:    input.WebhookSecret,
		EventFilters:     input.EventFilters,
		IsActive:         input.IsActive,
		RetryMaxAttempts: input.RetryMaxAttempts,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.db.WithContext(ctx).Create(client).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return client, nil
}

// CreateWebhookDelivery creates a new webhook delivery record.
// A redelivered event for the same client keeps its existing row, which is loaded into delivery.
func (s *pgStore) CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}, clause.Returning{}).
		Create(delivery).Error
	if err != nil {
		return fmt.Errorf("failed to create webhook delivery: %w", err)
	}
	return nil
}

// UpdateWebhookDeliveryStatus updates the status and result of a webhook delivery
func (s *pgStore) UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error {
	now := time.Now()
	updates := map[string]any{
		"delivery_status": status,
		"attempts":        attempts,
		"response_body":   responseBody,
		"last_attempt_at": now,
		"updated_at":      now,
	}

	if responseStatus != nil {
		updates["response_status"] = *responseStatus
	}
	if errorMessage != "" {
		if len(errorMessage) > 1024 {
			errorMessage = errorMessage[:1024]
		}
		updates["error_message"] = errorMessage
	}

	err := s.db.WithContext(ctx).
		Model(&schema.WebhookDelivery{}).
		Where("id = ?", deliveryID).
		Updates(updates).Error

	if err != nil {
		return fmt.Errorf("failed to update webhook delivery status: %w", err)
	}

	return nil
}

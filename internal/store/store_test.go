package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func strPtr(s string) *string {
	return &s
}

// createTestAccount registers an account profile
func createTestAccount(t *testing.T, store Store, name string) uuid.UUID {
	t.Helper()
	account, err := store.UpsertAccount(context.Background(), UpsertAccountInput{
		ID:          uuid.New(),
		DisplayName: name,
	})
	require.NoError(t, err)
	return account.ID
}

// createTestArtwork registers an artwork with a title
func createTestArtwork(t *testing.T, store Store, ownerID uuid.UUID, title string) *schema.Artwork {
	t.Helper()
	artwork, err := store.CreateArtwork(context.Background(), CreateArtworkInput{
		OwnerID:      ownerID,
		ThumbnailURL: strPtr("https://cdn.example.com/thumb.jpg"),
		Columns: map[string]any{
			"title":  title,
			"medium": "Oil on canvas",
		},
		CreatedAt: now(),
	})
	require.NoError(t, err)
	return artwork
}

// createTestRequest submits a request
func createTestRequest(t *testing.T, store Store, artworkID, requesterID uuid.UUID, requestType domain.RequestType, fields string, requestedAt time.Time) *schema.ProvenanceUpdateRequest {
	t.Helper()
	request, err := store.CreateRequest(context.Background(), CreateRequestInput{
		ArtworkID:    artworkID,
		RequestedBy:  requesterID,
		RequestType:  requestType,
		UpdateFields: datatypes.JSON(fields),
		RequestedAt:  requestedAt,
	})
	require.NoError(t, err)
	return request
}

// =============================================================================
// Test: Accounts
// =============================================================================

func testAccounts(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("upsert refreshes display name", func(t *testing.T) {
		id := uuid.New()
		_, err := store.UpsertAccount(ctx, UpsertAccountInput{ID: id, DisplayName: "Alice"})
		require.NoError(t, err)
		_, err = store.UpsertAccount(ctx, UpsertAccountInput{ID: id, DisplayName: "Alice B.", AvatarURL: strPtr("https://cdn.example.com/a.png")})
		require.NoError(t, err)

		account, err := store.GetAccountByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "Alice B.", account.DisplayName)
		require.NotNil(t, account.AvatarURL)
	})

	t.Run("missing account returns nil", func(t *testing.T) {
		account, err := store.GetAccountByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, account)
	})
}

// =============================================================================
// Test: Artworks
// =============================================================================

func testArtworks(t *testing.T, store Store) {
	ctx := context.Background()
	alice := createTestAccount(t, store, "Alice")
	bob := createTestAccount(t, store, "Bob")

	t.Run("create and get", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Untitled")
		assert.NotEqual(t, uuid.Nil, artwork.ID)
		assert.Equal(t, alice, artwork.AccountID)
		require.NotNil(t, artwork.Title)
		assert.Equal(t, "Untitled", *artwork.Title)
		assert.Nil(t, artwork.Description)
		assert.False(t, artwork.ValuePublic)

		got, err := store.GetArtworkByID(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, artwork.ID, got.ID)
	})

	t.Run("missing artwork returns nil", func(t *testing.T) {
		got, err := store.GetArtworkByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("provenance update touches only given columns", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Before")

		updated, err := store.UpdateArtworkProvenance(ctx, UpdateArtworkProvenanceInput{
			ArtworkID: artwork.ID,
			OwnerID:   alice,
			Columns: map[string]any{
				"title":        "After",
				"medium":       nil,
				"value":        "$10,000",
				"value_public": true,
			},
			UpdatedAt: now(),
		})
		require.NoError(t, err)
		assert.True(t, updated)

		got, err := store.GetArtworkByID(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Title)
		assert.Equal(t, "After", *got.Title)
		assert.Nil(t, got.Medium)
		require.NotNil(t, got.Value)
		assert.Equal(t, "$10,000", *got.Value)
		assert.True(t, got.ValuePublic)
		require.NotNil(t, got.ThumbnailURL)
	})

	t.Run("provenance update is conditioned on owner", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Guarded")

		updated, err := store.UpdateArtworkProvenance(ctx, UpdateArtworkProvenanceInput{
			ArtworkID: artwork.ID,
			OwnerID:   bob,
			Columns:   map[string]any{"title": "Hijacked"},
			UpdatedAt: now(),
		})
		require.NoError(t, err)
		assert.False(t, updated)

		got, err := store.GetArtworkByID(ctx, artwork.ID)
		require.NoError(t, err)
		assert.Equal(t, "Guarded", *got.Title)
	})

	t.Run("ownership transfer is conditioned on current owner", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Traded")

		moved, err := store.TransferArtworkOwnership(ctx, TransferArtworkOwnershipInput{
			ArtworkID:   artwork.ID,
			FromOwnerID: alice,
			ToOwnerID:   bob,
			UpdatedAt:   now(),
		})
		require.NoError(t, err)
		assert.True(t, moved)

		// alice is no longer the owner
		moved, err = store.TransferArtworkOwnership(ctx, TransferArtworkOwnershipInput{
			ArtworkID:   artwork.ID,
			FromOwnerID: alice,
			ToOwnerID:   alice,
			UpdatedAt:   now(),
		})
		require.NoError(t, err)
		assert.False(t, moved)

		got, err := store.GetArtworkByID(ctx, artwork.ID)
		require.NoError(t, err)
		assert.Equal(t, bob, got.AccountID)
	})
}

// =============================================================================
// Test: Requests
// =============================================================================

func testRequests(t *testing.T, store Store) {
	ctx := context.Background()
	alice := createTestAccount(t, store, "Alice")
	bob := createTestAccount(t, store, "Bob")
	carol := createTestAccount(t, store, "Carol")

	t.Run("create request and detect pending", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Pending")

		pending, err := store.HasPendingRequest(ctx, artwork.ID, bob)
		require.NoError(t, err)
		assert.False(t, pending)

		request := createTestRequest(t, store, artwork.ID, bob, domain.RequestTypeProvenanceUpdate, `{"title":"New Title"}`, now())
		assert.Equal(t, domain.RequestStatusPending, request.Status)

		pending, err = store.HasPendingRequest(ctx, artwork.ID, bob)
		require.NoError(t, err)
		assert.True(t, pending)

		got, err := store.GetRequestByID(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.JSONEq(t, `{"title":"New Title"}`, string(got.UpdateFields))
		assert.Nil(t, got.ReviewedBy)
	})

	t.Run("ownership request stores empty fields", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Ownership")
		request := createTestRequest(t, store, artwork.ID, carol, domain.RequestTypeOwnershipRequest, "", now())

		got, err := store.GetRequestByID(ctx, request.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(got.UpdateFields))
	})

	t.Run("second pending request for the same pair conflicts", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Duplicate")
		createTestRequest(t, store, artwork.ID, bob, domain.RequestTypeOwnershipRequest, "", now())

		// the failed insert runs in a savepoint so the test transaction stays usable
		err := store.WithTransaction(ctx, func(tx Store) error {
			_, err := tx.CreateRequest(ctx, CreateRequestInput{
				ArtworkID:    artwork.ID,
				RequestedBy:  bob,
				RequestType:  domain.RequestTypeProvenanceUpdate,
				UpdateFields: datatypes.JSON(`{"title":"Again"}`),
				RequestedAt:  now(),
			})
			return err
		})
		assert.ErrorIs(t, err, domain.ErrDuplicatePendingRequest)
	})

	t.Run("transition happens exactly once", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Once")
		request := createTestRequest(t, store, artwork.ID, bob, domain.RequestTypeOwnershipRequest, "", now())

		input := TransitionRequestInput{
			RequestID:     request.ID,
			Status:        domain.RequestStatusDenied,
			ReviewedBy:    alice,
			ReviewedAt:    now(),
			ReviewMessage: strPtr("not for sale"),
		}
		ok, err := store.TransitionRequest(ctx, input)
		require.NoError(t, err)
		assert.True(t, ok)

		input.Status = domain.RequestStatusApproved
		ok, err = store.TransitionRequest(ctx, input)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := store.GetRequestByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusDenied, got.Status)
		require.NotNil(t, got.ReviewedBy)
		assert.Equal(t, alice, *got.ReviewedBy)
		require.NotNil(t, got.ReviewMessage)
		assert.Equal(t, "not for sale", *got.ReviewMessage)

		// a terminal request no longer blocks a new submission
		pending, err := store.HasPendingRequest(ctx, artwork.ID, bob)
		require.NoError(t, err)
		assert.False(t, pending)
		createTestRequest(t, store, artwork.ID, bob, domain.RequestTypeOwnershipRequest, "", now())
	})

	t.Run("transition rejects non-terminal status", func(t *testing.T) {
		_, err := store.TransitionRequest(ctx, TransitionRequestInput{
			RequestID:  uuid.New(),
			Status:     domain.RequestStatusPending,
			ReviewedBy: alice,
			ReviewedAt: now(),
		})
		assert.Error(t, err)
	})
}

// =============================================================================
// Test: Request listings
// =============================================================================

func testRequestListings(t *testing.T, store Store) {
	ctx := context.Background()
	owner := createTestAccount(t, store, "Owner")
	bob := createTestAccount(t, store, "Bob")
	carol := createTestAccount(t, store, "Carol")

	first := createTestArtwork(t, store, owner, "First")
	second := createTestArtwork(t, store, owner, "Second")

	base := now().Add(-time.Hour)
	older := createTestRequest(t, store, first.ID, bob, domain.RequestTypeProvenanceUpdate, `{"title":"Renamed"}`, base)
	newer := createTestRequest(t, store, second.ID, carol, domain.RequestTypeOwnershipRequest, "", base.Add(time.Minute))
	closed := createTestRequest(t, store, second.ID, bob, domain.RequestTypeOwnershipRequest, "", base.Add(2*time.Minute))
	ok, err := store.TransitionRequest(ctx, TransitionRequestInput{
		RequestID:  closed.ID,
		Status:     domain.RequestStatusDenied,
		ReviewedBy: owner,
		ReviewedAt: now(),
	})
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("pending requests for owner, newest first", func(t *testing.T) {
		rows, err := store.ListPendingRequestsForOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, newer.ID, rows[0].ID)
		assert.Equal(t, older.ID, rows[1].ID)

		assert.Equal(t, owner, rows[0].ArtworkOwnerID)
		require.NotNil(t, rows[0].ArtworkTitle)
		assert.Equal(t, "Second", *rows[0].ArtworkTitle)
		require.NotNil(t, rows[0].RequesterDisplayName)
		assert.Equal(t, "Carol", *rows[0].RequesterDisplayName)
		require.NotNil(t, rows[1].ArtworkThumbnailURL)
	})

	t.Run("ownership is derived at query time", func(t *testing.T) {
		moved, err := store.TransferArtworkOwnership(ctx, TransferArtworkOwnershipInput{
			ArtworkID:   first.ID,
			FromOwnerID: owner,
			ToOwnerID:   carol,
			UpdatedAt:   now(),
		})
		require.NoError(t, err)
		require.True(t, moved)

		rows, err := store.ListPendingRequestsForOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, newer.ID, rows[0].ID)

		rows, err = store.ListPendingRequestsForOwner(ctx, carol)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, older.ID, rows[0].ID)
	})

	t.Run("requests by requester include every status", func(t *testing.T) {
		rows, err := store.ListRequestsByRequester(ctx, bob)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, closed.ID, rows[0].ID)
		assert.Equal(t, domain.RequestStatusDenied, rows[0].Status)
		assert.Equal(t, older.ID, rows[1].ID)
	})

	t.Run("summary by id", func(t *testing.T) {
		summary, err := store.GetRequestSummaryByID(ctx, older.ID)
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, bob, summary.RequestedBy)
		assert.JSONEq(t, `{"title":"Renamed"}`, string(summary.UpdateFields))

		summary, err = store.GetRequestSummaryByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, summary)
	})

	t.Run("empty listing is not nil", func(t *testing.T) {
		rows, err := store.ListPendingRequestsForOwner(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testWithTransaction(t *testing.T, store Store) {
	ctx := context.Background()
	alice := createTestAccount(t, store, "Alice")
	bob := createTestAccount(t, store, "Bob")

	t.Run("error rolls back every write", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Atomic")
		request := createTestRequest(t, store, artwork.ID, bob, domain.RequestTypeOwnershipRequest, "", now())
		failure := errors.New("artwork write failed")

		err := store.WithTransaction(ctx, func(tx Store) error {
			ok, err := tx.TransitionRequest(ctx, TransitionRequestInput{
				RequestID:  request.ID,
				Status:     domain.RequestStatusApproved,
				ReviewedBy: alice,
				ReviewedAt: now(),
			})
			require.NoError(t, err)
			require.True(t, ok)
			return failure
		})
		assert.ErrorIs(t, err, failure)

		got, err := store.GetRequestByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, got.Status)
	})

	t.Run("nil commits", func(t *testing.T) {
		artwork := createTestArtwork(t, store, alice, "Committed")

		err := store.WithTransaction(ctx, func(tx Store) error {
			moved, err := tx.TransferArtworkOwnership(ctx, TransferArtworkOwnershipInput{
				ArtworkID:   artwork.ID,
				FromOwnerID: alice,
				ToOwnerID:   bob,
				UpdatedAt:   now(),
			})
			if err != nil {
				return err
			}
			require.True(t, moved)
			return tx.CreateChangesJournal(ctx, CreateChangesJournalInput{
				SubjectType: schema.SubjectTypeOwner,
				SubjectID:   artwork.ID,
				ActorID:     alice,
				ChangedAt:   now(),
			})
		})
		require.NoError(t, err)

		got, err := store.GetArtworkByID(ctx, artwork.ID)
		require.NoError(t, err)
		assert.Equal(t, bob, got.AccountID)
	})
}

// =============================================================================
// Test: Changes journal
// =============================================================================

func testArtworkHistory(t *testing.T, store Store) {
	ctx := context.Background()
	alice := createTestAccount(t, store, "Alice")
	artwork := createTestArtwork(t, store, alice, "Journaled")
	requestID := uuid.New()

	for i := 0; i < 3; i++ {
		meta, err := json.Marshal(schema.ProvenanceChangeMeta{Fields: map[string]any{"edition": i}})
		require.NoError(t, err)
		input := CreateChangesJournalInput{
			SubjectType: schema.SubjectTypeProvenance,
			SubjectID:   artwork.ID,
			ActorID:     alice,
			ChangedAt:   now(),
			Meta:        meta,
		}
		if i == 2 {
			input.RequestID = &requestID
		}
		require.NoError(t, store.CreateChangesJournal(ctx, input))
	}

	entries, total, err := store.ListArtworkHistory(ctx, artwork.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, entries, 2)
	assert.Greater(t, entries[0].Cursor, entries[1].Cursor)
	require.NotNil(t, entries[0].RequestID)
	assert.Equal(t, requestID, *entries[0].RequestID)

	entries, _, err = store.ListArtworkHistory(ctx, artwork.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].RequestID)
}

// =============================================================================
// Test: Notifications
// =============================================================================

func testNotifications(t *testing.T, store Store) {
	ctx := context.Background()
	bob := uuid.New()
	alice := uuid.New()
	artworkID := uuid.New()

	first, err := store.CreateNotification(ctx, CreateNotificationInput{
		UserID:        bob,
		Type:          domain.NotificationTypeProvenanceRequestApproved,
		Title:         "Update approved",
		Message:       "Your update was applied",
		ArtworkID:     &artworkID,
		RelatedUserID: &alice,
		Metadata:      datatypes.JSON(`{"request_id":"r1"}`),
		CreatedAt:     now().Add(-time.Minute),
	})
	require.NoError(t, err)
	second, err := store.CreateNotification(ctx, CreateNotificationInput{
		UserID:    bob,
		Type:      domain.NotificationTypeRequestDenied,
		Title:     "Request denied",
		Message:   "Your request was denied",
		CreatedAt: now(),
	})
	require.NoError(t, err)

	t.Run("list newest first", func(t *testing.T) {
		notifications, total, err := store.ListNotifications(ctx, NotificationQueryFilter{UserID: bob, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, notifications, 2)
		assert.Equal(t, second.ID, notifications[0].ID)
		assert.Equal(t, first.ID, notifications[1].ID)
		assert.JSONEq(t, `{"request_id":"r1"}`, string(notifications[1].Metadata))
	})

	t.Run("mark read is scoped to the recipient", func(t *testing.T) {
		ok, err := store.MarkNotificationRead(ctx, alice, first.ID, now())
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.MarkNotificationRead(ctx, bob, first.ID, now())
		require.NoError(t, err)
		assert.True(t, ok)

		unread, total, err := store.ListNotifications(ctx, NotificationQueryFilter{UserID: bob, UnreadOnly: true, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, unread, 1)
		assert.Equal(t, second.ID, unread[0].ID)
	})
}

// =============================================================================
// Test: Webhooks
// =============================================================================

func testWebhooks(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.CreateWebhookClient(ctx, CreateWebhookClientInput{
		ClientID:         "client-all-events",
		WebhookURL:       "https://webhook.example.com/all",
		WebhookSecret:    "736563726574",
		EventFilters:     datatypes.JSON(`["*"]`),
		IsActive:         true,
		RetryMaxAttempts: 5,
	})
	require.NoError(t, err)
	_, err = store.CreateWebhookClient(ctx, CreateWebhookClientInput{
		ClientID:         "client-requests",
		WebhookURL:       "https://webhook.example.com/requests",
		WebhookSecret:    "736563726574",
		EventFilters:     datatypes.JSON(`["ownership_request_received"]`),
		IsActive:         true,
		RetryMaxAttempts: 3,
	})
	require.NoError(t, err)
	_, err = store.CreateWebhookClient(ctx, CreateWebhookClientInput{
		ClientID:         "client-inactive",
		WebhookURL:       "https://webhook.example.com/inactive",
		WebhookSecret:    "736563726574",
		EventFilters:     datatypes.JSON(`["*"]`),
		IsActive:         false,
		RetryMaxAttempts: 3,
	})
	require.NoError(t, err)

	clientIDs := func(clients []*schema.WebhookClient) []string {
		ids := make([]string, 0, len(clients))
		for _, c := range clients {
			ids = append(ids, c.ClientID)
		}
		return ids
	}

	t.Run("filters match type or wildcard", func(t *testing.T) {
		clients, err := store.GetActiveWebhookClientsByEventType(ctx, "ownership_request_received")
		require.NoError(t, err)
		ids := clientIDs(clients)
		assert.Contains(t, ids, "client-all-events")
		assert.Contains(t, ids, "client-requests")
		assert.NotContains(t, ids, "client-inactive")

		clients, err = store.GetActiveWebhookClientsByEventType(ctx, "request_denied")
		require.NoError(t, err)
		ids = clientIDs(clients)
		assert.Contains(t, ids, "client-all-events")
		assert.NotContains(t, ids, "client-requests")
	})

	t.Run("get client by id", func(t *testing.T) {
		client, err := store.GetWebhookClientByID(ctx, "client-requests")
		require.NoError(t, err)
		require.NotNil(t, client)
		assert.Equal(t, 3, client.RetryMaxAttempts)

		client, err = store.GetWebhookClientByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("delivery lifecycle", func(t *testing.T) {
		delivery := &schema.WebhookDelivery{
			ClientID:       "client-all-events",
			EventID:        "01JG8XAMPLE0000000000000001",
			EventType:      "request_denied",
			NotificationID: uuid.NewString(),
			Payload:        datatypes.JSON(`{"event_id":"01JG8XAMPLE0000000000000001"}`),
			DeliveryStatus: schema.WebhookDeliveryStatusPending,
		}
		require.NoError(t, store.CreateWebhookDelivery(ctx, delivery))
		require.NotZero(t, delivery.ID)

		// a redelivered event reuses the row
		again := &schema.WebhookDelivery{
			ClientID:       delivery.ClientID,
			EventID:        delivery.EventID,
			EventType:      delivery.EventType,
			NotificationID: delivery.NotificationID,
			Payload:        delivery.Payload,
			DeliveryStatus: schema.WebhookDeliveryStatusPending,
		}
		require.NoError(t, store.CreateWebhookDelivery(ctx, again))
		assert.Equal(t, delivery.ID, again.ID)

		status := 200
		err := store.UpdateWebhookDeliveryStatus(ctx, delivery.ID, schema.WebhookDeliveryStatusSuccess, 1, &status, `{"ok":true}`, "")
		assert.NoError(t, err)

		// the existing row's progress is loaded on redelivery
		redelivered := &schema.WebhookDelivery{
			ClientID:       delivery.ClientID,
			EventID:        delivery.EventID,
			EventType:      delivery.EventType,
			NotificationID: delivery.NotificationID,
			Payload:        delivery.Payload,
			DeliveryStatus: schema.WebhookDeliveryStatusPending,
		}
		require.NoError(t, store.CreateWebhookDelivery(ctx, redelivered))
		assert.Equal(t, delivery.ID, redelivered.ID)
		assert.Equal(t, schema.WebhookDeliveryStatusSuccess, redelivered.DeliveryStatus)
		assert.Equal(t, 1, redelivered.Attempts)
		require.NotNil(t, redelivered.ResponseStatus)
		assert.Equal(t, 200, *redelivered.ResponseStatus)
	})
}

// =============================================================================
// Test Runner - runs all tests against a given store implementation
// =============================================================================

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Accounts", testAccounts},
		{"Artworks", testArtworks},
		{"Requests", testRequests},
		{"RequestListings", testRequestListings},
		{"WithTransaction", testWithTransaction},
		{"ArtworkHistory", testArtworkHistory},
		{"Notifications", testNotifications},
		{"Webhooks", testWebhooks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			tt.fn(t, store)
		})
	}
}

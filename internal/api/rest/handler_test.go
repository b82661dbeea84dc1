package rest_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/api/middleware"
	"github.com/feral-file/ff-provenance/internal/api/rest"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/mocks"
	"github.com/feral-file/ff-provenance/internal/provenance"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
	"github.com/feral-file/ff-provenance/internal/webhook"
)

const testAPIKey = "test-api-key"

var (
	alice     = uuid.MustParse("0b6f0d2c-3a53-4c59-9f0e-6d1d3b1a0a01")
	bob       = uuid.MustParse("0b6f0d2c-3a53-4c59-9f0e-6d1d3b1a0a02")
	artworkID = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	requestID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

type testAPI struct {
	ctrl          *gomock.Controller
	provenance    *mocks.MockProvenanceService
	notifications *mocks.MockNotificationService
	webhooks      *mocks.MockWebhookRegistry
	router        *gin.Engine
	signingKey    *rsa.PrivateKey
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	api := &testAPI{
		ctrl:          ctrl,
		provenance:    mocks.NewMockProvenanceService(ctrl),
		notifications: mocks.NewMockNotificationService(ctrl),
		webhooks:      mocks.NewMockWebhookRegistry(ctrl),
		signingKey:    key,
	}

	gin.SetMode(gin.TestMode)
	api.router = gin.New()
	auth := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
		APIKeys:      []string{testAPIKey},
	})
	rest.SetupRoutes(api.router, rest.NewHandler(false, api.provenance, api.notifications, api.webhooks), auth)

	return api
}

func (a *testAPI) token(t *testing.T, accountID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   accountID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(a.signingKey)
	require.NoError(t, err)
	return "Bearer " + token
}

func (a *testAPI) do(method, path, authHeader, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func strPtr(s string) *string {
	return &s
}

func TestHealthCheck(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	rec := api.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ff-provenance-api"}`, rec.Body.String())
}

func TestSubmitRequest(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().
		SubmitRequest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input provenance.SubmitRequestInput) (*schema.ProvenanceUpdateRequest, error) {
			assert.Equal(t, artworkID, input.ArtworkID)
			assert.Equal(t, bob, input.RequesterID)
			assert.Equal(t, domain.RequestTypeProvenanceUpdate, input.Type)
			assert.Equal(t, []domain.ArtworkField{domain.FieldTitle}, input.Fields.Fields())
			require.NotNil(t, input.Message)
			assert.Equal(t, "typo in the title", *input.Message)

			return &schema.ProvenanceUpdateRequest{
				ID:             requestID,
				ArtworkID:      artworkID,
				RequestedBy:    bob,
				RequestType:    input.Type,
				UpdateFields:   []byte(`{"title":"Harbor at Dusk"}`),
				RequestMessage: input.Message,
				Status:         domain.RequestStatusPending,
				RequestedAt:    fixedTime,
			}, nil
		})

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/artworks/%s/requests", artworkID), api.token(t, bob),
		`{"request_type":"provenance_update","update_fields":{"title":"Harbor at Dusk"},"message":"typo in the title"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, requestID.String(), body["id"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, map[string]any{"title": "Harbor at Dusk"}, body["update_fields"])
}

func TestSubmitRequest_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"duplicate pending request", domain.ErrDuplicatePendingRequest, http.StatusConflict, "conflict"},
		{"caller already owns artwork", domain.ErrIsOwner, http.StatusForbidden, "forbidden"},
		{"unknown artwork", domain.ErrArtworkNotFound, http.StatusNotFound, "not_found"},
		{"invalid request type", fmt.Errorf("%w: %q", domain.ErrInvalidRequestType, "gift"), http.StatusBadRequest, "validation_failed"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupTestAPI(t)
			defer api.ctrl.Finish()

			api.provenance.EXPECT().SubmitRequest(gomock.Any(), gomock.Any()).Return(nil, tt.serviceErr)

			rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/artworks/%s/requests", artworkID), api.token(t, bob),
				`{"request_type":"ownership_request"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}

func TestSubmitRequest_RequiresAccount(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/artworks/%s/requests", artworkID), "",
		`{"request_type":"ownership_request"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))
}

func TestSubmitRequest_InvalidPatch(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/artworks/%s/requests", artworkID), api.token(t, bob),
		`{"request_type":"provenance_update","update_fields":{"account_id":"someone-else"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", errorCode(t, rec))
}

func TestRespondToRequest(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	reviewedAt := fixedTime
	api.provenance.EXPECT().
		RespondToRequest(gomock.Any(), provenance.RespondInput{
			RequestID:     requestID,
			ReviewerID:    alice,
			Action:        domain.ReviewActionApprove,
			ReviewMessage: strPtr("thanks"),
		}).
		Return(&schema.ProvenanceUpdateRequest{
			ID:          requestID,
			ArtworkID:   artworkID,
			RequestedBy: bob,
			RequestType: domain.RequestTypeOwnershipRequest,
			Status:      domain.RequestStatusApproved,
			ReviewedBy:  &alice,
			ReviewedAt:  &reviewedAt,
			RequestedAt: fixedTime,
		}, nil)

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", requestID), api.token(t, alice),
		`{"action":"approve","review_message":"thanks"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "approved", body["status"])
	assert.Equal(t, alice.String(), body["reviewed_by"])
	assert.Equal(t, map[string]any{}, body["update_fields"])
}

func TestRespondToRequest_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"already processed", domain.ErrRequestAlreadyProcessed, http.StatusConflict, "conflict"},
		{"not the owner", domain.ErrNotArtworkOwner, http.StatusForbidden, "forbidden"},
		{"unknown request", domain.ErrRequestNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupTestAPI(t)
			defer api.ctrl.Finish()

			api.provenance.EXPECT().RespondToRequest(gomock.Any(), gomock.Any()).Return(nil, tt.serviceErr)

			rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", requestID), api.token(t, bob),
				`{"action":"deny"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestRespondToRequest_InvalidInput(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	rec := api.do(http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", requestID), api.token(t, alice),
		`{"action":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", errorCode(t, rec))

	rec = api.do(http.MethodPost, "/api/v1/requests/not-a-uuid/respond", api.token(t, alice), `{"action":"approve"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/v1/requests/%s/respond", requestID), api.token(t, alice), `{"action":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

func TestGetArtwork_AnonymousAndOwner(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	artwork := &schema.Artwork{
		ID:        artworkID,
		AccountID: alice,
		Title:     strPtr("Harbor at Dusk"),
		Value:     strPtr("12000 EUR"),
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
	redacted := *artwork
	redacted.Value = nil

	gomock.InOrder(
		api.provenance.EXPECT().GetArtwork(gomock.Any(), uuid.Nil, artworkID).Return(&redacted, nil),
		api.provenance.EXPECT().GetArtwork(gomock.Any(), alice, artworkID).Return(artwork, nil),
	)

	rec := api.do(http.MethodGet, fmt.Sprintf("/api/v1/artworks/%s", artworkID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, alice.String(), body["owner_id"])
	assert.Nil(t, body["value"])

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/artworks/%s", artworkID), api.token(t, alice), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "12000 EUR", body["value"])
}

func TestUpdateProvenance(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().
		UpdateProvenance(gomock.Any(), alice, artworkID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, patch domain.ProvenancePatch) (*schema.Artwork, error) {
			medium, ok := patch.Get(domain.FieldMedium)
			require.True(t, ok)
			assert.Nil(t, medium.Text)
			flag, ok := patch.Get(domain.FieldValuePublic)
			require.True(t, ok)
			assert.True(t, flag.Flag)
			return &schema.Artwork{ID: artworkID, AccountID: alice, ValuePublic: true}, nil
		})

	rec := api.do(http.MethodPatch, fmt.Sprintf("/api/v1/artworks/%s/provenance", artworkID), api.token(t, alice),
		`{"update_fields":{"medium":null,"value_public":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["value_public"])
}

func TestUpdateProvenance_WrongValueType(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	rec := api.do(http.MethodPatch, fmt.Sprintf("/api/v1/artworks/%s/provenance", artworkID), api.token(t, alice),
		`{"update_fields":{"title":42}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", errorCode(t, rec))
}

func TestBatchUpdateProvenance(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	other := uuid.MustParse("33333333-3333-4333-8333-333333333333")
	api.provenance.EXPECT().
		BatchUpdateProvenance(gomock.Any(), alice, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, items []provenance.BatchItem) (*provenance.BatchResult, error) {
			require.Len(t, items, 2)
			assert.Equal(t, artworkID, items[0].ArtworkID)
			assert.Equal(t, other, items[1].ArtworkID)
			return &provenance.BatchResult{
				Succeeded: 1,
				Errors:    []provenance.BatchItemError{{ArtworkID: other, Err: domain.ErrNotArtworkOwner}},
			}, nil
		})

	rec := api.do(http.MethodPost, "/api/v1/artworks/provenance/batch", api.token(t, alice), fmt.Sprintf(
		`{"items":[{"artwork_id":"%s","update_fields":{"title":"A"}},{"artwork_id":"%s","update_fields":{"title":"B"}}]}`,
		artworkID, other))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"succeeded":1,"errors":[{"artwork_id":"%s","error":"only the current owner can perform this action"}]}`, other),
		rec.Body.String())
}

func TestListArtworkHistory(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	rows := []schema.ChangesJournal{
		{Cursor: 9, SubjectType: schema.SubjectTypeOwner, SubjectID: artworkID, ActorID: alice, RequestID: &requestID, ChangedAt: fixedTime, Meta: []byte(`{"from":"a","to":"b"}`)},
		{Cursor: 8, SubjectType: schema.SubjectTypeProvenance, SubjectID: artworkID, ActorID: alice, ChangedAt: fixedTime},
	}
	api.provenance.EXPECT().ListArtworkHistory(gomock.Any(), uuid.Nil, artworkID, 2, uint64(0)).Return(rows, uint64(5), nil)

	rec := api.do(http.MethodGet, fmt.Sprintf("/api/v1/artworks/%s/history?limit=2", artworkID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []struct {
			Cursor      int64          `json:"cursor"`
			SubjectType string         `json:"subject_type"`
			Meta        map[string]any `json:"meta"`
		} `json:"items"`
		Offset *uint64 `json:"offset"`
		Total  uint64  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "owner", body.Items[0].SubjectType)
	assert.Equal(t, "b", body.Items[0].Meta["to"])
	require.NotNil(t, body.Offset)
	assert.Equal(t, uint64(2), *body.Offset)
	assert.Equal(t, uint64(5), body.Total)
}

func TestListArtworkHistory_ViewerIsPassedThrough(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().
		ListArtworkHistory(gomock.Any(), alice, artworkID, rest.DEFAULT_PAGE_SIZE, uint64(0)).
		Return([]schema.ChangesJournal{}, uint64(0), nil)

	rec := api.do(http.MethodGet, fmt.Sprintf("/api/v1/artworks/%s/history", artworkID), api.token(t, alice), "")
	require.Equal(t, http.StatusOK, rec.Code)

	// an invalid token is rejected instead of being treated as anonymous
	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/artworks/%s/history", artworkID), "Bearer not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPendingRequests(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().ListPendingRequestsForOwner(gomock.Any(), alice).Return([]store.RequestSummary{{
		ID:                   requestID,
		ArtworkID:            artworkID,
		RequestedBy:          bob,
		RequestType:          domain.RequestTypeOwnershipRequest,
		Status:               domain.RequestStatusPending,
		RequestedAt:          fixedTime,
		ArtworkOwnerID:       alice,
		ArtworkTitle:         strPtr("Harbor at Dusk"),
		RequesterDisplayName: strPtr("Bob"),
	}}, nil)

	rec := api.do(http.MethodGet, "/api/v1/requests/pending", api.token(t, alice), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []struct {
			ID      string `json:"id"`
			Artwork struct {
				Title string `json:"title"`
			} `json:"artwork"`
			Requester struct {
				DisplayName string `json:"display_name"`
			} `json:"requester"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, requestID.String(), body.Items[0].ID)
	assert.Equal(t, "Harbor at Dusk", body.Items[0].Artwork.Title)
	assert.Equal(t, "Bob", body.Items[0].Requester.DisplayName)
}

func TestListSubmittedRequests_Empty(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().ListSubmittedRequests(gomock.Any(), bob).Return(nil, nil)

	rec := api.do(http.MethodGet, "/api/v1/requests/submitted", api.token(t, bob), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestGetRequest(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().GetRequest(gomock.Any(), bob, requestID).Return(&store.RequestSummary{
		ID:          requestID,
		ArtworkID:   artworkID,
		RequestedBy: bob,
		Status:      domain.RequestStatusDenied,
		RequestedAt: fixedTime,
	}, nil)
	api.provenance.EXPECT().GetRequest(gomock.Any(), alice, requestID).Return(nil, domain.ErrRequestNotFound)

	rec := api.do(http.MethodGet, fmt.Sprintf("/api/v1/requests/%s", requestID), api.token(t, bob), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/requests/%s", requestID), api.token(t, alice), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	gomock.InOrder(
		api.provenance.EXPECT().UpdateProfile(gomock.Any(), bob, "Bob", nil).
			Return(&schema.Account{ID: bob, DisplayName: "Bob", CreatedAt: fixedTime}, nil),
		api.provenance.EXPECT().UpdateProfile(gomock.Any(), bob, " ", nil).
			Return(nil, fmt.Errorf("%w: display name is required", domain.ErrInvalidProfile)),
	)

	rec := api.do(http.MethodPut, "/api/v1/accounts/me", api.token(t, bob), `{"display_name":"Bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bob", body["display_name"])

	rec = api.do(http.MethodPut, "/api/v1/accounts/me", api.token(t, bob), `{"display_name":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", errorCode(t, rec))
}

func TestCreateArtwork(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.provenance.EXPECT().
		CreateArtwork(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input provenance.CreateArtworkInput) (*schema.Artwork, error) {
			assert.Equal(t, alice, input.OwnerID)
			assert.Equal(t, 1, input.Fields.Len())
			require.NotNil(t, input.ImageURL)
			return &schema.Artwork{ID: artworkID, AccountID: alice, Title: strPtr("Harbor at Dusk"), ImageURL: input.ImageURL}, nil
		})

	rec := api.do(http.MethodPost, "/api/v1/artworks", api.token(t, alice),
		`{"fields":{"title":"Harbor at Dusk"},"image_url":"https://cdn.example.com/a.jpg"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, artworkID.String(), body["id"])
	assert.Equal(t, "https://cdn.example.com/a.jpg", body["image_url"])
}

func TestNotifications(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	notificationID := uuid.MustParse("44444444-4444-4444-8444-444444444444")
	rows := []schema.Notification{{
		ID:        notificationID,
		UserID:    alice,
		Type:      domain.NotificationTypeOwnershipRequestReceived,
		Title:     "New ownership request",
		Message:   `Bob has requested ownership of "Harbor at Dusk"`,
		ArtworkID: &artworkID,
		Metadata:  []byte(`{"link":"/requests/pending"}`),
		CreatedAt: fixedTime,
	}}

	api.notifications.EXPECT().List(gomock.Any(), alice, true, 100, uint64(0)).Return(rows, uint64(1), nil)
	api.notifications.EXPECT().MarkRead(gomock.Any(), alice, notificationID).Return(nil)
	api.notifications.EXPECT().MarkRead(gomock.Any(), bob, notificationID).Return(domain.ErrNotificationNotFound)

	rec := api.do(http.MethodGet, "/api/v1/notifications?unread_only=true&limit=500", api.token(t, alice), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []struct {
			Type     string         `json:"type"`
			Metadata map[string]any `json:"metadata"`
			IsRead   bool           `json:"is_read"`
		} `json:"items"`
		Offset *uint64 `json:"offset"`
		Total  uint64  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "ownership_request_received", body.Items[0].Type)
	assert.Equal(t, "/requests/pending", body.Items[0].Metadata["link"])
	assert.Nil(t, body.Offset)
	assert.Equal(t, uint64(1), body.Total)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read", notificationID), api.token(t, alice), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read", notificationID), api.token(t, bob), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateWebhookClient(t *testing.T) {
	api := setupTestAPI(t)
	defer api.ctrl.Finish()

	api.webhooks.EXPECT().
		RegisterClient(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input webhook.RegisterClientInput) (*schema.WebhookClient, error) {
			assert.Equal(t, "https://hooks.example.com", input.WebhookURL)
			assert.Equal(t, []string{"*"}, input.EventFilters)
			assert.False(t, input.AllowInsecureURL)
			return &schema.WebhookClient{
				ClientID:         "c1",
				WebhookURL:       input.WebhookURL,
				WebhookSecret:    "deadbeef",
				EventFilters:     []byte(`["*"]`),
				IsActive:         true,
				RetryMaxAttempts: 5,
			}, nil
		})

	rec := api.do(http.MethodPost, "/api/v1/webhooks/clients", "ApiKey "+testAPIKey,
		`{"webhook_url":"https://hooks.example.com","event_filters":["*"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "deadbeef", body["webhook_secret"])
	assert.Equal(t, []any{"*"}, body["event_filters"])

	// account tokens cannot register clients
	rec = api.do(http.MethodPost, "/api/v1/webhooks/clients", api.token(t, alice),
		`{"webhook_url":"https://hooks.example.com","event_filters":["*"]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

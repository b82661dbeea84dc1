package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/api/middleware"
	"github.com/feral-file/ff-provenance/internal/api/rest/dto"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/notification"
	"github.com/feral-file/ff-provenance/internal/provenance"
	"github.com/feral-file/ff-provenance/internal/webhook"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// UpdateProfile creates or refreshes the caller's public profile
	// PUT /api/v1/accounts/me
	UpdateProfile(c *gin.Context)

	// CreateArtwork registers an artwork owned by the caller
	// POST /api/v1/artworks
	CreateArtwork(c *gin.Context)

	// GetArtwork retrieves an artwork; private fields are hidden unless the caller owns it
	// GET /api/v1/artworks/:id
	GetArtwork(c *gin.Context)

	// UpdateProvenance applies a direct owner edit
	// PATCH /api/v1/artworks/:id/provenance
	UpdateProvenance(c *gin.Context)

	// BatchUpdateProvenance applies owner edits to several artworks
	// POST /api/v1/artworks/provenance/batch
	BatchUpdateProvenance(c *gin.Context)

	// ListArtworkHistory retrieves the artwork's change journal
	// GET /api/v1/artworks/:id/history?limit=<limit>&offset=<offset>
	ListArtworkHistory(c *gin.Context)

	// SubmitRequest proposes a provenance update or ownership transfer
	// POST /api/v1/artworks/:id/requests
	SubmitRequest(c *gin.Context)

	// ListPendingRequests lists pending requests on artworks the caller owns
	// GET /api/v1/requests/pending
	ListPendingRequests(c *gin.Context)

	// ListSubmittedRequests lists the caller's own requests
	// GET /api/v1/requests/submitted
	ListSubmittedRequests(c *gin.Context)

	// GetRequest retrieves a request visible to the caller
	// GET /api/v1/requests/:id
	GetRequest(c *gin.Context)

	// RespondToRequest approves or denies a pending request
	// POST /api/v1/requests/:id/respond
	RespondToRequest(c *gin.Context)

	// ListNotifications lists the caller's notifications
	// GET /api/v1/notifications?unread_only=<bool>&limit=<limit>&offset=<offset>
	ListNotifications(c *gin.Context)

	// MarkNotificationRead marks one of the caller's notifications as read
	// POST /api/v1/notifications/:id/read
	MarkNotificationRead(c *gin.Context)

	// CreateWebhookClient creates a new webhook client (requires authentication via API key)
	// POST /api/v1/webhooks/clients
	CreateWebhookClient(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug         bool
	provenance    provenance.Service
	notifications notification.Service
	webhooks      webhook.Registry
}

// NewHandler creates a new REST API handler
func NewHandler(debug bool, prov provenance.Service, notifications notification.Service, webhooks webhook.Registry) Handler {
	return &handler{
		debug:         debug,
		provenance:    prov,
		notifications: notifications,
		webhooks:      webhooks,
	}
}

// bindJSON decodes the request body. Patch validation errors surface as validation failures.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, domain.ErrInvalidPatch) {
			respondValidationError(c, err.Error())
		} else {
			respondBadRequest(c, "Invalid request body", err.Error())
		}
		return false
	}
	return true
}

// UpdateProfile creates or refreshes the caller's public profile
func (h *handler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.provenance.UpdateProfile(c.Request.Context(), middleware.AccountID(c), req.DisplayName, req.AvatarURL)
	if err != nil {
		respondServiceError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToDTO(account))
}

// CreateArtwork registers an artwork owned by the caller
func (h *handler) CreateArtwork(c *gin.Context) {
	var req dto.CreateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	artwork, err := h.provenance.CreateArtwork(c.Request.Context(), provenance.CreateArtworkInput{
		OwnerID:      middleware.AccountID(c),
		Fields:       req.Fields,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create artwork")
		return
	}

	c.JSON(http.StatusCreated, dto.MapArtworkToDTO(artwork))
}

// GetArtwork retrieves an artwork
func (h *handler) GetArtwork(c *gin.Context) {
	artworkID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	artwork, err := h.provenance.GetArtwork(c.Request.Context(), middleware.AccountID(c), artworkID)
	if err != nil {
		respondServiceError(c, err, "Failed to get artwork", zap.String("artworkID", artworkID.String()))
		return
	}

	c.JSON(http.StatusOK, dto.MapArtworkToDTO(artwork))
}

// UpdateProvenance applies a direct owner edit
func (h *handler) UpdateProvenance(c *gin.Context) {
	artworkID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateProvenanceRequest
	if !bindJSON(c, &req) {
		return
	}

	artwork, err := h.provenance.UpdateProvenance(c.Request.Context(), middleware.AccountID(c), artworkID, req.UpdateFields)
	if err != nil {
		respondServiceError(c, err, "Failed to update provenance", zap.String("artworkID", artworkID.String()))
		return
	}

	c.JSON(http.StatusOK, dto.MapArtworkToDTO(artwork))
}

// BatchUpdateProvenance applies owner edits to several artworks
func (h *handler) BatchUpdateProvenance(c *gin.Context) {
	var req dto.BatchUpdateProvenanceRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]provenance.BatchItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, provenance.BatchItem{
			ArtworkID: item.ArtworkID,
			Fields:    item.UpdateFields,
		})
	}

	result, err := h.provenance.BatchUpdateProvenance(c.Request.Context(), middleware.AccountID(c), items)
	if err != nil {
		respondServiceError(c, err, "Failed to update provenance")
		return
	}

	response := dto.BatchUpdateProvenanceResponse{
		Succeeded: result.Succeeded,
		Errors:    make([]dto.BatchUpdateError, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		response.Errors = append(response.Errors, dto.BatchUpdateError{
			ArtworkID: e.ArtworkID,
			Error:     e.Err.Error(),
		})
	}

	c.JSON(http.StatusOK, response)
}

// ListArtworkHistory retrieves the artwork's change journal
func (h *handler) ListArtworkHistory(c *gin.Context) {
	artworkID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	params, err := ParsePaginationQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, total, err := h.provenance.ListArtworkHistory(c.Request.Context(), middleware.AccountID(c), artworkID, params.Limit, params.Offset)
	if err != nil {
		respondServiceError(c, err, "Failed to list artwork history", zap.String("artworkID", artworkID.String()))
		return
	}

	c.JSON(http.StatusOK, dto.MapHistoryToDTO(rows, params.Offset, total))
}

// SubmitRequest proposes a provenance update or ownership transfer
func (h *handler) SubmitRequest(c *gin.Context) {
	artworkID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req dto.SubmitRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.provenance.SubmitRequest(c.Request.Context(), provenance.SubmitRequestInput{
		ArtworkID:   artworkID,
		RequesterID: middleware.AccountID(c),
		Type:        req.RequestType,
		Fields:      req.UpdateFields,
		Message:     req.Message,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to submit request", zap.String("artworkID", artworkID.String()))
		return
	}

	c.JSON(http.StatusCreated, dto.MapRequestToDTO(request))
}

// ListPendingRequests lists pending requests on artworks the caller owns
func (h *handler) ListPendingRequests(c *gin.Context) {
	rows, err := h.provenance.ListPendingRequestsForOwner(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to list pending requests")
		return
	}

	c.JSON(http.StatusOK, dto.MapRequestSummariesToDTO(rows))
}

// ListSubmittedRequests lists the caller's own requests
func (h *handler) ListSubmittedRequests(c *gin.Context) {
	rows, err := h.provenance.ListSubmittedRequests(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to list submitted requests")
		return
	}

	c.JSON(http.StatusOK, dto.MapRequestSummariesToDTO(rows))
}

// GetRequest retrieves a request visible to the caller
func (h *handler) GetRequest(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	summary, err := h.provenance.GetRequest(c.Request.Context(), middleware.AccountID(c), requestID)
	if err != nil {
		respondServiceError(c, err, "Failed to get request", zap.String("requestID", requestID.String()))
		return
	}

	c.JSON(http.StatusOK, dto.MapRequestSummaryToDTO(summary))
}

// RespondToRequest approves or denies a pending request
func (h *handler) RespondToRequest(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req dto.RespondToRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	action, err := domain.ParseReviewAction(req.Action)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	request, err := h.provenance.RespondToRequest(c.Request.Context(), provenance.RespondInput{
		RequestID:     requestID,
		ReviewerID:    middleware.AccountID(c),
		Action:        action,
		ReviewMessage: req.ReviewMessage,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to respond to request", zap.String("requestID", requestID.String()))
		return
	}

	c.JSON(http.StatusOK, dto.MapRequestToDTO(request))
}

// ListNotifications lists the caller's notifications
func (h *handler) ListNotifications(c *gin.Context) {
	params, err := ParseListNotificationsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, total, err := h.notifications.List(c.Request.Context(), middleware.AccountID(c), params.UnreadOnly, params.Limit, params.Offset)
	if err != nil {
		respondServiceError(c, err, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, dto.MapNotificationsToDTO(rows, params.Offset, total))
}

// MarkNotificationRead marks one of the caller's notifications as read
func (h *handler) MarkNotificationRead(c *gin.Context) {
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), middleware.AccountID(c), notificationID); err != nil {
		respondServiceError(c, err, "Failed to mark notification read", zap.String("notificationID", notificationID.String()))
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateWebhookClient creates a new webhook client (requires authentication via API key)
func (h *handler) CreateWebhookClient(c *gin.Context) {
	var req dto.CreateWebhookClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.webhooks.RegisterClient(c.Request.Context(), webhook.RegisterClientInput{
		WebhookURL:       req.WebhookURL,
		EventFilters:     req.EventFilters,
		RetryMaxAttempts: req.RetryMaxAttempts,
		AllowInsecureURL: h.debug,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create webhook client")
		return
	}

	response, err := dto.MapWebhookClientToDTO(client)
	if err != nil {
		respondInternalError(c, fmt.Errorf("failed to map webhook client: %w", err), "Failed to create webhook client")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-provenance-api",
	})
}

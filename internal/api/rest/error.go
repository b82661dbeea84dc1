package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-provenance/internal/api/shared/errors"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, apiErr *apierrors.APIError) {
	c.JSON(statusCode, apierrors.Wrap(apiErr))
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewValidationError(details))
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.ErrorCtx(c.Request.Context(), err, append(fields, zap.String("message", message))...)
	respondWithError(c, http.StatusInternalServerError, apierrors.NewInternalError(message))
}

// respondServiceError maps a service error to its HTTP status. Unknown errors are logged
// and reported as internal errors without details.
func respondServiceError(c *gin.Context, err error, message string, fields ...zap.Field) {
	switch {
	case errors.Is(err, domain.ErrAuthenticationRequired):
		respondWithError(c, http.StatusUnauthorized, apierrors.NewUnauthorizedError(err.Error()))

	case errors.Is(err, domain.ErrArtworkNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		respondWithError(c, http.StatusNotFound, apierrors.NewNotFoundError(err.Error()))

	case errors.Is(err, domain.ErrIsOwner),
		errors.Is(err, domain.ErrNotArtworkOwner):
		respondWithError(c, http.StatusForbidden, apierrors.NewForbiddenError(err.Error()))

	case errors.Is(err, domain.ErrDuplicatePendingRequest),
		errors.Is(err, domain.ErrRequestAlreadyProcessed):
		respondWithError(c, http.StatusConflict, apierrors.NewConflictError(err.Error()))

	case errors.Is(err, domain.ErrInvalidPatch),
		errors.Is(err, domain.ErrInvalidRequestType),
		errors.Is(err, domain.ErrInvalidReviewAction),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidWebhookClient):
		respondValidationError(c, err.Error())

	default:
		respondInternalError(c, err, message, fields...)
	}
}

package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-provenance/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	requireAccount := auth.RequireAccount()

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Account endpoints
		v1.PUT("/accounts/me", requireAccount, handler.UpdateProfile)

		// Artwork endpoints (reads are public, private fields are shown to the owner only)
		v1.POST("/artworks", requireAccount, handler.CreateArtwork)
		v1.POST("/artworks/provenance/batch", requireAccount, handler.BatchUpdateProvenance)
		v1.GET("/artworks/:id", auth.OptionalAccount(), handler.GetArtwork)
		v1.PATCH("/artworks/:id/provenance", requireAccount, handler.UpdateProvenance)
		v1.GET("/artworks/:id/history", auth.OptionalAccount(), handler.ListArtworkHistory)
		v1.POST("/artworks/:id/requests", requireAccount, handler.SubmitRequest)

		// Request review endpoints
		v1.GET("/requests/pending", requireAccount, handler.ListPendingRequests)
		v1.GET("/requests/submitted", requireAccount, handler.ListSubmittedRequests)
		v1.GET("/requests/:id", requireAccount, handler.GetRequest)
		v1.POST("/requests/:id/respond", requireAccount, handler.RespondToRequest)

		// Notification endpoints
		v1.GET("/notifications", requireAccount, handler.ListNotifications)
		v1.POST("/notifications/:id/read", requireAccount, handler.MarkNotificationRead)

		// Webhook endpoints (requires API key authentication only)
		v1.POST("/webhooks/clients", auth.APIKeyAuth(), handler.CreateWebhookClient)
	}
}

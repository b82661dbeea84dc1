package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// NotificationResponse represents an in-app notification
type NotificationResponse struct {
	ID            uuid.UUID               `json:"id"`
	Type          domain.NotificationType `json:"type"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
	ArtworkID     *uuid.UUID              `json:"artwork_id,omitempty"`
	RelatedUserID *uuid.UUID              `json:"related_user_id,omitempty"`
	Metadata      json.RawMessage         `json:"metadata,omitempty"`
	IsRead        bool                    `json:"is_read"`
	ReadAt        *time.Time              `json:"read_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// PaginatedNotifications represents a page of notifications
type PaginatedNotifications struct {
	Items  []NotificationResponse `json:"items"`
	Offset *uint64                `json:"offset,omitempty"`
	Total  uint64                 `json:"total"`
}

// MapNotificationsToDTO maps notification rows to a page; Offset is set when more rows follow
func MapNotificationsToDTO(rows []schema.Notification, offset uint64, total uint64) *PaginatedNotifications {
	items := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		items = append(items, NotificationResponse{
			ID:            n.ID,
			Type:          n.Type,
			Title:         n.Title,
			Message:       n.Message,
			ArtworkID:     n.ArtworkID,
			RelatedUserID: n.RelatedUserID,
			Metadata:      json.RawMessage(n.Metadata),
			IsRead:        n.IsRead,
			ReadAt:        n.ReadAt,
			CreatedAt:     n.CreatedAt,
		})
	}

	return &PaginatedNotifications{
		Items:  items,
		Offset: nextOffset(offset, len(rows), total),
		Total:  total,
	}
}

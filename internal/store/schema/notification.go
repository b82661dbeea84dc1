package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// Notification represents the notifications table - in-app messages addressed to a user
type Notification struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Type          domain.NotificationType `gorm:"column:type;not null;type:text"`
	Title         string                  `gorm:"column:title;not null;type:text"`
	Message       string                  `gorm:"column:message;not null;type:text"`
	ArtworkID     *uuid.UUID              `gorm:"column:artwork_id;type:uuid"`
	RelatedUserID *uuid.UUID              `gorm:"column:related_user_id;type:uuid"`
	Metadata      datatypes.JSON          `gorm:"column:metadata;type:jsonb"`
	IsRead        bool                    `gorm:"column:is_read;not null;default:false"`
	ReadAt        *time.Time              `gorm:"column:read_at;type:timestamptz"`
	CreatedAt     time.Time               `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

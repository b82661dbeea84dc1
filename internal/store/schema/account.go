package schema

import (
	"time"

	"github.com/google/uuid"
)

// Account represents the accounts table - the public profile of an identity issued by the auth provider
type Account struct {
	// ID is the auth provider subject
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	// DisplayName is shown next to requests and notifications
	DisplayName string `gorm:"column:display_name;not null;type:text"`
	// AvatarURL is the profile image
	AvatarURL *string `gorm:"column:avatar_url;type:text"`
	// CreatedAt is the timestamp when the profile was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

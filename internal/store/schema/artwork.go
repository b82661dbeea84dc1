package schema

import (
	"time"

	"github.com/google/uuid"
)

// Artwork represents the artworks table - the registered artwork and its provenance record
type Artwork struct {
	// ID is the internal database primary key
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	// AccountID is the current owner, the account holding authorship/custody rights
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	// ImageURL is the object-storage URL of the primary image
	ImageURL *string `gorm:"column:image_url;type:text"`
	// ThumbnailURL is the object-storage URL of the thumbnail used in listings
	ThumbnailURL *string `gorm:"column:thumbnail_url;type:text"`

	Title              *string `gorm:"column:title;type:text"`
	Description        *string `gorm:"column:description;type:text"`
	ArtistName         *string `gorm:"column:artist_name;type:text"`
	Medium             *string `gorm:"column:medium;type:text"`
	CreationDate       *string `gorm:"column:creation_date;type:text"`
	Dimensions         *string `gorm:"column:dimensions;type:text"`
	FormerOwners       *string `gorm:"column:former_owners;type:text"`
	AuctionHistory     *string `gorm:"column:auction_history;type:text"`
	ExhibitionHistory  *string `gorm:"column:exhibition_history;type:text"`
	HistoricContext    *string `gorm:"column:historic_context;type:text"`
	CelebrityNotes     *string `gorm:"column:celebrity_notes;type:text"`
	Value              *string `gorm:"column:value;type:text"`
	Edition            *string `gorm:"column:edition;type:text"`
	ProductionLocation *string `gorm:"column:production_location;type:text"`
	OwnedBy            *string `gorm:"column:owned_by;type:text"`
	SoldBy             *string `gorm:"column:sold_by;type:text"`

	// Visibility flags for the sensitive fields (false = visible to the owner only)
	FormerOwnersPublic      bool `gorm:"column:former_owners_public;not null;default:false"`
	AuctionHistoryPublic    bool `gorm:"column:auction_history_public;not null;default:false"`
	ExhibitionHistoryPublic bool `gorm:"column:exhibition_history_public;not null;default:false"`
	HistoricContextPublic   bool `gorm:"column:historic_context_public;not null;default:false"`
	CelebrityNotesPublic    bool `gorm:"column:celebrity_notes_public;not null;default:false"`
	ValuePublic             bool `gorm:"column:value_public;not null;default:false"`
	OwnedByPublic           bool `gorm:"column:owned_by_public;not null;default:false"`
	SoldByPublic            bool `gorm:"column:sold_by_public;not null;default:false"`

	// CreatedAt is the timestamp when the artwork was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last provenance or ownership change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Artwork model
func (Artwork) TableName() string {
	return "artworks"
}

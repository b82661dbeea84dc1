package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// ProvenanceUpdateRequest represents the provenance_update_requests table - a change to an artwork
// proposed by someone other than its owner, awaiting the owner's review
type ProvenanceUpdateRequest struct {
	// ID is the internal database primary key
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	// ArtworkID references the artwork the change targets
	ArtworkID uuid.UUID `gorm:"column:artwork_id;type:uuid;not null;index"`
	// RequestedBy is the submitter's account
	RequestedBy uuid.UUID `gorm:"column:requested_by;type:uuid;not null;index"`
	// RequestType is provenance_update or ownership_request
	RequestType domain.RequestType `gorm:"column:request_type;not null;type:text"`
	// UpdateFields is the proposed provenance patch (empty for ownership requests)
	UpdateFields datatypes.JSON `gorm:"column:update_fields;type:jsonb;not null;default:'{}'"`
	// RequestMessage is an optional note from the submitter
	RequestMessage *string `gorm:"column:request_message;type:text"`
	// Status is pending until the owner approves or denies
	Status domain.RequestStatus `gorm:"column:status;not null;type:text;default:pending;index"`
	// ReviewedBy is the owner who resolved the request
	ReviewedBy *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	// ReviewedAt is when the request was resolved
	ReviewedAt *time.Time `gorm:"column:reviewed_at;type:timestamptz"`
	// ReviewMessage is an optional note from the reviewer
	ReviewMessage *string `gorm:"column:review_message;type:text"`
	// RequestedAt is the submission timestamp
	RequestedAt time.Time `gorm:"column:requested_at;not null;default:now();type:timestamptz"`

	// Associations
	Artwork Artwork `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the ProvenanceUpdateRequest model
func (ProvenanceUpdateRequest) TableName() string {
	return "provenance_update_requests"
}

package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubjectType represents the type of artwork change that was recorded
type SubjectType string

const (
	// SubjectTypeProvenance indicates provenance fields were written
	SubjectTypeProvenance SubjectType = "provenance"
	// SubjectTypeOwner indicates the artwork changed hands
	SubjectTypeOwner SubjectType = "owner"
)

// ChangesJournal represents the changes_journal table - append-only audit trail of artwork mutations
type ChangesJournal struct {
	// Cursor is an auto-incrementing sequence number for efficient pagination and ordering
	Cursor int64 `gorm:"column:\"cursor\";primaryKey;autoIncrement"`
	// SubjectType identifies what kind of change happened (provenance, owner)
	SubjectType SubjectType `gorm:"column:subject_type;not null;type:text"`
	// SubjectID is the artwork that changed
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;not null;index"`
	// ActorID is the account that performed the write (the owner, or the reviewer on approval)
	ActorID uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	// RequestID is set when the change came from an approved request
	RequestID *uuid.UUID `gorm:"column:request_id;type:uuid"`
	// ChangedAt is the timestamp when the change occurred
	ChangedAt time.Time `gorm:"column:changed_at;not null;default:now();type:timestamptz"`
	// Meta describes the change as JSON (ProvenanceChangeMeta or OwnerChangeMeta)
	Meta datatypes.JSON `gorm:"column:meta;type:jsonb"`
}

// TableName specifies the table name for the ChangesJournal model
func (ChangesJournal) TableName() string {
	return "changes_journal"
}

// ProvenanceChangeMeta is the journal meta for a provenance write
type ProvenanceChangeMeta struct {
	Fields map[string]any `json:"fields"`
	// Redacted lists fields whose values are withheld from the viewer
	Redacted []string `json:"redacted,omitempty"`
}

// OwnerChangeMeta is the journal meta for an ownership transfer
type OwnerChangeMeta struct {
	From string `json:"from"`
	To   string `json:"to"`
}

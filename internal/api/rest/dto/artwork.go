package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// CreateArtworkRequest represents the request body for registering an artwork
type CreateArtworkRequest struct {
	Fields       domain.ProvenancePatch `json:"fields"`
	ImageURL     *string                `json:"image_url,omitempty"`
	ThumbnailURL *string                `json:"thumbnail_url,omitempty"`
}

// UpdateProvenanceRequest represents the request body for a direct owner edit.
// Only keys present in update_fields are written; null clears a field.
type UpdateProvenanceRequest struct {
	UpdateFields domain.ProvenancePatch `json:"update_fields"`
}

// BatchUpdateItem is one artwork patch in a batch update
type BatchUpdateItem struct {
	ArtworkID    uuid.UUID              `json:"artwork_id"`
	UpdateFields domain.ProvenancePatch `json:"update_fields"`
}

// BatchUpdateProvenanceRequest represents the request body for a batch update
type BatchUpdateProvenanceRequest struct {
	Items []BatchUpdateItem `json:"items"`
}

// BatchUpdateError reports a failed batch item
type BatchUpdateError struct {
	ArtworkID uuid.UUID `json:"artwork_id"`
	Error     string    `json:"error"`
}

// BatchUpdateProvenanceResponse summarizes a batch update
type BatchUpdateProvenanceResponse struct {
	Succeeded int                `json:"succeeded"`
	Errors    []BatchUpdateError `json:"errors"`
}

// ArtworkResponse represents an artwork and its provenance record.
// Private sensitive fields are null for non-owners.
type ArtworkResponse struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	ImageURL     *string   `json:"image_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`

	Title              *string `json:"title"`
	Description        *string `json:"description"`
	ArtistName         *string `json:"artist_name"`
	Medium             *string `json:"medium"`
	CreationDate       *string `json:"creation_date"`
	Dimensions         *string `json:"dimensions"`
	FormerOwners       *string `json:"former_owners"`
	AuctionHistory     *string `json:"auction_history"`
	ExhibitionHistory  *string `json:"exhibition_history"`
	HistoricContext    *string `json:"historic_context"`
	CelebrityNotes     *string `json:"celebrity_notes"`
	Value              *string `json:"value"`
	Edition            *string `json:"edition"`
	ProductionLocation *string `json:"production_location"`
	OwnedBy            *string `json:"owned_by"`
	SoldBy             *string `json:"sold_by"`

	FormerOwnersPublic      bool `json:"former_owners_public"`
	AuctionHistoryPublic    bool `json:"auction_history_public"`
	ExhibitionHistoryPublic bool `json:"exhibition_history_public"`
	HistoricContextPublic   bool `json:"historic_context_public"`
	CelebrityNotesPublic    bool `json:"celebrity_notes_public"`
	ValuePublic             bool `json:"value_public"`
	OwnedByPublic           bool `json:"owned_by_public"`
	SoldByPublic            bool `json:"sold_by_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapArtworkToDTO maps a schema.Artwork to ArtworkResponse
func MapArtworkToDTO(a *schema.Artwork) *ArtworkResponse {
	return &ArtworkResponse{
		ID:                      a.ID,
		OwnerID:                 a.AccountID,
		ImageURL:                a.ImageURL,
		ThumbnailURL:            a.ThumbnailURL,
		Title:                   a.Title,
		Description:             a.Description,
		ArtistName:              a.ArtistName,
		Medium:                  a.Medium,
		CreationDate:            a.CreationDate,
		Dimensions:              a.Dimensions,
		FormerOwners:            a.FormerOwners,
		AuctionHistory:          a.AuctionHistory,
		ExhibitionHistory:       a.ExhibitionHistory,
		HistoricContext:         a.HistoricContext,
		CelebrityNotes:          a.CelebrityNotes,
		Value:                   a.Value,
		Edition:                 a.Edition,
		ProductionLocation:      a.ProductionLocation,
		OwnedBy:                 a.OwnedBy,
		SoldBy:                  a.SoldBy,
		FormerOwnersPublic:      a.FormerOwnersPublic,
		AuctionHistoryPublic:    a.AuctionHistoryPublic,
		ExhibitionHistoryPublic: a.ExhibitionHistoryPublic,
		HistoricContextPublic:   a.HistoricContextPublic,
		CelebrityNotesPublic:    a.CelebrityNotesPublic,
		ValuePublic:             a.ValuePublic,
		OwnedByPublic:           a.OwnedByPublic,
		SoldByPublic:            a.SoldByPublic,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.UpdatedAt,
	}
}

// HistoryEntryResponse represents a changes journal entry
type HistoryEntryResponse struct {
	Cursor      int64              `json:"cursor"`
	SubjectType schema.SubjectType `json:"subject_type"`
	ArtworkID   uuid.UUID          `json:"artwork_id"`
	ActorID     uuid.UUID          `json:"actor_id"`
	RequestID   *uuid.UUID         `json:"request_id,omitempty"`
	ChangedAt   time.Time          `json:"changed_at"`
	Meta        json.RawMessage    `json:"meta,omitempty"`
}

// PaginatedHistory represents a page of the artwork history
type PaginatedHistory struct {
	Items  []HistoryEntryResponse `json:"items"`
	Offset *uint64                `json:"offset,omitempty"`
	Total  uint64                 `json:"total"`
}

// MapHistoryToDTO maps journal rows to a page; Offset is set when more rows follow
func MapHistoryToDTO(rows []schema.ChangesJournal, offset uint64, total uint64) *PaginatedHistory {
	items := make([]HistoryEntryResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, HistoryEntryResponse{
			Cursor:      r.Cursor,
			SubjectType: r.SubjectType,
			ArtworkID:   r.SubjectID,
			ActorID:     r.ActorID,
			RequestID:   r.RequestID,
			ChangedAt:   r.ChangedAt,
			Meta:        json.RawMessage(r.Meta),
		})
	}

	return &PaginatedHistory{
		Items:  items,
		Offset: nextOffset(offset, len(rows), total),
		Total:  total,
	}
}

// nextOffset returns the offset of the following page, or nil on the last page
func nextOffset(offset uint64, count int, total uint64) *uint64 {
	next := offset + uint64(count) //nolint:gosec,G115
	if count == 0 || next >= total {
		return nil
	}
	return &next
}

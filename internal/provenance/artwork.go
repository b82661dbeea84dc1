package provenance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// applyOptions tunes applyProvenance
type applyOptions struct {
	// requestID links the journal entry to the approved request the patch came from
	requestID *uuid.UUID
	// notify queues an artwork_updated notification for the owner
	notify bool
	// title is used in the notification text
	title string
}

// applyProvenance writes a patch to the artwork covered by grant and journals it.
// The write is conditioned on the grant's owner so a concurrent transfer makes it fail
// with domain.ErrNotArtworkOwner instead of editing someone else's artwork.
func (s *service) applyProvenance(ctx context.Context, tx store.Store, grant OwnerGrant, patch domain.ProvenancePatch, opts applyOptions, out *outbox) error {
	if !grant.valid() {
		return domain.ErrNotArtworkOwner
	}
	if patch.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", domain.ErrInvalidPatch)
	}

	now := s.clock.Now()
	columns := patch.Columns()

	updated, err := tx.UpdateArtworkProvenance(ctx, store.UpdateArtworkProvenanceInput{
		ArtworkID: grant.ArtworkID(),
		OwnerID:   grant.Owner(),
		Columns:   columns,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotArtworkOwner
	}

	meta, err := json.Marshal(schema.ProvenanceChangeMeta{Fields: columns})
	if err != nil {
		return fmt.Errorf("failed to marshal journal meta: %w", err)
	}
	if err := tx.CreateChangesJournal(ctx, store.CreateChangesJournalInput{
		SubjectType: schema.SubjectTypeProvenance,
		SubjectID:   grant.ArtworkID(),
		ActorID:     grant.Owner(),
		RequestID:   opts.requestID,
		ChangedAt:   now,
		Meta:        meta,
	}); err != nil {
		return err
	}

	if opts.notify {
		out.add(artworkUpdated(grant, opts.title, patch))
	}

	return nil
}

// transferOwnership hands the artwork covered by grant to newOwner and journals it
func (s *service) transferOwnership(ctx context.Context, tx store.Store, grant OwnerGrant, newOwner uuid.UUID, requestID *uuid.UUID) error {
	if !grant.valid() {
		return domain.ErrNotArtworkOwner
	}

	now := s.clock.Now()
	moved, err := tx.TransferArtworkOwnership(ctx, store.TransferArtworkOwnershipInput{
		ArtworkID:   grant.ArtworkID(),
		FromOwnerID: grant.Owner(),
		ToOwnerID:   newOwner,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}
	if !moved {
		return domain.ErrNotArtworkOwner
	}

	meta, err := json.Marshal(schema.OwnerChangeMeta{From: grant.Owner().String(), To: newOwner.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal journal meta: %w", err)
	}
	return tx.CreateChangesJournal(ctx, store.CreateChangesJournalInput{
		SubjectType: schema.SubjectTypeOwner,
		SubjectID:   grant.ArtworkID(),
		ActorID:     grant.Owner(),
		RequestID:   requestID,
		ChangedAt:   now,
		Meta:        meta,
	})
}

// CreateArtwork registers an artwork owned by the caller
func (s *service) CreateArtwork(ctx context.Context, input CreateArtworkInput) (*schema.Artwork, error) {
	if input.OwnerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}

	artwork, err := s.store.CreateArtwork(ctx, store.CreateArtworkInput{
		OwnerID:      input.OwnerID,
		ImageURL:     input.ImageURL,
		ThumbnailURL: input.ThumbnailURL,
		Columns:      input.Fields.Columns(),
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Artwork registered",
		zap.String("artworkID", artwork.ID.String()),
		zap.String("ownerID", input.OwnerID.String()))

	return artwork, nil
}

// GetArtwork returns an artwork, hiding private sensitive fields from everyone but the owner
func (s *service) GetArtwork(ctx context.Context, viewerID uuid.UUID, artworkID uuid.UUID) (*schema.Artwork, error) {
	artwork, err := s.store.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if artwork == nil {
		return nil, domain.ErrArtworkNotFound
	}

	if viewerID == uuid.Nil || viewerID != artwork.AccountID {
		redactPrivateFields(artwork)
	}
	return artwork, nil
}

// redactPrivateFields clears every sensitive field whose visibility flag is off
func redactPrivateFields(a *schema.Artwork) {
	if !a.FormerOwnersPublic {
		a.FormerOwners = nil
	}
	if !a.AuctionHistoryPublic {
		a.AuctionHistory = nil
	}
	if !a.ExhibitionHistoryPublic {
		a.ExhibitionHistory = nil
	}
	if !a.HistoricContextPublic {
		a.HistoricContext = nil
	}
	if !a.CelebrityNotesPublic {
		a.CelebrityNotes = nil
	}
	if !a.ValuePublic {
		a.Value = nil
	}
	if !a.OwnedByPublic {
		a.OwnedBy = nil
	}
	if !a.SoldByPublic {
		a.SoldBy = nil
	}
}

// isPublic reports whether a sensitive field is currently shown to everyone
func isPublic(a *schema.Artwork, field domain.ArtworkField) bool {
	switch field {
	case domain.FieldFormerOwners:
		return a.FormerOwnersPublic
	case domain.FieldAuctionHistory:
		return a.AuctionHistoryPublic
	case domain.FieldExhibitionHistory:
		return a.ExhibitionHistoryPublic
	case domain.FieldHistoricContext:
		return a.HistoricContextPublic
	case domain.FieldCelebrityNotes:
		return a.CelebrityNotesPublic
	case domain.FieldValue:
		return a.ValuePublic
	case domain.FieldOwnedBy:
		return a.OwnedByPublic
	case domain.FieldSoldBy:
		return a.SoldByPublic
	}
	return true
}

// redactHistoryEntry removes the values of private sensitive fields from a provenance
// journal entry. The field names stay listed under Redacted.
func redactHistoryEntry(entry *schema.ChangesJournal, a *schema.Artwork) error {
	if entry.SubjectType != schema.SubjectTypeProvenance || len(entry.Meta) == 0 {
		return nil
	}

	var meta schema.ProvenanceChangeMeta
	if err := json.Unmarshal(entry.Meta, &meta); err != nil {
		return fmt.Errorf("failed to unmarshal journal meta: %w", err)
	}

	for name := range meta.Fields {
		field := domain.ArtworkField(name)
		if _, sensitive := domain.SensitiveFields[field]; !sensitive || isPublic(a, field) {
			continue
		}
		delete(meta.Fields, name)
		meta.Redacted = append(meta.Redacted, name)
	}
	if len(meta.Redacted) == 0 {
		return nil
	}
	sort.Strings(meta.Redacted)

	redacted, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal journal meta: %w", err)
	}
	entry.Meta = redacted
	return nil
}

// ListArtworkHistory returns the artwork's change journal
func (s *service) ListArtworkHistory(ctx context.Context, viewerID, artworkID uuid.UUID, limit int, offset uint64) ([]schema.ChangesJournal, uint64, error) {
	artwork, err := s.store.GetArtworkByID(ctx, artworkID)
	if err != nil {
		return nil, 0, err
	}
	if artwork == nil {
		return nil, 0, domain.ErrArtworkNotFound
	}

	entries, total, err := s.store.ListArtworkHistory(ctx, artworkID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if viewerID == uuid.Nil || viewerID != artwork.AccountID {
		for i := range entries {
			if err := redactHistoryEntry(&entries[i], artwork); err != nil {
				return nil, 0, err
			}
		}
	}
	return entries, total, nil
}

// UpdateProvenance applies a patch as the artwork's current owner
func (s *service) UpdateProvenance(ctx context.Context, callerID, artworkID uuid.UUID, patch domain.ProvenancePatch) (*schema.Artwork, error) {
	if callerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidPatch)
	}

	var out outbox
	var updated *schema.Artwork
	err := s.store.WithTransaction(ctx, func(tx store.Store) error {
		artwork, err := tx.GetArtworkByID(ctx, artworkID)
		if err != nil {
			return err
		}
		grant, err := authorizeOwner(artwork, callerID)
		if err != nil {
			return err
		}

		opts := applyOptions{notify: true, title: titleAfter(artwork, patch)}
		if err := s.applyProvenance(ctx, tx, grant, patch, opts, &out); err != nil {
			return err
		}

		updated, err = tx.GetArtworkByID(ctx, artworkID)
		if err != nil {
			return err
		}
		if updated == nil {
			return domain.ErrArtworkNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.flush(ctx, out)
	return updated, nil
}

// BatchUpdateProvenance applies each item in order, one transaction per artwork.
// A failing item does not stop the batch.
func (s *service) BatchUpdateProvenance(ctx context.Context, callerID uuid.UUID, items []BatchItem) (*BatchResult, error) {
	if callerID == uuid.Nil {
		return nil, domain.ErrAuthenticationRequired
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", domain.ErrInvalidPatch)
	}
	if len(items) > domain.MAX_BATCH_UPDATE_ITEMS {
		return nil, fmt.Errorf("%w: batch exceeds %d items", domain.ErrInvalidPatch, domain.MAX_BATCH_UPDATE_ITEMS)
	}

	result := &BatchResult{Errors: []BatchItemError{}}
	for _, item := range items {
		if _, err := s.UpdateProvenance(ctx, callerID, item.ArtworkID, item.Fields); err != nil {
			logger.WarnCtx(ctx, "Batch provenance item failed",
				zap.String("artworkID", item.ArtworkID.String()),
				zap.Error(err))
			result.Errors = append(result.Errors, BatchItemError{ArtworkID: item.ArtworkID, Err: err})
			continue
		}
		result.Succeeded++
	}

	return result, nil
}

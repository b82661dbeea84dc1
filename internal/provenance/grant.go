package provenance

import (
	"github.com/google/uuid"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/store/schema"
)

// OwnerGrant is proof that the holder checked, within the current transaction, that
// owner is the artwork's current owner. It can only be minted by authorizeOwner, so
// the mutation primitives cannot be reached without an ownership check.
type OwnerGrant struct {
	artworkID uuid.UUID
	owner     uuid.UUID
}

// authorizeOwner mints a grant if callerID currently owns the artwork
func authorizeOwner(artwork *schema.Artwork, callerID uuid.UUID) (OwnerGrant, error) {
	if artwork == nil {
		return OwnerGrant{}, domain.ErrArtworkNotFound
	}
	if callerID == uuid.Nil || artwork.AccountID != callerID {
		return OwnerGrant{}, domain.ErrNotArtworkOwner
	}
	return OwnerGrant{artworkID: artwork.ID, owner: callerID}, nil
}

// ArtworkID returns the artwork the grant covers
func (g OwnerGrant) ArtworkID() uuid.UUID {
	return g.artworkID
}

// Owner returns the verified owner
func (g OwnerGrant) Owner() uuid.UUID {
	return g.owner
}

func (g OwnerGrant) valid() bool {
	return g.owner != uuid.Nil && g.artworkID != uuid.Nil
}

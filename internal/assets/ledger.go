package assets

import "context"

// Ledger is the durable metadata store for asset records. Implementations
// must enforce uniqueness of (OwnerID, AssetType, ContentHash) in storage.
type Ledger interface {
	// FindByOwnerTypeDigest returns ErrNotFound when nothing matches.
	FindByOwnerTypeDigest(ctx context.Context, ownerID string, assetType AssetType, digest string) (Record, error)
	// Create inserts rec and returns it with timestamps set. It returns
	// ErrConflict when the uniqueness key already exists.
	Create(ctx context.Context, rec Record) (Record, error)
	// UpdateFileName sets the display file name and refreshes UpdatedAt.
	UpdateFileName(ctx context.Context, id, fileName string) (Record, error)
	// ListByOwner returns the owner's records ordered by creation time.
	// A nil assetType matches every type.
	ListByOwner(ctx context.Context, ownerID string, assetType *AssetType) ([]Record, error)
}

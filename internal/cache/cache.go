package cache

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotCache holds reconstructed version bodies. Versions are
// immutable, so entries never invalidate, only evict. The cache is
// advisory: any miss or error just means a chain walk.
type SnapshotCache interface {
	// Get returns the cached body for a version, if present.
	Get(ctx context.Context, songID uuid.UUID, version int64) (string, bool)
	// Set stores the body for a version. Best effort.
	Set(ctx context.Context, songID uuid.UUID, version int64, content string)
	// Delete evicts the body for a version, if present. Best effort.
	Delete(ctx context.Context, songID uuid.UUID, version int64)
}

package store

import "context"

// Store persists chunk records and answers nearest-neighbor queries against
// them. Records are immutable once inserted; the only removal path is
// DeleteByFilename.
type Store interface {
	// InsertMany persists all records or none. Empty input is a no-op
	// returning 0.
	InsertMany(ctx context.Context, records []Record) (int, error)
	// Search returns up to limit records ranked most similar first. The
	// ranking is the index's best effort; tie order is not stable.
	Search(ctx context.Context, vector []float32, limit int) ([]Record, error)
	Count(ctx context.Context) (int, error)
	// DeleteByFilename removes every record whose filename matches exactly
	// and returns how many were removed.
	DeleteByFilename(ctx context.Context, filename string) (int, error)
}

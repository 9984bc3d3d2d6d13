package backgrounds

import "context"

// Repo defines persistence operations for backgrounds. Implementations return
// ErrNotFound when the id does not exist and must make single-record writes
// atomic.
type Repo interface {
	FindByID(ctx context.Context, id string) (Background, error)
	// FindAll returns every record in insertion order.
	FindAll(ctx context.Context) ([]Background, error)
	// Insert assigns ID and timestamps and returns the stored record.
	Insert(ctx context.Context, bg Background) (Background, error)
	ReplaceByID(ctx context.Context, id string, bg Background) (Background, error)
	// DeleteByID removes the record and returns it as it was at deletion time.
	DeleteByID(ctx context.Context, id string) (Background, error)
}

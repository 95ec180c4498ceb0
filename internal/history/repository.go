package history

import "context"

// Repository stores route records.
type Repository interface {
	// Insert adds a record.
	Insert(ctx context.Context, rec *Record) error
	// Get retrieves a record by id.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
}

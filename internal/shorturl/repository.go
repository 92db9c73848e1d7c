package shorturl

import "context"

// Repository defines storage for short URL records.
type Repository interface {
	// Create stores a new record under its code. It fails with ErrAliasTaken
	// when a record is already stored under that code; concurrent creates of
	// the same code resolve to exactly one winner.
	Create(ctx context.Context, record *Record) error

	// Get returns the record for code, or ErrNotFound.
	Get(ctx context.Context, code Code) (*Record, error)

	// Mutate applies fn to the stored record for code and persists the result.
	// The read-apply-write is atomic with respect to other Mutate calls on the
	// same code, so counters and appends cannot lose updates. Returns the
	// record as persisted, or ErrNotFound when the code is absent.
	Mutate(ctx context.Context, code Code, fn func(*Record) error) (*Record, error)

	// Delete removes the record for code. Deleting an absent code is not an error.
	Delete(ctx context.Context, code Code) error

	// Exists reports whether a record is stored under code.
	Exists(ctx context.Context, code Code) (bool, error)
}

package repository

import (
	"context"
	"time"
)

// Repository is the capability set shared by every clinic repository.
type Repository[T any, ID comparable] interface {
	// Save validates and inserts entity, returning it with its identifier
	// and timestamps populated.
	Save(ctx context.Context, entity T) (T, error)
	// FindByID reports false when no row has the identifier.
	FindByID(ctx context.Context, id ID) (T, bool, error)
	FindAll(ctx context.Context) ([]T, error)
	// Delete removes or deactivates the row, depending on the entity.
	Delete(ctx context.Context, id ID) error
	Exists(ctx context.Context, id ID) (bool, error)
	// Update rewrites the row identified by entity's ID. An unknown ID is
	// not an error.
	Update(ctx context.Context, entity T) error
}

// Record is the constraint satisfied by pointers to the model types.
type Record[T any] interface {
	*T
	GetID() int64
	SetID(id int64)
	StampCreated(now time.Time)
	StampUpdated(now time.Time)
	Validate() error
}

// Store is the storage port behind a repository. Update and Delete report the
// number of affected rows so callers can tell a no-op from a real write.
type Store[T any] interface {
	Insert(ctx context.Context, record *T) error
	Get(ctx context.Context, id int64) (T, bool, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, record *T) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Clock returns the current time. Repositories accept one so tests can pin
// the timestamps they assign.
type Clock func() time.Time

// Now returns the clock reading normalized to what SQL timestamps keep:
// UTC with microsecond precision.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return c().UTC().Truncate(time.Microsecond)
}

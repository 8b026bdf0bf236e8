package clinic

import (
	"context"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
)

// Records is a repository without a cache in front of its Store. When
// deactivate is set, Delete keeps the row and only clears its active flag.
type Records[T any, P repository.Record[T]] struct {
	store      repository.Store[T]
	entity     string
	deactivate func(ctx context.Context, id int64) (int64, error)
	logger     *slog.Logger
}

func newRecords[T any, P repository.Record[T]](store repository.Store[T], entity string, logger *slog.Logger) *Records[T, P] {
	return &Records[T, P]{store: store, entity: entity, logger: logger.With("entity", entity)}
}

// Save validates entity and inserts it.
func (r *Records[T, P]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := P(&entity).Validate(); err != nil {
		return zero, err
	}
	if id := P(&entity).GetID(); id != 0 {
		return zero, model.Invalid(r.entity, "id", "id must be empty for a new record", id)
	}
	if err := r.store.Insert(ctx, &entity); err != nil {
		r.logFailure(ctx, "save", err)
		return zero, err
	}
	return entity, nil
}

// FindByID loads the row regardless of its active flag.
func (r *Records[T, P]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	v, ok, err := r.store.Get(ctx, id)
	if err != nil {
		r.logFailure(ctx, "find_by_id", err)
	}
	return v, ok, err
}

// FindAll lists the rows visible to the store's scope.
func (r *Records[T, P]) FindAll(ctx context.Context) ([]T, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		r.logFailure(ctx, "find_all", err)
	}
	return all, err
}

// Delete removes or deactivates the row. An unknown id is not an error.
func (r *Records[T, P]) Delete(ctx context.Context, id int64) error {
	del := r.store.Delete
	if r.deactivate != nil {
		del = r.deactivate
	}
	if _, err := del(ctx, id); err != nil {
		r.logFailure(ctx, "delete", err)
		return err
	}
	return nil
}

// Exists reports whether a row in scope has the identifier.
func (r *Records[T, P]) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.store.Exists(ctx, id)
	if err != nil {
		r.logFailure(ctx, "exists", err)
	}
	return ok, err
}

// Update validates entity and rewrites its row.
func (r *Records[T, P]) Update(ctx context.Context, entity T) error {
	if err := P(&entity).Validate(); err != nil {
		return err
	}
	id := P(&entity).GetID()
	if id == 0 {
		return model.Invalid(r.entity, "id", "id is required for update", id)
	}
	if _, err := r.store.Update(ctx, &entity); err != nil {
		r.logFailure(ctx, "update", err)
		return err
	}
	return nil
}

func (r *Records[T, P]) logFailure(ctx context.Context, op string, err error) {
	args := []any{"op", op, "error", err.Error()}
	for _, attr := range goerrors.ToSlogAttributes(err) {
		args = append(args, attr)
	}
	r.logger.ErrorContext(ctx, "repository operation failed", args...)
}

// codedRecord is a record with a generated human-readable code.
type codedRecord[T any] interface {
	repository.Record[T]
	GetCode() string
	SetCode(code string)
}

// codedTable assigns PREFIX000042 style codes to records inserted without
// one. The code derives from the generated id, so the insert and the code
// update share a transaction.
type codedTable[T any, P codedRecord[T]] struct {
	*repository.Table[T, P]
	prefix  string
	prepare func(record P)
}

func (t *codedTable[T, P]) Insert(ctx context.Context, record *T) error {
	if t.prepare != nil {
		t.prepare(P(record))
	}
	if P(record).GetCode() != "" {
		return t.Table.Insert(ctx, record)
	}

	err := t.Table.DB().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := t.Table.WithDB(tx).Insert(ctx, record); err != nil {
			return err
		}
		P(record).SetCode(model.GenerateCode(t.prefix, P(record).GetID()))
		_, err := tx.NewUpdate().Model(record).Column("codigo").WherePK().Exec(ctx)
		return err
	})
	return repository.Storage(err, t.Entity(), "insert")
}

// Update keeps the stored code when record carries none.
func (t *codedTable[T, P]) Update(ctx context.Context, record *T) (int64, error) {
	if t.prepare != nil {
		t.prepare(P(record))
	}
	if P(record).GetCode() == "" {
		return t.Table.UpdateOmitting(ctx, record, "codigo")
	}
	return t.Table.Update(ctx, record)
}

// preparedTable normalizes records before they are written.
type preparedTable[T any, P repository.Record[T]] struct {
	*repository.Table[T, P]
	prepare func(record P)
}

func (t *preparedTable[T, P]) Insert(ctx context.Context, record *T) error {
	t.prepare(P(record))
	return t.Table.Insert(ctx, record)
}

func (t *preparedTable[T, P]) Update(ctx context.Context, record *T) (int64, error) {
	t.prepare(P(record))
	return t.Table.Update(ctx, record)
}

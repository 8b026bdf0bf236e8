package clinic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
)

// AnimalRepository stores animals across the animal base table and one
// satellite table per variant. Every write runs in one transaction, so a
// base row exists if and only if its satellite row does.
//
// Delete deactivates the base row. FindAll, FindByOwner and Exists only see
// active animals; FindByID sees all.
type AnimalRepository struct {
	db     bun.IDB
	table  *repository.Table[animalRow, *animalRow]
	clock  repository.Clock
	logger *slog.Logger

	// Writes are serialized so that only one transaction is in flight at a
	// time on the shared handle.
	mu sync.Mutex
}

var _ repository.Repository[model.Animal, int64] = (*AnimalRepository)(nil)

// NewAnimalRepository builds an AnimalRepository over db.
func NewAnimalRepository(db bun.IDB, opts Options) *AnimalRepository {
	cfg := opts.table("animal")
	cfg.Scope = repository.ActiveOnly
	return &AnimalRepository{
		db:     db,
		table:  repository.NewTable[animalRow](db, cfg),
		clock:  opts.Clock,
		logger: opts.logger().With("entity", "animal"),
	}
}

// Save validates a, then writes the base row and its satellite row in one
// transaction. Nothing is written when validation fails.
func (r *AnimalRepository) Save(ctx context.Context, a model.Animal) (model.Animal, error) {
	if err := a.Validate(); err != nil {
		return model.Animal{}, err
	}
	if a.ID != 0 {
		return model.Animal{}, model.Invalid("animal", "id", "id must be empty for a new record", a.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := newAnimalRow(a)
	err := r.inTx(ctx, "save", func(ctx context.Context, tx bun.Tx) error {
		if err := r.table.WithDB(tx).Insert(ctx, row); err != nil {
			return err
		}

		if row.Code == "" {
			row.Code = model.GenerateCode(model.PrefixAnimal, row.ID)
			if _, err := tx.NewUpdate().Model(row).Column("codigo").WherePK().Exec(ctx); err != nil {
				return repository.Storage(err, "animal", "assign_code")
			}
		}

		large, small := satellite(row.ID, a.Variant)
		switch {
		case large != nil:
			_, err := tx.NewInsert().Model(large).Exec(ctx)
			return repository.Storage(err, "animal_grande", "insert")
		case small != nil:
			_, err := tx.NewInsert().Model(small).Exec(ctx)
			return repository.Storage(err, "animal_pequenio", "insert")
		default:
			return model.Invalid("animal", "variant", fmt.Sprintf("unsupported variant %T", a.Variant), a.Kind())
		}
	})
	if err != nil {
		return model.Animal{}, err
	}

	a.Base = row.Base
	a.Code = row.Code
	a.BirthDate = row.BirthDate
	return a, nil
}

// FindByID loads the animal and its satellite row. A base row whose
// satellite is missing is reported as a storage error.
func (r *AnimalRepository) FindByID(ctx context.Context, id int64) (model.Animal, bool, error) {
	var row animalRow
	err := r.selectRows(&row).Where("?TableAlias.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Animal{}, false, nil
	}
	if err != nil {
		return model.Animal{}, false, r.fail(ctx, "find_by_id", repository.Storage(err, "animal", "find_by_id"))
	}

	a, ok := row.toModel()
	if !ok {
		return model.Animal{}, false, r.fail(ctx, "find_by_id", missingSatellite(&row))
	}
	return a, true, nil
}

// FindAll lists the active animals ordered by id.
func (r *AnimalRepository) FindAll(ctx context.Context) ([]model.Animal, error) {
	return r.list(ctx, "find_all", nil)
}

// FindByOwner lists the active animals of an owner.
func (r *AnimalRepository) FindByOwner(ctx context.Context, ownerID int64) ([]model.Animal, error) {
	return r.list(ctx, "find_by_owner", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.duenio_id = ?", ownerID)
	})
}

// Exists reports whether an active animal has the identifier.
func (r *AnimalRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.table.Exists(ctx, id)
	if err != nil {
		return false, r.fail(ctx, "exists", err)
	}
	return ok, nil
}

// Delete deactivates the animal. Satellite rows are kept.
func (r *AnimalRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.table.Deactivate(ctx, id); err != nil {
		return r.fail(ctx, "delete", err)
	}
	return nil
}

// Update rewrites the base and satellite rows in one transaction. The
// variant of a stored animal cannot change. An unknown id is not an error.
func (r *AnimalRepository) Update(ctx context.Context, a model.Animal) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == 0 {
		return model.Invalid("animal", "id", "id is required for update", a.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := newAnimalRow(a)
	return r.inTx(ctx, "update", func(ctx context.Context, tx bun.Tx) error {
		var stored string
		err := tx.NewSelect().
			Model((*animalRow)(nil)).
			Column("tipo").
			Where("?TableAlias.id = ?", a.ID).
			Scan(ctx, &stored)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return repository.Storage(err, "animal", "update")
		}
		if model.Kind(stored) != row.Kind {
			return model.Invalid("animal", "variant", "variant of a stored animal cannot change", row.Kind)
		}

		var omit []string
		if row.Code == "" {
			omit = append(omit, "codigo")
		}
		if _, err := r.table.WithDB(tx).UpdateOmitting(ctx, row, omit...); err != nil {
			return err
		}

		large, small := satellite(a.ID, a.Variant)
		if large != nil {
			_, err = tx.NewUpdate().Model(large).WherePK().Exec(ctx)
			return repository.Storage(err, "animal_grande", "update")
		}
		_, err = tx.NewUpdate().Model(small).WherePK().Exec(ctx)
		return repository.Storage(err, "animal_pequenio", "update")
	})
}

func (r *AnimalRepository) selectRows(dest any) *bun.SelectQuery {
	return r.db.NewSelect().Model(dest).Relation("Large").Relation("Small")
}

func (r *AnimalRepository) list(ctx context.Context, op string, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]model.Animal, error) {
	var rows []animalRow
	q := r.selectRows(&rows).Apply(repository.ActiveOnly).OrderExpr("?TableAlias.id ASC")
	if filter != nil {
		q = q.Apply(filter)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, r.fail(ctx, op, repository.Storage(err, "animal", op))
	}

	out := make([]model.Animal, 0, len(rows))
	for i := range rows {
		a, ok := rows[i].toModel()
		if !ok {
			return nil, r.fail(ctx, op, missingSatellite(&rows[i]))
		}
		out = append(out, a)
	}
	return out, nil
}

// inTx runs fn in a transaction. On failure the transaction is rolled back
// and fn's error is returned; a rollback failure is logged and attached to
// that error as metadata.
func (r *AnimalRepository) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx bun.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.fail(ctx, op, repository.Storage(err, "animal", "begin"))
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.ErrorContext(ctx, "rollback failed", "op", op, "error", rbErr.Error())
			err = repository.WithMetadata(err, map[string]any{"rollback_error": rbErr.Error()})
		}
		err = r.fail(ctx, op, err)
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return repository.Storage(err, "animal", "commit")
	}
	return nil
}

func (r *AnimalRepository) fail(ctx context.Context, op string, err error) error {
	if goerrors.IsValidation(err) {
		return err
	}
	args := []any{"op", op, "error", err.Error()}
	for _, attr := range goerrors.ToSlogAttributes(err) {
		args = append(args, attr)
	}
	r.logger.ErrorContext(ctx, "repository operation failed", args...)
	return err
}

func missingSatellite(row *animalRow) error {
	return goerrors.New(
		fmt.Sprintf("animal %d has no satellite row for kind %q", row.ID, row.Kind),
		repository.CategoryStorage,
	).WithTextCode(repository.TextCodeStorage).
		WithMetadata(map[string]any{"animal_id": row.ID, "tipo": string(row.Kind)})
}

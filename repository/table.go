package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// Scope narrows the rows visible to List and Exists, e.g. active rows only.
type Scope func(q *bun.SelectQuery) *bun.SelectQuery

// TableConfig configures a Table.
type TableConfig struct {
	// Entity names the records in error messages, e.g. "hemogram".
	Entity string
	Clock  Clock
	Scope  Scope
}

// Table is a Store over a single bun model table. Identifiers are generated by
// the database and read back through RETURNING.
type Table[T any, P Record[T]] struct {
	db     bun.IDB
	entity string
	clock  Clock
	scope  Scope
}

// NewTable builds a Table over db, which may be a *bun.DB or a bun.Tx.
func NewTable[T any, P Record[T]](db bun.IDB, cfg TableConfig) *Table[T, P] {
	entity := cfg.Entity
	if entity == "" {
		entity = "record"
	}
	return &Table[T, P]{db: db, entity: entity, clock: cfg.Clock, scope: cfg.Scope}
}

// DB exposes the handle the table runs on, for set-based queries.
func (t *Table[T, P]) DB() bun.IDB { return t.db }

// WithDB returns a copy of the table bound to db, typically a bun.Tx.
func (t *Table[T, P]) WithDB(db bun.IDB) *Table[T, P] {
	c := *t
	c.db = db
	return &c
}

// Entity returns the name used in error messages.
func (t *Table[T, P]) Entity() string { return t.entity }

// Insert stamps the record as new and writes it. The generated identifier
// is set on record.
func (t *Table[T, P]) Insert(ctx context.Context, record *T) error {
	P(record).StampCreated(t.clock.Now())
	if _, err := t.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return Storage(err, t.entity, "insert")
	}
	return nil
}

// Get loads the row with the given identifier regardless of scope.
func (t *Table[T, P]) Get(ctx context.Context, id int64) (T, bool, error) {
	record := new(T)
	P(record).SetID(id)

	err := t.db.NewSelect().Model(record).WherePK().Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, Storage(err, t.entity, "get")
	}
	return *record, true, nil
}

// List returns every row in scope ordered by identifier.
func (t *Table[T, P]) List(ctx context.Context) ([]T, error) {
	var records []T
	q := t.db.NewSelect().Model(&records).OrderExpr("?TableAlias.id ASC")
	if t.scope != nil {
		q = t.scope(q)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, Storage(err, t.entity, "list")
	}
	return records, nil
}

// Select starts a query over the table for range and aggregate lookups.
func (t *Table[T, P]) Select(dest any) *bun.SelectQuery {
	return t.db.NewSelect().Model(dest)
}

// Update rewrites every column except id, created_at and activo and
// refreshes updated_at. It returns the number of affected rows.
func (t *Table[T, P]) Update(ctx context.Context, record *T) (int64, error) {
	return t.UpdateOmitting(ctx, record)
}

// UpdateOmitting is Update with extra columns left as stored.
func (t *Table[T, P]) UpdateOmitting(ctx context.Context, record *T, columns ...string) (int64, error) {
	P(record).StampUpdated(t.clock.Now())
	exclude := append([]string{"id", "created_at", "activo"}, columns...)
	res, err := t.db.NewUpdate().
		Model(record).
		ExcludeColumn(exclude...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return 0, Storage(err, t.entity, "update")
	}
	return affected(res, t.entity, "update")
}

// Delete removes the row physically.
func (t *Table[T, P]) Delete(ctx context.Context, id int64) (int64, error) {
	record := new(T)
	P(record).SetID(id)

	res, err := t.db.NewDelete().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return 0, Storage(err, t.entity, "delete")
	}
	return affected(res, t.entity, "delete")
}

// Deactivate flips the active flag off and keeps the row.
func (t *Table[T, P]) Deactivate(ctx context.Context, id int64) (int64, error) {
	record := new(T)
	P(record).SetID(id)

	res, err := t.db.NewUpdate().
		Model(record).
		Set("activo = ?", false).
		Set("updated_at = ?", t.clock.Now()).
		WherePK().
		Exec(ctx)
	if err != nil {
		return 0, Storage(err, t.entity, "deactivate")
	}
	return affected(res, t.entity, "deactivate")
}

// Exists reports whether a row in scope has the identifier.
func (t *Table[T, P]) Exists(ctx context.Context, id int64) (bool, error) {
	record := new(T)
	P(record).SetID(id)

	q := t.db.NewSelect().Model(record).WherePK()
	if t.scope != nil {
		q = t.scope(q)
	}
	ok, err := q.Exists(ctx)
	if err != nil {
		return false, Storage(err, t.entity, "exists")
	}
	return ok, nil
}

func affected(res sql.Result, entity, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, Storage(err, entity, op)
	}
	return n, nil
}

// ActiveOnly is the Scope used by soft-deleting repositories.
func ActiveOnly(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Where("?TableAlias.activo = ?", true)
}

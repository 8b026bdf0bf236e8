package clinic

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/repository"
)

// setQueries runs the set-based lookups of a cache-aside entity. They never
// read or fill the identity cache.
type setQueries[T any] struct {
	db     bun.IDB
	entity string
}

func (q setQueries[T]) where(ctx context.Context, op, column string, value any) ([]T, error) {
	return q.list(ctx, op, func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Where("?TableAlias.? = ?", bun.Ident(column), value).
			OrderExpr("?TableAlias.id ASC")
	})
}

func (q setQueries[T]) count(ctx context.Context, op, column string, value any) (int, error) {
	n, err := q.db.NewSelect().
		Model((*T)(nil)).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Count(ctx)
	if err != nil {
		return 0, repository.Storage(err, q.entity, op)
	}
	return n, nil
}

// dated lists rows whose own date column falls within [from, to].
func (q setQueries[T]) dated(ctx context.Context, column string, from, to time.Time) ([]T, error) {
	start, end, err := dayRange(from, to)
	if err != nil {
		return nil, err
	}
	return q.list(ctx, "find_between", func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Where("?TableAlias.? >= ?", bun.Ident(column), start).
			Where("?TableAlias.? < ?", bun.Ident(column), end).
			OrderExpr("?TableAlias.? ASC, ?TableAlias.id ASC", bun.Ident(column))
	})
}

// consultedBetween lists lab panels whose consultation is dated within
// [from, to].
func (q setQueries[T]) consultedBetween(ctx context.Context, from, to time.Time) ([]T, error) {
	start, end, err := dayRange(from, to)
	if err != nil {
		return nil, err
	}
	return q.list(ctx, "find_between", func(s *bun.SelectQuery) *bun.SelectQuery {
		return s.Join("JOIN consulta AS c ON c.id = ?TableAlias.consulta_id").
			Where("c.fecha >= ?", start).
			Where("c.fecha < ?", end).
			OrderExpr("c.fecha ASC, ?TableAlias.id ASC")
	})
}

// average returns the mean of column over every row, or 0 for an empty table.
func (q setQueries[T]) average(ctx context.Context, column string) (float64, error) {
	var avg sql.NullFloat64
	err := q.db.NewSelect().
		Model((*T)(nil)).
		ColumnExpr("AVG(?TableAlias.?)", bun.Ident(column)).
		Scan(ctx, &avg)
	if err != nil {
		return 0, repository.Storage(err, q.entity, "average")
	}
	return avg.Float64, nil
}

func (q setQueries[T]) list(ctx context.Context, op string, build func(*bun.SelectQuery) *bun.SelectQuery) ([]T, error) {
	var out []T
	if err := q.db.NewSelect().Model(&out).Apply(build).Scan(ctx); err != nil {
		return nil, repository.Storage(err, q.entity, op)
	}
	return out, nil
}

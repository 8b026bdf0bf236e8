package clinic

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
)

// ConsultationRepository stores clinical visits. A consultation saved
// without a date is dated at the repository clock; one saved without a code
// gets CON followed by its zero-padded id.
type ConsultationRepository struct {
	*Records[model.Consultation, *model.Consultation]
	table *repository.Table[model.Consultation, *model.Consultation]
	clock repository.Clock
}

// NewConsultationRepository builds a ConsultationRepository over db.
func NewConsultationRepository(db bun.IDB, opts Options) *ConsultationRepository {
	table := repository.NewTable[model.Consultation](db, opts.table("consultation"))
	clock := opts.Clock
	store := &codedTable[model.Consultation, *model.Consultation]{
		Table:  table,
		prefix: model.PrefixConsultation,
		prepare: func(c *model.Consultation) {
			if c.Date.IsZero() {
				c.Date = clock.Now()
			}
			c.Date = utc(c.Date)
		},
	}
	return &ConsultationRepository{
		Records: newRecords[model.Consultation](store, "consultation", opts.logger()),
		table:   table,
		clock:   clock,
	}
}

// FindByAnimal lists an animal's consultations, oldest first.
func (r *ConsultationRepository) FindByAnimal(ctx context.Context, animalID int64) ([]model.Consultation, error) {
	return r.list(ctx, "find_by_animal", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.animal_id = ?", animalID)
	})
}

// FindByDoctor lists the consultations a doctor attended, oldest first.
func (r *ConsultationRepository) FindByDoctor(ctx context.Context, doctorID int64) ([]model.Consultation, error) {
	return r.list(ctx, "find_by_doctor", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.doctor_id = ?", doctorID)
	})
}

// FindBetween lists the consultations dated within the calendar days
// [from, to], in UTC.
func (r *ConsultationRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.Consultation, error) {
	start, end, err := dayRange(from, to)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, "find_between", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.fecha >= ?", start).Where("?TableAlias.fecha < ?", end)
	})
}

// Finalize closes the consultation. An unknown id is not an error.
func (r *ConsultationRepository) Finalize(ctx context.Context, id int64) error {
	_, err := r.table.DB().NewUpdate().
		Model((*model.Consultation)(nil)).
		Set("finalizada = ?", true).
		Set("updated_at = ?", r.clock.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return repository.Storage(err, "consultation", "finalize")
}

func (r *ConsultationRepository) list(ctx context.Context, op string, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]model.Consultation, error) {
	var out []model.Consultation
	err := r.table.DB().NewSelect().
		Model(&out).
		Apply(filter).
		OrderExpr("?TableAlias.fecha ASC, ?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, repository.Storage(err, "consultation", op)
	}
	return out, nil
}

package clinic

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/cache"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
	"github.com/siga-vet/go-clinic-repository/repositorycache"
)

// ReferralRepository is the cache-aside repository of referrals.
type ReferralRepository struct {
	*repositorycache.CachedRepository[model.Referral, *model.Referral]
	queries setQueries[model.Referral]
}

// NewReferralRepository builds a ReferralRepository over db. Referrals saved
// without a code get DER followed by their zero-padded id.
func NewReferralRepository(db bun.IDB, opts Options) *ReferralRepository {
	store := &codedTable[model.Referral, *model.Referral]{
		Table:   repository.NewTable[model.Referral](db, opts.table("referral")),
		prefix:  model.PrefixReferral,
		prepare: func(r *model.Referral) { r.Date = utc(r.Date) },
	}
	return &ReferralRepository{
		CachedRepository: repositorycache.New[model.Referral](store,
			cache.NewIdentityCache[int64, model.Referral](),
			repositorycache.Config[model.Referral]{
				Entity:  "referral",
				Check:   CheckReferral,
				Logger:  opts.logger(),
				Metrics: opts.Metrics,
			}),
		queries: setQueries[model.Referral]{db: db, entity: "referral"},
	}
}

// FindByDoctor lists the referrals issued by a doctor.
func (r *ReferralRepository) FindByDoctor(ctx context.Context, doctorID int64) ([]model.Referral, error) {
	return r.queries.where(ctx, "find_by_doctor", "doctor_id", doctorID)
}

// FindByAnimal lists the referrals of an animal.
func (r *ReferralRepository) FindByAnimal(ctx context.Context, animalID int64) ([]model.Referral, error) {
	return r.queries.where(ctx, "find_by_animal", "animal_id", animalID)
}

// FindBetween lists the referrals dated within the calendar days [from, to].
func (r *ReferralRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.Referral, error) {
	return r.queries.dated(ctx, "fecha", from, to)
}

// CountByDoctor counts the referrals issued by a doctor.
func (r *ReferralRepository) CountByDoctor(ctx context.Context, doctorID int64) (int, error) {
	return r.queries.count(ctx, "count_by_doctor", "doctor_id", doctorID)
}

// ReturnRepository is the cache-aside repository of follow-up returns.
type ReturnRepository struct {
	*repositorycache.CachedRepository[model.Return, *model.Return]
	queries setQueries[model.Return]
}

// NewReturnRepository builds a ReturnRepository over db.
func NewReturnRepository(db bun.IDB, opts Options) *ReturnRepository {
	store := &preparedTable[model.Return, *model.Return]{
		Table:   repository.NewTable[model.Return](db, opts.table("return")),
		prepare: func(r *model.Return) { r.Date = utc(r.Date) },
	}
	return &ReturnRepository{
		CachedRepository: repositorycache.New[model.Return](store,
			cache.NewIdentityCache[int64, model.Return](),
			repositorycache.Config[model.Return]{
				Entity:  "return",
				Check:   CheckReturn,
				Logger:  opts.logger(),
				Metrics: opts.Metrics,
			}),
		queries: setQueries[model.Return]{db: db, entity: "return"},
	}
}

// FindByReferral lists the returns recorded against a referral.
func (r *ReturnRepository) FindByReferral(ctx context.Context, referralID int64) ([]model.Return, error) {
	return r.queries.where(ctx, "find_by_referral", "derivacion_id", referralID)
}

// CountByReferral counts the returns recorded against a referral.
func (r *ReturnRepository) CountByReferral(ctx context.Context, referralID int64) (int, error) {
	return r.queries.count(ctx, "count_by_referral", "derivacion_id", referralID)
}

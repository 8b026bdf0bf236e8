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

func newPanel[T any, P repository.Record[T]](db bun.IDB, opts Options, entity string, check func(T) error) (*repositorycache.CachedRepository[T, P], setQueries[T]) {
	table := repository.NewTable[T, P](db, opts.table(entity))
	repo := repositorycache.New[T, P](table, cache.NewIdentityCache[int64, T](), repositorycache.Config[T]{
		Entity:  entity,
		Check:   check,
		Logger:  opts.logger(),
		Metrics: opts.Metrics,
	})
	return repo, setQueries[T]{db: db, entity: entity}
}

// HemogramRepository is the cache-aside repository of blood counts.
// Hematocrit must lie in [20, 60] and hemoglobin in [5, 20].
type HemogramRepository struct {
	*repositorycache.CachedRepository[model.Hemogram, *model.Hemogram]
	queries setQueries[model.Hemogram]
}

// NewHemogramRepository builds a HemogramRepository over db.
func NewHemogramRepository(db bun.IDB, opts Options) *HemogramRepository {
	repo, queries := newPanel[model.Hemogram, *model.Hemogram](db, opts, "hemogram", CheckHemogram)
	return &HemogramRepository{CachedRepository: repo, queries: queries}
}

// FindByConsultation lists the hemograms of a consultation.
func (r *HemogramRepository) FindByConsultation(ctx context.Context, consultationID int64) ([]model.Hemogram, error) {
	return r.queries.where(ctx, "find_by_consultation", "consulta_id", consultationID)
}

// FindBetween lists hemograms whose consultation falls within [from, to].
func (r *HemogramRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.Hemogram, error) {
	return r.queries.consultedBetween(ctx, from, to)
}

// AverageHematocrit is the mean hematocrit over every stored hemogram.
func (r *HemogramRepository) AverageHematocrit(ctx context.Context) (float64, error) {
	return r.queries.average(ctx, "hematocrito")
}

// ClinicalChemistryRepository is the cache-aside repository of chemistry
// panels. Glucose and urea must not be negative.
type ClinicalChemistryRepository struct {
	*repositorycache.CachedRepository[model.ClinicalChemistry, *model.ClinicalChemistry]
	queries setQueries[model.ClinicalChemistry]
}

// NewClinicalChemistryRepository builds a ClinicalChemistryRepository over db.
func NewClinicalChemistryRepository(db bun.IDB, opts Options) *ClinicalChemistryRepository {
	repo, queries := newPanel[model.ClinicalChemistry, *model.ClinicalChemistry](db, opts, "clinical_chemistry", CheckClinicalChemistry)
	return &ClinicalChemistryRepository{CachedRepository: repo, queries: queries}
}

// FindByConsultation lists the chemistry panels of a consultation.
func (r *ClinicalChemistryRepository) FindByConsultation(ctx context.Context, consultationID int64) ([]model.ClinicalChemistry, error) {
	return r.queries.where(ctx, "find_by_consultation", "consulta_id", consultationID)
}

// FindBetween lists panels whose consultation falls within [from, to].
func (r *ClinicalChemistryRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.ClinicalChemistry, error) {
	return r.queries.consultedBetween(ctx, from, to)
}

// AverageGlucose is the mean glucose over every stored panel.
func (r *ClinicalChemistryRepository) AverageGlucose(ctx context.Context) (float64, error) {
	return r.queries.average(ctx, "glucosa")
}

// UrinalysisRepository is the cache-aside repository of urine panels.
// Density must lie in [1.000, 1.050] and pH in [4.5, 8.0].
type UrinalysisRepository struct {
	*repositorycache.CachedRepository[model.Urinalysis, *model.Urinalysis]
	queries setQueries[model.Urinalysis]
}

// NewUrinalysisRepository builds a UrinalysisRepository over db.
func NewUrinalysisRepository(db bun.IDB, opts Options) *UrinalysisRepository {
	repo, queries := newPanel[model.Urinalysis, *model.Urinalysis](db, opts, "urinalysis", CheckUrinalysis)
	return &UrinalysisRepository{CachedRepository: repo, queries: queries}
}

// FindByConsultation lists the urinalyses of a consultation.
func (r *UrinalysisRepository) FindByConsultation(ctx context.Context, consultationID int64) ([]model.Urinalysis, error) {
	return r.queries.where(ctx, "find_by_consultation", "consulta_id", consultationID)
}

// FindBetween lists urinalyses whose consultation falls within [from, to].
func (r *UrinalysisRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.Urinalysis, error) {
	return r.queries.consultedBetween(ctx, from, to)
}

// AveragePH is the mean pH over every stored urinalysis.
func (r *UrinalysisRepository) AveragePH(ctx context.Context) (float64, error) {
	return r.queries.average(ctx, "ph")
}

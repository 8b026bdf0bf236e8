package clinic

import (
	"log/slog"

	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
	"github.com/siga-vet/go-clinic-repository/repositorycache"
)

// Options carries the collaborators shared by every clinic repository.
type Options struct {
	// Clock assigns created_at and updated_at. Defaults to the wall clock.
	Clock repository.Clock
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics is optional; cache counters are skipped when nil.
	Metrics *repositorycache.Metrics
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) table(entity string) repository.TableConfig {
	return repository.TableConfig{Entity: entity, Clock: o.Clock}
}

// Models lists every table of the clinic schema in creation order.
func Models() []any {
	return []any{
		(*model.Species)(nil),
		(*model.Breed)(nil),
		(*model.Owner)(nil),
		(*model.Doctor)(nil),
		(*model.Student)(nil),
		(*animalRow)(nil),
		(*largeAnimalRow)(nil),
		(*smallAnimalRow)(nil),
		(*model.Consultation)(nil),
		(*model.Referral)(nil),
		(*model.Return)(nil),
		(*model.Hemogram)(nil),
		(*model.ClinicalChemistry)(nil),
		(*model.Urinalysis)(nil),
	}
}

var (
	_ repository.Repository[model.Referral, int64]          = (*ReferralRepository)(nil)
	_ repository.Repository[model.Return, int64]            = (*ReturnRepository)(nil)
	_ repository.Repository[model.Hemogram, int64]          = (*HemogramRepository)(nil)
	_ repository.Repository[model.ClinicalChemistry, int64] = (*ClinicalChemistryRepository)(nil)
	_ repository.Repository[model.Urinalysis, int64]        = (*UrinalysisRepository)(nil)
	_ repository.Repository[model.Doctor, int64]            = (*DoctorRepository)(nil)
	_ repository.Repository[model.Owner, int64]             = (*OwnerRepository)(nil)
	_ repository.Repository[model.Student, int64]           = (*StudentRepository)(nil)
	_ repository.Repository[model.Consultation, int64]      = (*ConsultationRepository)(nil)
	_ repository.Repository[model.Species, int64]           = (*SpeciesRepository)(nil)
	_ repository.Repository[model.Breed, int64]             = (*BreedRepository)(nil)
)

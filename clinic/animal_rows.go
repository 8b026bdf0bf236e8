package clinic

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/model"
)

// animalRow is the shared part of an animal as stored in the animal table.
// Large and Small are filled by has-one joins on the satellite tables.
type animalRow struct {
	bun.BaseModel `bun:"table:animal,alias:a"`
	model.Base
	Code      string     `bun:"codigo"`
	Name      string     `bun:"nombre,notnull"`
	BirthDate time.Time  `bun:"fecha_nacimiento,notnull"`
	Sex       string     `bun:"sexo"`
	Weight    float64    `bun:"peso"`
	Color     string     `bun:"color"`
	Notes     string     `bun:"observaciones"`
	SpeciesID int64      `bun:"especie_id,notnull"`
	BreedID   int64      `bun:"raza_id,notnull"`
	OwnerID   int64      `bun:"duenio_id,notnull"`
	Kind      model.Kind `bun:"tipo,notnull"`

	Large *largeAnimalRow `bun:"rel:has-one,join:id=animal_id"`
	Small *smallAnimalRow `bun:"rel:has-one,join:id=animal_id"`
}

// Validate is a no-op: rows are only built from an already validated
// model.Animal.
func (animalRow) Validate() error { return nil }

type largeAnimalRow struct {
	bun.BaseModel `bun:"table:animal_grande,alias:ag"`
	AnimalID           int64   `bun:"animal_id,pk"`
	RegistrationNumber string  `bun:"numero_registro,unique,nullzero"`
	Purpose            string  `bun:"proposito"`
	Height             float64 `bun:"altura"`
}

type smallAnimalRow struct {
	bun.BaseModel `bun:"table:animal_pequenio,alias:ap"`
	AnimalID   int64  `bun:"animal_id,pk"`
	Sterilized *bool  `bun:"esterilizado"`
	Microchip  string `bun:"microchip,unique,nullzero"`
}

func newAnimalRow(a model.Animal) *animalRow {
	return &animalRow{
		Base:      a.Base,
		Code:      a.Code,
		Name:      a.Name,
		BirthDate: utc(a.BirthDate),
		Sex:       a.Sex,
		Weight:    a.Weight,
		Color:     a.Color,
		Notes:     a.Notes,
		SpeciesID: a.SpeciesID,
		BreedID:   a.BreedID,
		OwnerID:   a.OwnerID,
		Kind:      a.Kind(),
	}
}

// satellite builds the variant row for animal id. Exactly one of the two
// results is non-nil.
func satellite(id int64, v model.Variant) (*largeAnimalRow, *smallAnimalRow) {
	switch v := v.(type) {
	case model.LargeAnimal:
		return &largeAnimalRow{AnimalID: id, RegistrationNumber: v.RegistrationNumber, Purpose: v.Purpose, Height: v.Height}, nil
	case *model.LargeAnimal:
		return satellite(id, *v)
	case model.SmallAnimal:
		return nil, &smallAnimalRow{AnimalID: id, Sterilized: v.Sterilized, Microchip: v.Microchip}
	case *model.SmallAnimal:
		return satellite(id, *v)
	}
	return nil, nil
}

// toModel rebuilds the animal, choosing the variant from the discriminator.
// It reports false when the satellite row for that discriminator is missing.
func (r *animalRow) toModel() (model.Animal, bool) {
	a := model.Animal{
		Base:      r.Base,
		Code:      r.Code,
		Name:      r.Name,
		BirthDate: r.BirthDate,
		Sex:       r.Sex,
		Weight:    r.Weight,
		Color:     r.Color,
		Notes:     r.Notes,
		SpeciesID: r.SpeciesID,
		BreedID:   r.BreedID,
		OwnerID:   r.OwnerID,
	}
	switch r.Kind {
	case model.KindLarge:
		if r.Large == nil {
			return a, false
		}
		a.Variant = model.LargeAnimal{
			RegistrationNumber: r.Large.RegistrationNumber,
			Purpose:            r.Large.Purpose,
			Height:             r.Large.Height,
		}
	case model.KindSmall:
		if r.Small == nil {
			return a, false
		}
		a.Variant = model.SmallAnimal{
			Sterilized: r.Small.Sterilized,
			Microchip:  r.Small.Microchip,
		}
	default:
		return a, false
	}
	return a, true
}

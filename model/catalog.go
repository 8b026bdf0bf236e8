package model

import "github.com/uptrace/bun"

// Species is a catalog entry such as "Canine".
type Species struct {
	bun.BaseModel `bun:"table:especie,alias:e" json:"-"`
	Base
	Name        string `bun:"nombre,notnull" json:"name"`
	Description string `bun:"descripcion" json:"description"`
}

// Validate implements the record contract.
func (s Species) Validate() error {
	return firstFailure("species", field("name", s.Name, required("name")))
}

// Breed belongs to exactly one Species.
type Breed struct {
	bun.BaseModel `bun:"table:raza,alias:r" json:"-"`
	Base
	Name      string `bun:"nombre,notnull" json:"name"`
	SpeciesID int64  `bun:"especie_id,notnull" json:"species_id"`
}

// Validate implements the record contract.
func (b Breed) Validate() error {
	return firstFailure("breed",
		field("name", b.Name, required("name")),
		field("species_id", b.SpeciesID, required("species")),
	)
}

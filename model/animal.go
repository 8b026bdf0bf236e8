package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind is the discriminator stored in animal.tipo.
type Kind string

const (
	KindLarge Kind = "G"
	KindSmall Kind = "P"
)

// Variant carries the fields specific to one animal subtype. The unexported
// method keeps the set closed to LargeAnimal and SmallAnimal.
type Variant interface {
	Kind() Kind
	validate() error
}

// Animal is a patient. Exactly one Variant is attached.
type Animal struct {
	Base
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Sex       string    `json:"sex"`
	Weight    float64   `json:"weight"`
	Color     string    `json:"color"`
	Notes     string    `json:"notes"`
	SpeciesID int64     `json:"species_id"`
	BreedID   int64     `json:"breed_id"`
	OwnerID   int64     `json:"owner_id"`
	Variant   Variant   `json:"variant"`
}

// LargeAnimal holds the livestock-specific columns of animal_grande.
type LargeAnimal struct {
	RegistrationNumber string  `json:"registration_number"`
	Purpose            string  `json:"purpose"`
	Height             float64 `json:"height"`
}

// Kind implements Variant.
func (LargeAnimal) Kind() Kind { return KindLarge }

func (l LargeAnimal) validate() error {
	return firstFailure("large animal",
		field("registration_number", l.RegistrationNumber, required("registration number")),
		field("purpose", l.Purpose, required("purpose")),
		field("height", l.Height, NonNegative),
	)
}

// SmallAnimal holds the pet-specific columns of animal_pequenio.
// Sterilized is a pointer so that "unknown" can be told apart from false.
type SmallAnimal struct {
	Sterilized *bool  `json:"sterilized"`
	Microchip  string `json:"microchip"`
}

// Kind implements Variant.
func (SmallAnimal) Kind() Kind { return KindSmall }

func (s SmallAnimal) validate() error {
	return firstFailure("small animal",
		field("sterilized", s.Sterilized, validation.NotNil.Error("sterilization flag is required")),
	)
}

// Kind reports the discriminator of the attached variant, or "" when none is set.
func (a Animal) Kind() Kind {
	v := concrete(a.Variant)
	if v == nil {
		return ""
	}
	return v.Kind()
}

// concrete dereferences pointer variants. A nil pointer yields nil.
func concrete(v Variant) Variant {
	switch v := v.(type) {
	case *LargeAnimal:
		if v == nil {
			return nil
		}
		return *v
	case *SmallAnimal:
		if v == nil {
			return nil
		}
		return *v
	}
	return v
}

// Validate checks the shared fields first, then the variant's own fields.
func (a Animal) Validate() error {
	if err := firstFailure("animal",
		field("name", a.Name, required("name")),
		field("birth_date", a.BirthDate, required("birth date")),
		field("owner_id", a.OwnerID, required("owner")),
		field("species_id", a.SpeciesID, required("species")),
		field("breed_id", a.BreedID, required("breed")),
		field("weight", a.Weight, NonNegative),
	); err != nil {
		return err
	}
	v := concrete(a.Variant)
	if v == nil {
		return Invalid("animal", "variant", "variant is required", nil)
	}
	return v.validate()
}

// AgeAt returns the whole years elapsed between the birth date and now.
func (a Animal) AgeAt(now time.Time) int {
	if a.BirthDate.IsZero() || now.Before(a.BirthDate) {
		return 0
	}
	by, bm, bd := a.BirthDate.Date()
	ny, nm, nd := now.In(a.BirthDate.Location()).Date()
	years := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		years--
	}
	return years
}

// Age is AgeAt evaluated against the current time.
func (a Animal) Age() int {
	return a.AgeAt(time.Now())
}

// Bool returns a pointer to v, handy for SmallAnimal.Sterilized.
func Bool(v bool) *bool { return &v }

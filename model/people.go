package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"
)

// Doctor is a veterinarian. Deleting a doctor only deactivates the row.
type Doctor struct {
	bun.BaseModel `bun:"table:doctor,alias:d" json:"-"`
	Base
	DNI       string `bun:"dni,notnull" json:"dni"`
	FirstName string `bun:"nombre,notnull" json:"first_name"`
	LastName  string `bun:"apellido,notnull" json:"last_name"`
	License   string `bun:"matricula,notnull" json:"license"`
	Phone     string `bun:"telefono" json:"phone"`
	Email     string `bun:"email" json:"email"`
	Address   string `bun:"direccion" json:"address"`
}

// Validate implements the record contract.
func (d Doctor) Validate() error {
	return firstFailure("doctor",
		field("dni", d.DNI, required("dni"), validation.Match(dniPattern).Error("dni must have 8 digits")),
		field("first_name", d.FirstName, required("first name")),
		field("last_name", d.LastName, required("last name")),
		field("license", d.License, required("license")),
		field("email", d.Email, is.EmailFormat.Error("email is malformed")),
	)
}

// FullName joins first and last name.
func (d Doctor) FullName() string { return d.FirstName + " " + d.LastName }

// Owner is the person responsible for an animal.
type Owner struct {
	bun.BaseModel `bun:"table:duenio,alias:o" json:"-"`
	Base
	DNI       string `bun:"dni,notnull" json:"dni"`
	FirstName string `bun:"nombre,notnull" json:"first_name"`
	LastName  string `bun:"apellido,notnull" json:"last_name"`
	Phone     string `bun:"telefono,notnull" json:"phone"`
	Email     string `bun:"email" json:"email"`
	Address   string `bun:"direccion" json:"address"`
}

// Validate implements the record contract.
func (o Owner) Validate() error {
	return firstFailure("owner",
		field("dni", o.DNI, required("dni"), validation.Match(dniPattern).Error("dni must have 8 digits")),
		field("first_name", o.FirstName, required("first name")),
		field("last_name", o.LastName, required("last name")),
		field("phone", o.Phone, required("phone")),
		field("email", o.Email, is.EmailFormat.Error("email is malformed")),
	)
}

// Student is an intern who may take part in consultations and referrals.
type Student struct {
	bun.BaseModel `bun:"table:alumno,alias:s" json:"-"`
	Base
	DNI        string `bun:"dni,notnull" json:"dni"`
	FirstName  string `bun:"nombre,notnull" json:"first_name"`
	LastName   string `bun:"apellido,notnull" json:"last_name"`
	FileNumber string `bun:"legajo" json:"file_number"`
}

// Validate implements the record contract.
func (s Student) Validate() error {
	return firstFailure("student",
		field("dni", s.DNI, required("dni"), validation.Match(dniPattern).Error("dni must have 8 digits")),
		field("first_name", s.FirstName, required("first name")),
		field("last_name", s.LastName, required("last name")),
	)
}

package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Referral sends an animal to another doctor or service.
type Referral struct {
	bun.BaseModel `bun:"table:derivacion,alias:der" json:"-"`
	Base
	Code      string    `bun:"codigo" json:"code"`
	Date      time.Time `bun:"fecha" json:"date"`
	Reason    string    `bun:"motivo,notnull" json:"reason"`
	Notes     string    `bun:"observaciones" json:"notes"`
	AnimalID  int64     `bun:"animal_id,notnull" json:"animal_id"`
	DoctorID  int64     `bun:"doctor_id,notnull" json:"doctor_id"`
	StudentID *int64    `bun:"alumno_id" json:"student_id,omitempty"`
}

// Validate implements the record contract.
func (r Referral) Validate() error {
	return firstFailure("referral",
		field("reason", r.Reason, required("reason")),
		field("animal_id", r.AnimalID, required("animal")),
		field("doctor_id", r.DoctorID, required("doctor")),
	)
}

// Return is a follow-up visit closing (part of) a referral. A referral may
// have many returns.
type Return struct {
	bun.BaseModel `bun:"table:retorno,alias:ret" json:"-"`
	Base
	ReferralID int64     `bun:"derivacion_id,notnull" json:"referral_id"`
	Date       time.Time `bun:"fecha_retorno" json:"date"`
	Diagnosis  string    `bun:"diagnostico" json:"diagnosis"`
	Treatment  string    `bun:"tratamiento" json:"treatment"`
	Notes      string    `bun:"observaciones" json:"notes"`
}

// Validate implements the record contract.
func (r Return) Validate() error {
	return firstFailure("return",
		field("referral_id", r.ReferralID, required("referral")),
	)
}

// GetCode returns the human-readable record code.
func (r Referral) GetCode() string { return r.Code }

// SetCode records a generated code.
func (r *Referral) SetCode(code string) { r.Code = code }

// Clone returns a copy that shares no pointers with r.
func (r Referral) Clone() Referral {
	r.StudentID = cloneID(r.StudentID)
	return r
}

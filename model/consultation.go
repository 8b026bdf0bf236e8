package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// Consultation types.
const (
	ConsultationSmall = "small"
	ConsultationLarge = "large"
)

// Consultation is a clinical visit. Date defaults to the creation time and
// Finalized to false.
type Consultation struct {
	bun.BaseModel `bun:"table:consulta,alias:c" json:"-"`
	Base
	Code      string    `bun:"codigo" json:"code"`
	Date      time.Time `bun:"fecha,notnull" json:"date"`
	Reason    string    `bun:"motivo,notnull" json:"reason"`
	Diagnosis string    `bun:"diagnostico" json:"diagnosis"`
	Treatment string    `bun:"tratamiento" json:"treatment"`
	Notes     string    `bun:"observaciones" json:"notes"`
	AnimalID  int64     `bun:"animal_id,notnull" json:"animal_id"`
	DoctorID  int64     `bun:"doctor_id,notnull" json:"doctor_id"`
	StudentID *int64    `bun:"alumno_id" json:"student_id,omitempty"`
	Type      string    `bun:"tipo,notnull" json:"type"`
	Finalized bool      `bun:"finalizada,notnull" json:"finalized"`
}

// NewConsultation returns a consultation dated now and not yet finalized.
func NewConsultation(animalID, doctorID int64, kind, reason string) Consultation {
	return Consultation{
		Date:     time.Now(),
		Reason:   reason,
		AnimalID: animalID,
		DoctorID: doctorID,
		Type:     kind,
	}
}

// Validate implements the record contract.
func (c Consultation) Validate() error {
	return firstFailure("consultation",
		field("reason", c.Reason, required("reason")),
		field("animal_id", c.AnimalID, required("animal")),
		field("doctor_id", c.DoctorID, required("doctor")),
		field("type", c.Type, required("type"),
			validation.In(ConsultationSmall, ConsultationLarge).Error("type must be small or large")),
	)
}

// GetCode returns the human-readable record code.
func (c Consultation) GetCode() string { return c.Code }

// SetCode records a generated code.
func (c *Consultation) SetCode(code string) { c.Code = code }

// Clone returns a copy that shares no pointers with c.
func (c Consultation) Clone() Consultation {
	c.StudentID = cloneID(c.StudentID)
	return c
}

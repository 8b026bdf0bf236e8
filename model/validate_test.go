package model

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func firstField(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok || len(fields) == 0 {
		t.Fatalf("expected validation field errors, got %v", err)
	}
	return fields[0].Field
}

func TestDoctorValidate(t *testing.T) {
	valid := Doctor{DNI: "12345678", FirstName: "Ana", LastName: "Paz", License: "MV-10"}

	tests := []struct {
		name   string
		mutate func(*Doctor)
		want   string
	}{
		{"valid", func(d *Doctor) {}, ""},
		{"short dni", func(d *Doctor) { d.DNI = "1234" }, "dni"},
		{"letters in dni", func(d *Doctor) { d.DNI = "1234567A" }, "dni"},
		{"missing last name", func(d *Doctor) { d.LastName = "" }, "last_name"},
		{"missing license", func(d *Doctor) { d.License = "" }, "license"},
		{"bad email", func(d *Doctor) { d.Email = "not-an-email" }, "email"},
		{"good email", func(d *Doctor) { d.Email = "ana@clinic.vet" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if got := firstField(t, d.Validate()); got != tt.want {
				t.Errorf("expected field %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConsultationValidate(t *testing.T) {
	c := NewConsultation(1, 2, ConsultationSmall, "vomiting")
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid consultation, got %v", err)
	}
	if c.Finalized {
		t.Error("new consultation should not be finalized")
	}
	if c.Date.IsZero() {
		t.Error("new consultation should be dated")
	}

	c.Type = "exotic"
	if got := firstField(t, c.Validate()); got != "type" {
		t.Errorf("expected type error, got %q", got)
	}
	c.Type = ""
	if got := firstField(t, c.Validate()); got != "type" {
		t.Errorf("expected type error for empty type, got %q", got)
	}
}

func TestLabValidate(t *testing.T) {
	if got := firstField(t, Hemogram{Hematocrit: 40}.Validate()); got != "consultation_id" {
		t.Errorf("expected consultation_id, got %q", got)
	}
	if got := firstField(t, Hemogram{ConsultationID: 1, Hemoglobin: -2}.Validate()); got != "hemoglobin" {
		t.Errorf("expected hemoglobin, got %q", got)
	}
	if got := firstField(t, Urinalysis{ConsultationID: 1, PH: 15}.Validate()); got != "ph" {
		t.Errorf("expected ph, got %q", got)
	}
	if err := (Urinalysis{ConsultationID: 1, PH: 0}).Validate(); err != nil {
		t.Errorf("pH 0 is structurally valid, got %v", err)
	}
}

func TestBetween(t *testing.T) {
	rule := Between(4.5, 8.0)
	for _, v := range []float64{4.5, 6, 8.0} {
		if err := rule.Validate(v); err != nil {
			t.Errorf("%g should pass: %v", v, err)
		}
	}
	for _, v := range []float64{0, 4.49, 8.01} {
		if err := rule.Validate(v); err == nil {
			t.Errorf("%g should fail", v)
		}
	}
}

func TestGenerateCode(t *testing.T) {
	if got := GenerateCode("ANI", 42); got != "ANI000042" {
		t.Errorf("unexpected code %q", got)
	}
}

func TestClone_DetachesStudent(t *testing.T) {
	student := int64(4)
	r := Referral{Reason: "x", StudentID: &student}
	rc := r.Clone()
	c := Consultation{Reason: "x", StudentID: &student}
	cc := c.Clone()

	student = 9
	if *rc.StudentID != 4 || *cc.StudentID != 4 {
		t.Errorf("clones must not follow the original pointer, got %d and %d", *rc.StudentID, *cc.StudentID)
	}
	if (Referral{}).Clone().StudentID != nil {
		t.Error("a nil student stays nil")
	}
}

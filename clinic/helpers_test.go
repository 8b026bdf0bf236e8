package clinic_test

import (
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/clinic"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/pkg/testsupport"
	"github.com/siga-vet/go-clinic-repository/repository"
)

var epoch = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

func newClinicDB(t *testing.T) *bun.DB {
	t.Helper()
	return testsupport.NewTestDB(t, clinic.Models()...)
}

func fixedOptions(at time.Time) clinic.Options {
	return clinic.Options{Clock: repository.Clock(testsupport.FixedClock(at))}
}

// utcBase makes timestamps read back from storage comparable with ==.
func utcBase(b model.Base) model.Base {
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	if !repository.IsValidation(err) {
		t.Fatalf("expected validation error on %s, got %v", field, err)
	}
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok || len(fields) == 0 {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fields[0].Field != field {
		t.Errorf("expected failure on %s, got %s (%s)", field, fields[0].Field, fields[0].Message)
	}
}

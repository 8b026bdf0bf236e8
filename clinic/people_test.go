package clinic_test

import (
	"context"
	"testing"

	"github.com/siga-vet/go-clinic-repository/clinic"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/pkg/testsupport"
)

func TestDoctorRepository_SoftDelete(t *testing.T) {
	db := newClinicDB(t)
	repo := clinic.NewDoctorRepository(db, fixedOptions(epoch))
	ctx := context.Background()

	ana, err := repo.Save(ctx, model.Doctor{DNI: "30111222", FirstName: "Ana", LastName: "Paz", License: "MP-100", Email: "ana@vet.example"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	luis, err := repo.Save(ctx, model.Doctor{DNI: "30111333", FirstName: "Luis", LastName: "Sosa", License: "MP-200"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := repo.Delete(ctx, ana.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if n := testsupport.CountRows(t, db, "doctor"); n != 2 {
		t.Errorf("soft delete must keep the row, found %d", n)
	}

	if ok, _ := repo.Exists(ctx, ana.ID); ok {
		t.Error("inactive doctor must not exist")
	}
	all, err := repo.FindAll(ctx)
	if err != nil || len(all) != 1 || all[0].ID != luis.ID {
		t.Errorf("FindAll() = %+v, %v", all, err)
	}
	got, ok, err := repo.FindByID(ctx, ana.ID)
	if err != nil || !ok || got.Active {
		t.Errorf("FindByID() must see inactive doctors, got ok=%v active=%v err=%v", ok, got.Active, err)
	}

	if _, ok, _ := repo.FindByLicense(ctx, "MP-100"); ok {
		t.Error("inactive doctors are not found by license")
	}
	found, ok, err := repo.FindByLicense(ctx, "MP-200")
	if err != nil || !ok || found.FullName() != "Luis Sosa" {
		t.Errorf("FindByLicense() = %+v, %v, %v", found, ok, err)
	}
}

func TestDoctorRepository_Validation(t *testing.T) {
	repo := clinic.NewDoctorRepository(newClinicDB(t), fixedOptions(epoch))
	ctx := context.Background()

	tests := []struct {
		name   string
		doctor model.Doctor
		field  string
	}{
		{"short dni", model.Doctor{DNI: "1234", FirstName: "A", LastName: "B", License: "L"}, "dni"},
		{"missing license", model.Doctor{DNI: "12345678", FirstName: "A", LastName: "B"}, "license"},
		{"bad email", model.Doctor{DNI: "12345678", FirstName: "A", LastName: "B", License: "L", Email: "nope"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Save(ctx, tt.doctor)
			assertValidationField(t, err, tt.field)
		})
	}
}

func TestOwnerAndStudentRepositories(t *testing.T) {
	db := newClinicDB(t)
	ctx := context.Background()

	owners := clinic.NewOwnerRepository(db, fixedOptions(epoch))
	owner, err := owners.Save(ctx, model.Owner{DNI: "28999111", FirstName: "Marta", LastName: "Gil", Phone: "351-555-0000"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	found, ok, err := owners.FindByDNI(ctx, "28999111")
	if err != nil || !ok || found.ID != owner.ID {
		t.Errorf("FindByDNI() = %+v, %v, %v", found, ok, err)
	}
	if err := owners.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if n := testsupport.CountRows(t, db, "duenio"); n != 0 {
		t.Errorf("owners are deleted physically, found %d", n)
	}

	_, err = owners.Save(ctx, model.Owner{DNI: "28999112", FirstName: "Marta", LastName: "Gil"})
	assertValidationField(t, err, "phone")

	students := clinic.NewStudentRepository(db, fixedOptions(epoch))
	s, err := students.Save(ctx, model.Student{DNI: "40123456", FirstName: "Juan", LastName: "Lopez", FileNumber: "L-77"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	s.FileNumber = "L-78"
	if err := students.Update(ctx, s); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	got, _, _ := students.FindByID(ctx, s.ID)
	if got.FileNumber != "L-78" {
		t.Errorf("expected updated file number, got %q", got.FileNumber)
	}
}

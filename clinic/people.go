package clinic

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/repository"
)

// DoctorRepository stores veterinarians. Delete deactivates the row;
// FindAll and Exists only see active doctors while FindByID sees all.
type DoctorRepository struct {
	*Records[model.Doctor, *model.Doctor]
	table *repository.Table[model.Doctor, *model.Doctor]
}

// NewDoctorRepository builds a DoctorRepository over db.
func NewDoctorRepository(db bun.IDB, opts Options) *DoctorRepository {
	cfg := opts.table("doctor")
	cfg.Scope = repository.ActiveOnly
	table := repository.NewTable[model.Doctor](db, cfg)

	records := newRecords[model.Doctor](table, "doctor", opts.logger())
	records.deactivate = table.Deactivate
	return &DoctorRepository{Records: records, table: table}
}

// FindByLicense returns the active doctor holding the license number.
func (r *DoctorRepository) FindByLicense(ctx context.Context, license string) (model.Doctor, bool, error) {
	var d model.Doctor
	err := r.table.DB().NewSelect().
		Model(&d).
		Where("?TableAlias.matricula = ?", license).
		Apply(repository.ActiveOnly).
		Limit(1).
		Scan(ctx)
	return oneRow(d, err, "doctor", "find_by_license")
}

// OwnerRepository stores animal owners.
type OwnerRepository struct {
	*Records[model.Owner, *model.Owner]
	table *repository.Table[model.Owner, *model.Owner]
}

// NewOwnerRepository builds an OwnerRepository over db.
func NewOwnerRepository(db bun.IDB, opts Options) *OwnerRepository {
	table := repository.NewTable[model.Owner](db, opts.table("owner"))
	return &OwnerRepository{
		Records: newRecords[model.Owner](table, "owner", opts.logger()),
		table:   table,
	}
}

// FindByDNI looks an owner up by national id.
func (r *OwnerRepository) FindByDNI(ctx context.Context, dni string) (model.Owner, bool, error) {
	var o model.Owner
	err := r.table.DB().NewSelect().
		Model(&o).
		Where("?TableAlias.dni = ?", dni).
		Limit(1).
		Scan(ctx)
	return oneRow(o, err, "owner", "find_by_dni")
}

// StudentRepository stores interns.
type StudentRepository struct {
	*Records[model.Student, *model.Student]
}

// NewStudentRepository builds a StudentRepository over db.
func NewStudentRepository(db bun.IDB, opts Options) *StudentRepository {
	table := repository.NewTable[model.Student](db, opts.table("student"))
	return &StudentRepository{Records: newRecords[model.Student](table, "student", opts.logger())}
}

func oneRow[T any](v T, err error, entity, op string) (T, bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, repository.Storage(err, entity, op)
	}
	return v, true, nil
}

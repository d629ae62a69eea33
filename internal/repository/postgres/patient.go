package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, clinic_id, created_by, name, phone, email, gender,
			date_of_birth, address, mode, gravida, para, last_period, expected_due,
			created_at, updated_at)
		VALUES (:id, :clinic_id, :created_by, :name, :phone, :email, :gender,
			:date_of_birth, :address, :mode, :gravida, :para, :last_period, :expected_due,
			:created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND clinic_id = $2`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, clinicID uuid.UUID, f *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if f != nil && f.Mode != "" {
		args = append(args, f.Mode)
		query += fmt.Sprintf(" AND mode = $%d", len(args))
	}
	if f != nil && f.SearchTerm != "" {
		args = append(args, "%"+f.SearchTerm+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = :name, phone = :phone, email = :email, gender = :gender, date_of_birth = :date_of_birth,
			address = :address, gravida = :gravida, para = :para, last_period = :last_period,
			expected_due = :expected_due, updated_at = :updated_at
		WHERE id = :id AND clinic_id = :clinic_id
	`
	res, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return requireRow(res)
}

func (r *patientRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1 AND clinic_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return requireRow(res)
}

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

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (id, clinic_id, created_by, patient_id, note, fee, visit_date,
			follow_up, photo_path, created_at, updated_at)
		VALUES (:id, :clinic_id, :created_by, :patient_id, :note, :fee, :visit_date,
			:follow_up, :photo_path, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, visit); err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Visit, error) {
	query := `SELECT * FROM visits WHERE id = $1 AND clinic_id = $2`
	var visit model.Visit
	err := r.db.GetContext(ctx, &visit, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context, clinicID uuid.UUID, f *model.VisitFilters) ([]*model.Visit, error) {
	query := `SELECT * FROM visits WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if f != nil && f.PatientID != uuid.Nil {
		args = append(args, f.PatientID)
		query += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if f != nil && !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND visit_date >= $%d", len(args))
	}
	if f != nil && !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND visit_date < $%d", len(args))
	}
	query += " ORDER BY visit_date DESC"

	visits := []*model.Visit{}
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	query := `
		UPDATE visits
		SET note = :note, fee = :fee, follow_up = :follow_up, photo_path = :photo_path,
			updated_at = :updated_at
		WHERE id = :id AND clinic_id = :clinic_id
	`
	res, err := r.db.NamedExecContext(ctx, query, visit)
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}
	return requireRow(res)
}

func (r *visitRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `DELETE FROM visits WHERE id = $1 AND clinic_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	return requireRow(res)
}

func (r *visitRepository) DeleteByPatient(ctx context.Context, clinicID, patientID uuid.UUID) error {
	query := `DELETE FROM visits WHERE patient_id = $1 AND clinic_id = $2`
	if _, err := r.db.ExecContext(ctx, query, patientID, clinicID); err != nil {
		return fmt.Errorf("failed to delete patient visits: %w", err)
	}
	return nil
}

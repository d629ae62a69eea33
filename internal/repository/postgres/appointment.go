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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, clinic_id, created_by, patient_id, assignee_id,
			start_time, end_time, status, notes, created_at, updated_at)
		VALUES (:id, :clinic_id, :created_by, :patient_id, :assignee_id,
			:start_time, :end_time, :status, :notes, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1 AND clinic_id = $2`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, clinicID uuid.UUID, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if f != nil && f.PatientID != uuid.Nil {
		args = append(args, f.PatientID)
		query += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if f != nil && f.AssigneeID != uuid.Nil {
		args = append(args, f.AssigneeID)
		query += fmt.Sprintf(" AND assignee_id = $%d", len(args))
	}
	if f != nil && f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f != nil && !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if f != nil && !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND start_time < $%d", len(args))
	}
	query += " ORDER BY start_time ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = :start_time, end_time = :end_time, status = :status,
			notes = :notes, updated_at = :updated_at
		WHERE id = :id AND clinic_id = :clinic_id
	`
	res, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireRow(res)
}

func (r *appointmentRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1 AND clinic_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireRow(res)
}

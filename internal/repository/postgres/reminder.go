package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
)

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (id, clinic_id, appointment_id, email, send_at, status,
			created_at, updated_at)
		VALUES (:id, :clinic_id, :appointment_id, :email, :send_at, :status,
			:created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) ListDue(ctx context.Context, limit int) ([]*model.Reminder, error) {
	query := `
		SELECT * FROM reminders
		WHERE status = $1 AND send_at <= $2
		ORDER BY send_at ASC
		LIMIT $3
	`
	reminders := []*model.Reminder{}
	if err := r.db.SelectContext(ctx, &reminders, query, model.ReminderPending, time.Now(), limit); err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ReminderStatus) error {
	query := `UPDATE reminders SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reminder status: %w", err)
	}
	return requireRow(res)
}

func (r *reminderRepository) DeleteByAppointment(ctx context.Context, clinicID, appointmentID uuid.UUID) error {
	query := `DELETE FROM reminders WHERE appointment_id = $1 AND clinic_id = $2`
	if _, err := r.db.ExecContext(ctx, query, appointmentID, clinicID); err != nil {
		return fmt.Errorf("failed to delete appointment reminders: %w", err)
	}
	return nil
}

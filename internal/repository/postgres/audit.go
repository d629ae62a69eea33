package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, clinic_id, profile_id, action, entity_kind, entity_id,
			before_state, after_state, created_at)
		VALUES (:id, :clinic_id, :profile_id, :action, :entity_kind, :entity_id,
			:before_state, :after_state, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, clinicID uuid.UUID, f *model.AuditFilters) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if f != nil && f.EntityKind != "" {
		args = append(args, f.EntityKind)
		query += fmt.Sprintf(" AND entity_kind = $%d", len(args))
	}
	if f != nil && f.ProfileID != uuid.Nil {
		args = append(args, f.ProfileID)
		query += fmt.Sprintf(" AND profile_id = $%d", len(args))
	}
	if f != nil && !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f != nil && !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	logs := []*model.AuditLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

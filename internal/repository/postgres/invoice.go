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

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (id, clinic_id, created_by, patient_id, visit_id, amount,
			status, issued_at, paid_at, created_at, updated_at)
		VALUES (:id, :clinic_id, :created_by, :patient_id, :visit_id, :amount,
			:status, :issued_at, :paid_at, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1 AND clinic_id = $2`
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, clinicID uuid.UUID, f *model.InvoiceFilters) ([]*model.Invoice, error) {
	query := `SELECT * FROM invoices WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if f != nil && f.PatientID != uuid.Nil {
		args = append(args, f.PatientID)
		query += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if f != nil && f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	invoices := []*model.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = :amount, status = :status, issued_at = :issued_at, paid_at = :paid_at,
			updated_at = :updated_at
		WHERE id = :id AND clinic_id = :clinic_id
	`
	res, err := r.db.NamedExecContext(ctx, query, invoice)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return requireRow(res)
}

func (r *invoiceRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1 AND clinic_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return requireRow(res)
}

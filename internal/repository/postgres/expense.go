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

type expenseRepository struct {
	db *sqlx.DB
}

func NewExpenseRepository(db *sqlx.DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	query := `
		INSERT INTO expenses (id, clinic_id, created_by, amount, category, description,
			expense_date, mode, created_at, updated_at)
		VALUES (:id, :clinic_id, :created_by, :amount, :category, :description,
			:expense_date, :mode, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, expense); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Expense, error) {
	query := `SELECT * FROM expenses WHERE id = $1 AND clinic_id = $2`
	var expense model.Expense
	err := r.db.GetContext(ctx, &expense, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, clinicID uuid.UUID, f *model.ExpenseFilters) ([]*model.Expense, error) {
	query := `SELECT * FROM expenses WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if f != nil && f.Mode != "" {
		args = append(args, f.Mode)
		query += fmt.Sprintf(" AND mode = $%d", len(args))
	}
	if f != nil && f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f != nil && !f.From.IsZero() {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	if f != nil && !f.To.IsZero() {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND expense_date < $%d", len(args))
	}
	query += " ORDER BY expense_date DESC"

	expenses := []*model.Expense{}
	if err := r.db.SelectContext(ctx, &expenses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	query := `
		UPDATE expenses
		SET amount = :amount, category = :category, description = :description,
			expense_date = :expense_date, updated_at = :updated_at
		WHERE id = :id AND clinic_id = :clinic_id
	`
	res, err := r.db.NamedExecContext(ctx, query, expense)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireRow(res)
}

func (r *expenseRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE id = $1 AND clinic_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(res)
}

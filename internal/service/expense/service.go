package expense

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/service/audit"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

type ExpenseService interface {
	Create(ctx context.Context, sc *session.Scope, req *model.CreateExpenseRequest) (*model.Expense, error)
	Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, sc *session.Scope, f *model.ExpenseFilters) ([]*model.Expense, error)
	Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateExpenseRequest) (*model.Expense, error)
	Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error
}

type Service struct {
	repo    repository.ExpenseRepository
	auditor *audit.Service
}

func NewService(repo repository.ExpenseRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, sc *session.Scope, req *model.CreateExpenseRequest) (*model.Expense, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	now := time.Now()
	expense := &model.Expense{
		Base: model.Base{
			ID:        uuid.New(),
			ClinicID:  sc.ClinicID,
			CreatedBy: sc.ProfileID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ExpenseDate: req.ExpenseDate,
		Mode:        req.Mode,
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, apperrors.Upstream("create expense", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionCreate, model.KindExpense, expense.ID, nil, expense)
	return expense, nil
}

func (s *Service) Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Expense, error) {
	if sc == nil {
		return nil, apperrors.NotFound("expense", nil)
	}
	expense, err := s.repo.Get(ctx, sc.ClinicID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("expense", err)
	}
	if err != nil {
		return nil, apperrors.Upstream("get expense", err)
	}
	return expense, nil
}

func (s *Service) List(ctx context.Context, sc *session.Scope, f *model.ExpenseFilters) ([]*model.Expense, error) {
	if sc == nil {
		return []*model.Expense{}, nil
	}
	expenses, err := s.repo.List(ctx, sc.ClinicID, f)
	if err != nil {
		return nil, apperrors.Upstream("list expenses", err)
	}
	return expenses, nil
}

func (s *Service) Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateExpenseRequest) (*model.Expense, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	expense, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	before := *expense

	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	expense.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("expense", err)
		}
		return nil, apperrors.Upstream("update expense", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionUpdate, model.KindExpense, expense.ID, &before, expense)
	return expense, nil
}

func (s *Service) Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error {
	if sc == nil {
		return apperrors.AuthorizationDenied(nil)
	}
	if !sc.IsAdmin() {
		return apperrors.AuthorizationDenied(errors.New("only admins delete expenses"))
	}

	expense, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sc.ClinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("expense", err)
		}
		return apperrors.Upstream("delete expense", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionDelete, model.KindExpense, id, expense, nil)
	return nil
}

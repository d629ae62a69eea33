package invoice

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

type InvoiceService interface {
	Create(ctx context.Context, sc *session.Scope, req *model.CreateInvoiceRequest) (*model.Invoice, error)
	Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, sc *session.Scope, f *model.InvoiceFilters) ([]*model.Invoice, error)
	Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateInvoiceRequest) (*model.Invoice, error)
	Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error
}

type Service struct {
	repo    repository.InvoiceRepository
	visits  repository.VisitRepository
	auditor *audit.Service
}

func NewService(repo repository.InvoiceRepository, visits repository.VisitRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, visits: visits, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, sc *session.Scope, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	visit, err := s.visits.Get(ctx, sc.ClinicID, req.VisitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("visit", err)
		}
		return nil, apperrors.Upstream("get visit", err)
	}
	if visit.PatientID != req.PatientID {
		return nil, apperrors.ValidationFailed(map[string]string{"visit_id": "does not belong to patient"})
	}

	now := time.Now()
	invoice := &model.Invoice{
		Base: model.Base{
			ID:        uuid.New(),
			ClinicID:  sc.ClinicID,
			CreatedBy: sc.ProfileID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID: req.PatientID,
		VisitID:   req.VisitID,
		Amount:    req.Amount,
		Status:    model.InvoiceDraft,
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, apperrors.Upstream("create invoice", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionCreate, model.KindInvoice, invoice.ID, nil, invoice)
	return invoice, nil
}

func (s *Service) Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Invoice, error) {
	if sc == nil {
		return nil, apperrors.NotFound("invoice", nil)
	}
	invoice, err := s.repo.Get(ctx, sc.ClinicID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("invoice", err)
	}
	if err != nil {
		return nil, apperrors.Upstream("get invoice", err)
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, sc *session.Scope, f *model.InvoiceFilters) ([]*model.Invoice, error) {
	if sc == nil {
		return []*model.Invoice{}, nil
	}
	invoices, err := s.repo.List(ctx, sc.ClinicID, f)
	if err != nil {
		return nil, apperrors.Upstream("list invoices", err)
	}
	return invoices, nil
}

func (s *Service) Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateInvoiceRequest) (*model.Invoice, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	invoice, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	before := *invoice

	if req.Amount != nil {
		if invoice.Status != model.InvoiceDraft {
			return nil, apperrors.ValidationFailed(map[string]string{"amount": "cannot change amount after issuing"})
		}
		invoice.Amount = *req.Amount
	}
	if req.Status != nil {
		now := time.Now()
		switch *req.Status {
		case model.InvoiceIssued:
			invoice.IssuedAt = &now
		case model.InvoicePaid:
			invoice.PaidAt = &now
		}
		invoice.Status = *req.Status
	}
	invoice.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("invoice", err)
		}
		return nil, apperrors.Upstream("update invoice", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionUpdate, model.KindInvoice, invoice.ID, &before, invoice)
	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error {
	if sc == nil {
		return apperrors.AuthorizationDenied(nil)
	}
	if !sc.IsAdmin() {
		return apperrors.AuthorizationDenied(errors.New("only admins delete invoices"))
	}

	invoice, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sc.ClinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("invoice", err)
		}
		return apperrors.Upstream("delete invoice", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionDelete, model.KindInvoice, id, invoice, nil)
	return nil
}

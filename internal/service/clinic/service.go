package clinic

import (
	"context"
	"errors"
	"time"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

type ClinicService interface {
	Get(ctx context.Context, sc *session.Scope) (*model.Clinic, error)
	Update(ctx context.Context, sc *session.Scope, req *model.UpdateClinicRequest) (*model.Clinic, error)
	Members(ctx context.Context, sc *session.Scope) ([]*model.UserProfile, error)
}

type Service struct {
	repo     repository.ClinicRepository
	profiles repository.ProfileRepository
}

func NewService(repo repository.ClinicRepository, profiles repository.ProfileRepository) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// Get returns the caller's own clinic; there is no cross-clinic lookup.
func (s *Service) Get(ctx context.Context, sc *session.Scope) (*model.Clinic, error) {
	if sc == nil {
		return nil, apperrors.NotFound("clinic", nil)
	}
	clinic, err := s.repo.Get(ctx, sc.ClinicID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("clinic", err)
	}
	if err != nil {
		return nil, apperrors.Upstream("get clinic", err)
	}
	return clinic, nil
}

func (s *Service) Update(ctx context.Context, sc *session.Scope, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}
	if !sc.IsAdmin() {
		return nil, apperrors.AuthorizationDenied(errors.New("only admins update clinic details"))
	}

	clinic, err := s.Get(ctx, sc)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	clinic.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, clinic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, apperrors.Upstream("update clinic", err)
	}
	return clinic, nil
}

func (s *Service) Members(ctx context.Context, sc *session.Scope) ([]*model.UserProfile, error) {
	if sc == nil {
		return []*model.UserProfile{}, nil
	}
	members, err := s.profiles.ListByClinic(ctx, sc.ClinicID)
	if err != nil {
		return nil, apperrors.Upstream("list clinic members", err)
	}
	return members, nil
}

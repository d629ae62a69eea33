package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	pkgauth "github.com/AvaniK-2002/asvicare/pkg/auth"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/security"
)

type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.TokenPair, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenPair, error)
	Logout(authUserID uuid.UUID)
}

// Service owns the auth identity lifecycle. Signup provisions the full
// tenant in one go: auth user, clinic, and an admin profile bound to it.
type Service struct {
	authUsers repository.AuthUserRepository
	profiles  repository.ProfileRepository
	clinics   repository.ClinicRepository
	hasher    security.PasswordHasher
	jwt       pkgauth.JWTService
	resolver  *session.Resolver
}

func NewService(
	authUsers repository.AuthUserRepository,
	profiles repository.ProfileRepository,
	clinics repository.ClinicRepository,
	hasher security.PasswordHasher,
	jwt pkgauth.JWTService,
	resolver *session.Resolver,
) *Service {
	return &Service{
		authUsers: authUsers,
		profiles:  profiles,
		clinics:   clinics,
		hasher:    hasher,
		jwt:       jwt,
		resolver:  resolver,
	}
}

func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.TokenPair, error) {
	if _, _, err := s.authUsers.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ValidationFailed(map[string]string{"email": "already registered"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Upstream("check email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.ValidationFailed(map[string]string{"password": err.Error()})
	}

	authUserID := uuid.New()
	if err := s.authUsers.Create(ctx, authUserID, req.Email, hash); err != nil {
		return nil, apperrors.Upstream("create auth user", err)
	}

	now := time.Now()
	clinic := &model.Clinic{
		ID:        uuid.New(),
		Name:      req.ClinicName,
		OwnerID:   authUserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clinics.Create(ctx, clinic); err != nil {
		return nil, apperrors.Upstream("create clinic", err)
	}

	profile := &model.UserProfile{
		ID:         uuid.New(),
		ClinicID:   clinic.ID,
		AuthUserID: authUserID,
		Role:       model.RoleAdmin,
		Name:       req.Name,
		Email:      req.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.Upstream("create profile", err)
	}

	return s.issueTokens(authUserID, req.Email)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenPair, error) {
	authUserID, hash, err := s.authUsers.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.AuthenticationRequired(errors.New("unknown email or password"))
	}
	if err != nil {
		return nil, apperrors.Upstream("get auth user", err)
	}

	if err := s.hasher.Compare(hash, req.Password); err != nil {
		return nil, apperrors.AuthenticationRequired(errors.New("unknown email or password"))
	}

	return s.issueTokens(authUserID, req.Email)
}

// Logout drops the cached scope so the next session resolves afresh.
func (s *Service) Logout(authUserID uuid.UUID) {
	s.resolver.Invalidate(authUserID)
}

func (s *Service) issueTokens(authUserID uuid.UUID, email string) (*model.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(authUserID, email)
	if err != nil {
		return nil, apperrors.Upstream("issue access token", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(authUserID)
	if err != nil {
		return nil, apperrors.Upstream("issue refresh token", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

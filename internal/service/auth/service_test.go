package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository/memory"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	pkgauth "github.com/AvaniK-2002/asvicare/pkg/auth"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
	"github.com/AvaniK-2002/asvicare/pkg/security"
)

func newTestService(t *testing.T) (*Service, *memory.Store, pkgauth.JWTService, *session.Resolver) {
	t.Helper()
	store := memory.NewStore()
	jwtSvc := pkgauth.NewJWTService("test-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	resolver := session.NewResolver(store.Profiles(), logger.NewLogger(nil))
	svc := NewService(store.AuthUsers(), store.Profiles(), store.Clinics(), security.NewBcryptHasher(4), jwtSvc, resolver)
	return svc, store, jwtSvc, resolver
}

func signupReq() *model.SignupRequest {
	return &model.SignupRequest{
		Email:      "owner@clinic.test",
		Password:   "s3cret-pass",
		Name:       "Dr. Owner",
		ClinicName: "Test Clinic",
	}
}

func TestSignupProvisionsTenant(t *testing.T) {
	svc, store, jwtSvc, _ := newTestService(t)
	ctx := context.Background()

	tokens, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := jwtSvc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "owner@clinic.test", claims.Email)

	// One signup provisions the auth user, the clinic, and an admin
	// profile bound to both.
	authUserID, _, err := store.AuthUsers().GetByEmail(ctx, "owner@clinic.test")
	require.NoError(t, err)

	profile, err := store.Profiles().GetByAuthUserID(ctx, authUserID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, profile.Role)
	assert.Equal(t, "Dr. Owner", profile.Name)
	assert.Equal(t, authUserID, profile.AuthUserID)

	clinic, err := store.Clinics().Get(ctx, profile.ClinicID)
	require.NoError(t, err)
	assert.Equal(t, "Test Clinic", clinic.Name)
	assert.Equal(t, authUserID, clinic.OwnerID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	req := signupReq()
	req.ClinicName = "Second Clinic"
	_, err = svc.Signup(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "email")
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, jwtSvc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &model.LoginRequest{Email: "owner@clinic.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "owner@clinic.test", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "owner@clinic.test", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthenticationRequired))
	// Wrong password and unknown email read identically to the caller.
	assert.Contains(t, err.Error(), "unknown email or password")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "nobody@clinic.test", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthenticationRequired))
	assert.Contains(t, err.Error(), "unknown email or password")
}

func TestLogoutInvalidatesCachedScope(t *testing.T) {
	svc, store, _, resolver := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	authUserID, _, err := store.AuthUsers().GetByEmail(ctx, "owner@clinic.test")
	require.NoError(t, err)

	sc := resolver.Resolve(ctx, authUserID)
	require.NotNil(t, sc)
	assert.Equal(t, session.Resolved, resolver.State(authUserID))

	svc.Logout(authUserID)
	assert.Equal(t, session.Unresolved, resolver.State(authUserID))
}

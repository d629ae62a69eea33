package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
)

type countingProfileRepo struct {
	mu       sync.Mutex
	calls    int32
	profiles map[uuid.UUID]*model.UserProfile
	err      error
}

func (r *countingProfileRepo) Create(_ context.Context, p *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.AuthUserID] = p
	return nil
}

func (r *countingProfileRepo) GetByAuthUserID(_ context.Context, authUserID uuid.UUID) (*model.UserProfile, error) {
	atomic.AddInt32(&r.calls, 1)
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[authUserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *countingProfileRepo) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*model.UserProfile, error) {
	return nil, nil
}

func newTestProfile(authUserID uuid.UUID) *model.UserProfile {
	return &model.UserProfile{
		ID:             uuid.New(),
		ClinicID:       uuid.New(),
		AuthUserID:     authUserID,
		Role:           model.RoleDoctor,
		Specialization: model.ModeGynecology,
	}
}

func TestResolveWithoutSession(t *testing.T) {
	repo := &countingProfileRepo{profiles: map[uuid.UUID]*model.UserProfile{}}
	r := NewResolver(repo, logger.NewLogger(nil))

	scope := r.Resolve(context.Background(), uuid.Nil)

	assert.Nil(t, scope)
	assert.Equal(t, int32(0), atomic.LoadInt32(&repo.calls), "no session must never hit the backend")
}

func TestResolveCachesScope(t *testing.T) {
	authUserID := uuid.New()
	repo := &countingProfileRepo{profiles: map[uuid.UUID]*model.UserProfile{
		authUserID: newTestProfile(authUserID),
	}}
	r := NewResolver(repo, logger.NewLogger(nil))

	first := r.Resolve(context.Background(), authUserID)
	require.NotNil(t, first)
	second := r.Resolve(context.Background(), authUserID)
	require.NotNil(t, second)

	assert.Equal(t, first.ClinicID, second.ClinicID)
	assert.Equal(t, model.RoleDoctor, first.Role)
	assert.Equal(t, model.ModeGynecology, first.Mode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.calls), "repeat resolutions must reuse the cached scope")
	assert.Equal(t, Resolved, r.State(authUserID))
}

func TestResolveCoalescesConcurrentCalls(t *testing.T) {
	authUserID := uuid.New()
	repo := &countingProfileRepo{profiles: map[uuid.UUID]*model.UserProfile{
		authUserID: newTestProfile(authUserID),
	}}
	r := NewResolver(repo, logger.NewLogger(nil))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scope := r.Resolve(context.Background(), authUserID)
			assert.NotNil(t, scope)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&repo.calls), int32(2),
		"concurrent resolutions must coalesce into at most one in-flight query")
}

func TestResolveMissingProfileDenied(t *testing.T) {
	repo := &countingProfileRepo{profiles: map[uuid.UUID]*model.UserProfile{}}
	r := NewResolver(repo, logger.NewLogger(nil))
	authUserID := uuid.New()

	scope := r.Resolve(context.Background(), authUserID)

	assert.Nil(t, scope)
	assert.Equal(t, Denied, r.State(authUserID))
}

func TestResolveBackendErrorDenied(t *testing.T) {
	repo := &countingProfileRepo{
		profiles: map[uuid.UUID]*model.UserProfile{},
		err:      errors.New("connection refused"),
	}
	r := NewResolver(repo, logger.NewLogger(nil))
	authUserID := uuid.New()

	scope := r.Resolve(context.Background(), authUserID)

	assert.Nil(t, scope, "a failed resolution degrades to denied, not an error")
	assert.Equal(t, Denied, r.State(authUserID))
}

func TestDeniedStateExpires(t *testing.T) {
	repo := &countingProfileRepo{profiles: map[uuid.UUID]*model.UserProfile{}}
	r := NewResolver(repo, logger.NewLogger(nil))
	r.deniedTTL = 20 * time.Millisecond
	authUserID := uuid.New()

	require.Nil(t, r.Resolve(context.Background(), authUserID))
	require.Equal(t, Denied, r.State(authUserID))

	// Denied entries are retained briefly, not for the process
	// lifetime: any valid token for a never-onboarded user would
	// otherwise grow the state set forever.
	assert.Eventually(t, func() bool { return r.State(authUserID) == Unresolved },
		time.Second, 5*time.Millisecond)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	authUserID := uuid.New()
	repo := &countingProfileRepo{profiles: map[uuid.UUID]*model.UserProfile{
		authUserID: newTestProfile(authUserID),
	}}
	r := NewResolver(repo, logger.NewLogger(nil))

	require.NotNil(t, r.Resolve(context.Background(), authUserID))
	r.Invalidate(authUserID)
	assert.Equal(t, Unresolved, r.State(authUserID))

	require.NotNil(t, r.Resolve(context.Background(), authUserID))
	assert.Equal(t, int32(2), atomic.LoadInt32(&repo.calls))
}

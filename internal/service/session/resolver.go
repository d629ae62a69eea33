package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
)

// State tracks one auth user's resolution lifecycle:
// Unresolved -> Resolving -> {Resolved, Denied}.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
	Denied
)

// deniedTTL bounds how long a Denied entry is retained. Any bearer of a
// valid token can reach the Denied state without ever onboarding, so
// these entries must expire or the state set grows for the process
// lifetime. A denied user re-resolves on every request regardless.
const deniedTTL = 5 * time.Minute

// Resolver maps an authenticated user to its clinic scope exactly once
// per session. Successful resolutions are cached until invalidation
// (logout or explicit refresh); concurrent resolutions for the same user
// are coalesced so at most one profile query is in flight.
//
// Resolution failures degrade to a nil scope: the caller is treated as
// not authorized rather than shown an error. A missing profile row is
// not an error either, it means the user has not finished onboarding.
type Resolver struct {
	profiles repository.ProfileRepository
	logger   *logger.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	cache  map[uuid.UUID]*Scope
	states *gocache.Cache

	deniedTTL time.Duration
}

func NewResolver(profiles repository.ProfileRepository, logger *logger.Logger) *Resolver {
	return &Resolver{
		profiles:  profiles,
		logger:    logger,
		cache:     make(map[uuid.UUID]*Scope),
		states:    gocache.New(gocache.NoExpiration, 10*time.Minute),
		deniedTTL: deniedTTL,
	}
}

// Resolve returns the cached scope for authUserID, fetching it once if
// needed. A nil auth user (no session) returns nil without querying.
func (r *Resolver) Resolve(ctx context.Context, authUserID uuid.UUID) *Scope {
	if authUserID == uuid.Nil {
		return nil
	}

	r.mu.RLock()
	if scope, ok := r.cache[authUserID]; ok {
		r.mu.RUnlock()
		return scope
	}
	r.mu.RUnlock()

	r.states.Set(authUserID.String(), Resolving, gocache.NoExpiration)

	v, err, _ := r.group.Do(authUserID.String(), func() (interface{}, error) {
		profile, err := r.profiles.GetByAuthUserID(ctx, authUserID)
		if err != nil {
			return nil, err
		}
		return fromProfile(profile), nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.logger.Error(err, "profile resolution failed", "auth_user_id", authUserID.String())
		}
		r.states.Set(authUserID.String(), Denied, r.deniedTTL)
		return nil
	}

	scope := v.(*Scope)
	r.mu.Lock()
	// A concurrent Invalidate between Do and here wins: do not re-cache.
	if st, ok := r.states.Get(authUserID.String()); !ok || st.(State) != Resolving {
		r.mu.Unlock()
		return scope
	}
	r.cache[authUserID] = scope
	r.states.Set(authUserID.String(), Resolved, gocache.NoExpiration)
	r.mu.Unlock()

	return scope
}

// State reports where authUserID sits in the resolution lifecycle.
// Expired Denied entries read as Unresolved.
func (r *Resolver) State(authUserID uuid.UUID) State {
	if v, ok := r.states.Get(authUserID.String()); ok {
		return v.(State)
	}
	return Unresolved
}

// Invalidate drops the cached scope for one user, e.g. on logout.
func (r *Resolver) Invalidate(authUserID uuid.UUID) {
	r.mu.Lock()
	delete(r.cache, authUserID)
	r.states.Delete(authUserID.String())
	r.mu.Unlock()
}

// Refresh forces a refetch on the next Resolve call.
func (r *Resolver) Refresh(ctx context.Context, authUserID uuid.UUID) *Scope {
	r.Invalidate(authUserID)
	return r.Resolve(ctx, authUserID)
}

// Clear empties the whole cache.
func (r *Resolver) Clear() {
	r.mu.Lock()
	r.cache = make(map[uuid.UUID]*Scope)
	r.states.Flush()
	r.mu.Unlock()
}

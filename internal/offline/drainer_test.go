package offline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
	"github.com/AvaniK-2002/asvicare/pkg/messaging"
	"github.com/AvaniK-2002/asvicare/pkg/metrics"
)

// prometheus collectors register globally, so the whole test binary
// shares one Metrics instance.
var (
	testMetrics     *metrics.Metrics
	testMetricsOnce sync.Once
)

func drainerMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics("asvicare_test", "offline")
	})
	return testMetrics
}

type stubApplier struct {
	mu      sync.Mutex
	applied []uuid.UUID
	fail    map[uuid.UUID]error
}

func newStubApplier() *stubApplier {
	return &stubApplier{fail: make(map[uuid.UUID]error)}
}

func (a *stubApplier) Apply(_ context.Context, op *Operation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err, ok := a.fail[op.ID]; ok {
		return err
	}
	a.applied = append(a.applied, op.ID)
	return nil
}

type captureBroker struct {
	mu       sync.Mutex
	warnings []messaging.SyncWarning
}

func (b *captureBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if channel != messaging.SyncWarningChannel {
		return nil
	}
	w, ok := message.(messaging.SyncWarning)
	if !ok {
		return errors.New("unexpected message type")
	}
	b.mu.Lock()
	b.warnings = append(b.warnings, w)
	b.mu.Unlock()
	return nil
}

func (b *captureBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *captureBroker) Close() error { return nil }

func newTestDrainer(t *testing.T) (*Drainer, *MemoryStore, *stubApplier, *captureBroker) {
	t.Helper()
	store := NewMemoryStore()
	applier := newStubApplier()
	broker := &captureBroker{}
	prober := NewProber(nil, time.Hour, logger.NewLogger(nil))
	prober.SetOnline(true)
	d := NewDrainer(store, applier, prober, broker, logger.NewLogger(nil), drainerMetrics(), DrainerConfig{Interval: time.Hour})
	return d, store, applier, broker
}

func queuedOp(kind model.EntityKind, opType OpType) *Operation {
	return &Operation{
		ID:   uuid.New(),
		Type: opType,
		Kind: kind,
		Scope: ScopeSnapshot{
			ProfileID:  uuid.New(),
			ClinicID:   uuid.New(),
			AuthUserID: uuid.New(),
			Role:       model.RoleDoctor,
			Mode:       model.ModeGeneral,
		},
		EntityID: uuid.New(),
		Payload:  json.RawMessage(`{}`),
	}
}

func TestDrainRemovesReplayedOperations(t *testing.T) {
	d, store, applier, _ := newTestDrainer(t)
	ctx := context.Background()

	op := queuedOp(model.KindPatient, OpCreate)
	require.NoError(t, d.Enqueue(ctx, op))
	assert.Equal(t, 1, d.Pending())

	d.Drain(ctx)

	assert.Equal(t, 0, d.Pending())
	applier.mu.Lock()
	defer applier.mu.Unlock()
	require.Len(t, applier.applied, 1)
	assert.Equal(t, op.ID, applier.applied[0])

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDrainPreservesEnqueueOrder(t *testing.T) {
	d, _, applier, _ := newTestDrainer(t)
	ctx := context.Background()

	first := queuedOp(model.KindPatient, OpCreate)
	second := queuedOp(model.KindVisit, OpUpdate)
	third := queuedOp(model.KindExpense, OpDelete)
	for _, op := range []*Operation{first, second, third} {
		require.NoError(t, d.Enqueue(ctx, op))
	}

	d.Drain(ctx)

	applier.mu.Lock()
	defer applier.mu.Unlock()
	require.Len(t, applier.applied, 3)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, applier.applied)
}

func TestDrainKeepsFailedOperationUntilRetriesExhaust(t *testing.T) {
	d, store, applier, broker := newTestDrainer(t)
	ctx := context.Background()

	op := queuedOp(model.KindAppointment, OpUpdate)
	applier.fail[op.ID] = errors.New("backend still down")
	require.NoError(t, d.Enqueue(ctx, op))

	// Two failed drains leave the operation queued with its retry
	// count recorded.
	d.Drain(ctx)
	d.Drain(ctx)

	ops, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 2, ops[0].RetryCount)

	broker.mu.Lock()
	assert.Empty(t, broker.warnings)
	broker.mu.Unlock()
}

func TestDrainDropsOperationAfterMaxRetries(t *testing.T) {
	d, _, applier, broker := newTestDrainer(t)
	ctx := context.Background()

	op := queuedOp(model.KindExpense, OpCreate)
	applier.fail[op.ID] = errors.New("persistent failure")
	require.NoError(t, d.Enqueue(ctx, op))

	for i := 0; i < MaxRetries; i++ {
		d.Drain(ctx)
	}

	assert.Equal(t, 0, d.Pending())

	broker.mu.Lock()
	defer broker.mu.Unlock()
	require.Len(t, broker.warnings, 1)
	w := broker.warnings[0]
	assert.Equal(t, op.ID.String(), w.OperationID)
	assert.Equal(t, string(model.KindExpense), w.Kind)
	assert.Equal(t, string(OpCreate), w.Type)
	assert.Equal(t, op.Scope.ClinicID.String(), w.ClinicID)
	assert.Equal(t, MaxRetries, w.Retries)
	assert.Equal(t, "persistent failure", w.Reason)
}

func TestDrainFailureDoesNotBlockLaterOperations(t *testing.T) {
	d, store, applier, _ := newTestDrainer(t)
	ctx := context.Background()

	stuck := queuedOp(model.KindPatient, OpUpdate)
	applier.fail[stuck.ID] = errors.New("conflict")
	healthy := queuedOp(model.KindVisit, OpCreate)
	require.NoError(t, d.Enqueue(ctx, stuck))
	require.NoError(t, d.Enqueue(ctx, healthy))

	d.Drain(ctx)

	applier.mu.Lock()
	require.Len(t, applier.applied, 1)
	assert.Equal(t, healthy.ID, applier.applied[0])
	applier.mu.Unlock()

	ops, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, stuck.ID, ops[0].ID)
}

func TestEnqueueStampsTime(t *testing.T) {
	d, store, _, _ := newTestDrainer(t)
	ctx := context.Background()

	op := queuedOp(model.KindPatient, OpCreate)
	require.True(t, op.EnqueuedAt.IsZero())
	require.NoError(t, d.Enqueue(ctx, op))

	ops, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.False(t, ops[0].EnqueuedAt.IsZero())
}

type unreachablePinger struct {
	pinged chan struct{}
}

func (p *unreachablePinger) PingContext(context.Context) error {
	select {
	case p.pinged <- struct{}{}:
	default:
	}
	return errors.New("connection refused")
}

func TestRunProbesBeforeFirstTick(t *testing.T) {
	pinger := &unreachablePinger{pinged: make(chan struct{}, 1)}
	p := NewProber(pinger, time.Hour, logger.NewLogger(nil))
	require.True(t, p.Online())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	select {
	case <-pinger.pinged:
	case <-time.After(time.Second):
		t.Fatal("expected an immediate probe on startup")
	}
	assert.Eventually(t, func() bool { return !p.Online() }, time.Second, 5*time.Millisecond,
		"a cold start against an unreachable backend must report offline without waiting a full interval")
}

func TestProberSetOnlineSignalsTransition(t *testing.T) {
	p := NewProber(nil, time.Hour, logger.NewLogger(nil))
	p.SetOnline(false)
	require.False(t, p.Online())

	p.SetOnline(true)
	assert.True(t, p.Online())

	select {
	case <-p.Transitions():
	default:
		t.Fatal("expected a transition signal after coming back online")
	}
}

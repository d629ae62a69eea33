package offline

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AvaniK-2002/asvicare/pkg/logger"
	"github.com/AvaniK-2002/asvicare/pkg/messaging"
	"github.com/AvaniK-2002/asvicare/pkg/metrics"
)

type DrainerConfig struct {
	Interval time.Duration
}

// Drainer replays queued mutations once connectivity returns and on a
// fixed periodic interval. Each failed attempt bumps the retry count;
// an operation that fails MaxRetries times is dropped with a warning on
// the broker and in the log. The drop is deliberate: the queue promises
// bounded effort, not delivery.
type Drainer struct {
	store   Store
	applier Applier
	prober  *Prober
	broker  messaging.Broker
	logger  *logger.Logger
	metrics *metrics.Metrics
	config  DrainerConfig
}

func NewDrainer(
	store Store,
	applier Applier,
	prober *Prober,
	broker messaging.Broker,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	config DrainerConfig,
) *Drainer {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	return &Drainer{
		store:   store,
		applier: applier,
		prober:  prober,
		broker:  broker,
		logger:  logger,
		metrics: metrics,
		config:  config,
	}
}

// Enqueue records a deferred mutation and updates the queue gauge.
func (d *Drainer) Enqueue(ctx context.Context, op *Operation) error {
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now()
	}
	if err := d.store.Enqueue(ctx, op); err != nil {
		return err
	}
	d.updateDepth(ctx)
	d.logger.Info("mutation queued for sync",
		"op_id", op.ID.String(), "kind", string(op.Kind), "type", string(op.Type))
	return nil
}

// Pending reports the queue depth, zero on store errors.
func (d *Drainer) Pending() int {
	n, err := d.store.Len(context.Background())
	if err != nil {
		return 0
	}
	return n
}

func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	d.logger.Info("starting offline queue drainer")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down offline queue drainer")
			return
		case <-d.prober.Transitions():
			d.Drain(ctx)
		case <-ticker.C:
			if d.prober.Online() {
				d.Drain(ctx)
			}
		}
	}
}

// Drain replays every queued operation in enqueue order. It does not
// serialize against concurrent foreground writes; the storage layer is
// last-writer-wins.
func (d *Drainer) Drain(ctx context.Context) {
	timer := prometheus.NewTimer(d.metrics.SyncDrainLatency)
	defer timer.ObserveDuration()

	ops, err := d.store.List(ctx)
	if err != nil {
		d.logger.Error(err, "failed to read offline queue")
		return
	}

	for _, op := range ops {
		if err := d.applier.Apply(ctx, op); err != nil {
			d.handleFailure(ctx, op, err)
			continue
		}
		if err := d.store.Remove(ctx, op.ID); err != nil {
			d.logger.Error(err, "failed to remove replayed operation", "op_id", op.ID.String())
			continue
		}
		d.metrics.SyncOpsReplayed.Inc()
	}

	d.updateDepth(ctx)
}

func (d *Drainer) handleFailure(ctx context.Context, op *Operation, cause error) {
	op.RetryCount++
	d.metrics.SyncRetries.WithLabelValues(string(op.Kind)).Inc()

	if op.RetryCount < MaxRetries {
		if err := d.store.SetRetryCount(ctx, op.ID, op.RetryCount); err != nil {
			d.logger.Error(err, "failed to record retry count", "op_id", op.ID.String())
		}
		return
	}

	// Retries exhausted: drop the operation and surface the loss.
	if err := d.store.Remove(ctx, op.ID); err != nil {
		d.logger.Error(err, "failed to drop exhausted operation", "op_id", op.ID.String())
		return
	}
	d.metrics.SyncOpsDropped.Inc()
	d.logger.Warn("could not sync queued mutation, dropping it",
		"op_id", op.ID.String(), "kind", string(op.Kind), "type", string(op.Type),
		"retries", op.RetryCount, "cause", cause.Error())

	warning := messaging.SyncWarning{
		OperationID: op.ID.String(),
		Kind:        string(op.Kind),
		Type:        string(op.Type),
		ClinicID:    op.Scope.ClinicID.String(),
		Retries:     op.RetryCount,
		Reason:      cause.Error(),
	}
	if err := d.broker.Publish(ctx, messaging.SyncWarningChannel, warning); err != nil {
		d.logger.Error(err, "failed to publish sync warning", "op_id", op.ID.String())
	}
}

func (d *Drainer) updateDepth(ctx context.Context) {
	if n, err := d.store.Len(ctx); err == nil {
		d.metrics.SyncQueueDepth.Set(float64(n))
	}
}

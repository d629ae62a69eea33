package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AvaniK-2002/asvicare/internal/email"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
	"github.com/AvaniK-2002/asvicare/pkg/metrics"
)

const (
	// DefaultInterval is how often the worker scans for due reminders.
	DefaultInterval = time.Minute

	batchSize = 50
)

// Worker periodically delivers pending appointment reminders by email.
type Worker struct {
	reminders    repository.ReminderRepository
	appointments repository.AppointmentRepository
	sender       email.Sender
	logger       *logger.Logger
	metrics      *metrics.Metrics
	interval     time.Duration
}

func NewWorker(reminders repository.ReminderRepository, appointments repository.AppointmentRepository, sender email.Sender, log *logger.Logger, m *metrics.Metrics) *Worker {
	return &Worker{
		reminders:    reminders,
		appointments: appointments,
		sender:       sender,
		logger:       log,
		metrics:      m,
		interval:     DefaultInterval,
	}
}

// Run blocks until ctx is cancelled, scanning for due reminders on each tick.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessDue(ctx)
		}
	}
}

// ProcessDue sends every reminder whose send time has passed. Failures are
// marked so the row is not retried forever.
func (w *Worker) ProcessDue(ctx context.Context) {
	timer := prometheus.NewTimer(w.metrics.DatabaseLatency.WithLabelValues("list_due_reminders"))
	due, err := w.reminders.ListDue(ctx, batchSize)
	timer.ObserveDuration()
	if err != nil {
		w.metrics.DatabaseOperations.WithLabelValues("list_due_reminders", "error").Inc()
		w.logger.Error(err, "failed to list due reminders")
		return
	}
	w.metrics.DatabaseOperations.WithLabelValues("list_due_reminders", "success").Inc()

	for _, r := range due {
		if err := w.deliver(ctx, r); err != nil {
			w.logger.Error(err, "failed to deliver reminder", "reminder_id", r.ID.String())
			if err := w.reminders.SetStatus(ctx, r.ID, model.ReminderFailed); err != nil {
				w.logger.Error(err, "failed to mark reminder failed", "reminder_id", r.ID.String())
			}
			continue
		}
		if err := w.reminders.SetStatus(ctx, r.ID, model.ReminderSent); err != nil {
			w.logger.Error(err, "failed to mark reminder sent", "reminder_id", r.ID.String())
		}
	}
}

func (w *Worker) deliver(ctx context.Context, r *model.Reminder) error {
	appointment, err := w.appointments.Get(ctx, r.ClinicID, r.AppointmentID)
	if err != nil {
		return fmt.Errorf("failed to load appointment %s: %w", r.AppointmentID, err)
	}
	if appointment.Status == model.AppointmentCancelled {
		return nil
	}

	subject := "Appointment reminder"
	body := fmt.Sprintf(
		"This is a reminder for your appointment on %s.\n\nIf you need to reschedule, please contact your clinic.",
		appointment.StartTime.Format("Monday, 2 January 2006 at 15:04"),
	)
	if err := w.sender.Send(r.Email, subject, body); err != nil {
		return err
	}
	return nil
}

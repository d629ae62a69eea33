package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/AvaniK-2002/asvicare/internal/config"
	"github.com/AvaniK-2002/asvicare/internal/email"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/repository/memory"
	"github.com/AvaniK-2002/asvicare/internal/repository/postgres"
	reminderService "github.com/AvaniK-2002/asvicare/internal/service/reminder"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
	"github.com/AvaniK-2002/asvicare/pkg/messaging"
	redisbroker "github.com/AvaniK-2002/asvicare/pkg/messaging/redis"
	"github.com/AvaniK-2002/asvicare/pkg/metrics"
)

// The worker binary delivers due appointment reminders and logs sync
// warnings published by api instances, keeping slow email I/O out of
// the request path.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	var (
		reminderRepo    repository.ReminderRepository
		appointmentRepo repository.AppointmentRepository
	)
	if cfg.DatabaseConfigured() {
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		reminderRepo = postgres.NewReminderRepository(db)
		appointmentRepo = postgres.NewAppointmentRepository(db)
	} else {
		log.Warn().Msg("no database configured, worker has nothing durable to deliver")
		store := memory.NewStore()
		reminderRepo = store.Reminders()
		appointmentRepo = store.Appointments()
	}

	sender := email.NewNoopSender()
	if cfg.SMTPConfigured() {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Warn().Msg("no SMTP configured, reminders will be marked sent without delivery")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("asvicare", "worker")
	worker := reminderService.NewWorker(reminderRepo, appointmentRepo, sender, appLogger, m)
	go worker.Run(ctx)

	if cfg.RedisConfigured() {
		broker, err := redisbroker.NewRedisBroker(redisbroker.Config{URL: cfg.Redis.URL}, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis broker")
		}
		defer broker.Close()
		go logSyncWarnings(ctx, broker)
	}

	// Expose metrics and a liveness probe.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port+1),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start worker metrics server")
		}
	}()
	log.Info().Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("worker forced to shutdown")
	}
}

func logSyncWarnings(ctx context.Context, broker messaging.Broker) {
	msgs, err := broker.Subscribe(ctx, messaging.SyncWarningChannel)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to sync warnings")
		return
	}
	for msg := range msgs {
		var warning messaging.SyncWarning
		if err := json.Unmarshal(msg, &warning); err != nil {
			log.Error().Err(err).Msg("malformed sync warning")
			continue
		}
		log.Warn().
			Str("operation_id", warning.OperationID).
			Str("kind", warning.Kind).
			Str("type", warning.Type).
			Str("clinic_id", warning.ClinicID).
			Int("retries", warning.Retries).
			Str("reason", warning.Reason).
			Msg("queued mutation dropped")
	}
}

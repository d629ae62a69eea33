package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AvaniK-2002/asvicare/internal/cache"
	"github.com/AvaniK-2002/asvicare/internal/config"
	"github.com/AvaniK-2002/asvicare/internal/email"
	"github.com/AvaniK-2002/asvicare/internal/handler"
	appointmentHandler "github.com/AvaniK-2002/asvicare/internal/handler/appointment"
	auditHandler "github.com/AvaniK-2002/asvicare/internal/handler/audit"
	authHandler "github.com/AvaniK-2002/asvicare/internal/handler/auth"
	clinicHandler "github.com/AvaniK-2002/asvicare/internal/handler/clinic"
	dashboardHandler "github.com/AvaniK-2002/asvicare/internal/handler/dashboard"
	expenseHandler "github.com/AvaniK-2002/asvicare/internal/handler/expense"
	invoiceHandler "github.com/AvaniK-2002/asvicare/internal/handler/invoice"
	patientHandler "github.com/AvaniK-2002/asvicare/internal/handler/patient"
	syncHandler "github.com/AvaniK-2002/asvicare/internal/handler/sync"
	visitHandler "github.com/AvaniK-2002/asvicare/internal/handler/visit"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/offline"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/repository/memory"
	"github.com/AvaniK-2002/asvicare/internal/repository/postgres"
	"github.com/AvaniK-2002/asvicare/internal/router"
	appointmentService "github.com/AvaniK-2002/asvicare/internal/service/appointment"
	auditService "github.com/AvaniK-2002/asvicare/internal/service/audit"
	authService "github.com/AvaniK-2002/asvicare/internal/service/auth"
	clinicService "github.com/AvaniK-2002/asvicare/internal/service/clinic"
	dashboardService "github.com/AvaniK-2002/asvicare/internal/service/dashboard"
	expenseService "github.com/AvaniK-2002/asvicare/internal/service/expense"
	invoiceService "github.com/AvaniK-2002/asvicare/internal/service/invoice"
	mediaService "github.com/AvaniK-2002/asvicare/internal/service/media"
	patientService "github.com/AvaniK-2002/asvicare/internal/service/patient"
	reminderService "github.com/AvaniK-2002/asvicare/internal/service/reminder"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	visitService "github.com/AvaniK-2002/asvicare/internal/service/visit"
	pkgauth "github.com/AvaniK-2002/asvicare/pkg/auth"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
	"github.com/AvaniK-2002/asvicare/pkg/messaging"
	redisbroker "github.com/AvaniK-2002/asvicare/pkg/messaging/redis"
	"github.com/AvaniK-2002/asvicare/pkg/metrics"
	"github.com/AvaniK-2002/asvicare/pkg/security"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

// alwaysUp stands in for the database probe when there is no database:
// the in-memory store cannot go offline.
type alwaysUp struct{}

func (alwaysUp) PingContext(ctx context.Context) error { return nil }

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("asvicare", "api")
	v := validator.New()

	// Repositories: Postgres when configured, otherwise in-memory stores
	// so the application still comes up with nothing persisted.
	var (
		clinicRepo      repository.ClinicRepository
		profileRepo     repository.ProfileRepository
		authUserRepo    repository.AuthUserRepository
		patientRepo     repository.PatientRepository
		visitRepo       repository.VisitRepository
		expenseRepo     repository.ExpenseRepository
		appointmentRepo repository.AppointmentRepository
		invoiceRepo     repository.InvoiceRepository
		reminderRepo    repository.ReminderRepository
		auditRepo       repository.AuditRepository
		pinger          offline.Pinger = alwaysUp{}
	)

	if cfg.DatabaseConfigured() {
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		clinicRepo = postgres.NewClinicRepository(db)
		profileRepo = postgres.NewProfileRepository(db)
		authUserRepo = postgres.NewAuthUserRepository(db)
		patientRepo = postgres.NewPatientRepository(db)
		visitRepo = postgres.NewVisitRepository(db)
		expenseRepo = postgres.NewExpenseRepository(db)
		appointmentRepo = postgres.NewAppointmentRepository(db)
		invoiceRepo = postgres.NewInvoiceRepository(db)
		reminderRepo = postgres.NewReminderRepository(db)
		auditRepo = postgres.NewAuditRepository(db)
		pinger = db
	} else {
		log.Warn().Msg("no database configured, running on in-memory stores")
		store := memory.NewStore()
		clinicRepo = store.Clinics()
		profileRepo = store.Profiles()
		authUserRepo = store.AuthUsers()
		patientRepo = store.Patients()
		visitRepo = store.Visits()
		expenseRepo = store.Expenses()
		appointmentRepo = store.Appointments()
		invoiceRepo = store.Invoices()
		reminderRepo = store.Reminders()
		auditRepo = store.AuditLogs()
	}

	// Message broker and offline queue store.
	var broker messaging.Broker = messaging.NewNoopBroker()
	var queueStore offline.Store = offline.NewMemoryStore()
	if cfg.RedisConfigured() {
		b, err := redisbroker.NewRedisBroker(redisbroker.Config{URL: cfg.Redis.URL}, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis broker")
		}
		broker = b

		s, err := offline.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis queue store")
		}
		queueStore = s
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Identity and session scope.
	jwtSvc := pkgauth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshExpiryHours)*time.Hour,
	)
	hasher := security.NewBcryptHasher(0)
	resolver := session.NewResolver(profileRepo, appLogger)

	// Services.
	auditor := auditService.NewService(auditRepo, appLogger)
	patientSvc := patientService.NewService(patientRepo, visitRepo, auditor)
	visitSvc := visitService.NewService(visitRepo, patientRepo, auditor)
	expenseSvc := expenseService.NewService(expenseRepo, auditor)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, reminderRepo, auditor)
	invoiceSvc := invoiceService.NewService(invoiceRepo, visitRepo, auditor)
	clinicSvc := clinicService.NewService(clinicRepo, profileRepo)
	authSvc := authService.NewService(authUserRepo, profileRepo, clinicRepo, hasher, jwtSvc, resolver)

	var mediaSvc mediaService.MediaService
	if cfg.StorageConfigured() {
		ms, err := mediaService.NewService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to object storage")
		}
		if err := ms.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare storage bucket")
		}
		mediaSvc = ms
	} else {
		log.Warn().Msg("no object storage configured, photo endpoints disabled")
	}

	// Offline sync: probe connectivity, replay queued mutations.
	prober := offline.NewProber(pinger, time.Duration(cfg.Sync.ProbeIntervalSeconds)*time.Second, appLogger)
	replayer := offline.NewReplayer(patientSvc, visitSvc, expenseSvc, appointmentSvc)
	drainer := offline.NewDrainer(queueStore, replayer, prober, broker, appLogger, m, offline.DrainerConfig{
		Interval: time.Duration(cfg.Sync.DrainIntervalSeconds) * time.Second,
	})
	go prober.Run(ctx)
	go drainer.Run(ctx)

	dashboardSvc := dashboardService.NewService(patientRepo, visitRepo, expenseRepo, appointmentRepo, drainer)

	// Appointment reminder delivery.
	sender := email.NewNoopSender()
	if cfg.SMTPConfigured() {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	reminderWorker := reminderService.NewWorker(reminderRepo, appointmentRepo, sender, appLogger, m)
	go reminderWorker.Run(ctx)

	// HTTP surface.
	listCache := cache.New(cache.DefaultTTL)
	gate := handler.NewSyncGate(drainer, prober)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, resolver)

	r := router.NewRouter(
		authMiddleware,
		handler.NewHandler(),
		authHandler.NewHandler(authSvc, v),
		router.Config{
			RateLimit: 100,
			RateBurst: 200,
			CORS:      middleware.DefaultCORSConfig(),
			Metrics:   m,
		},
		patientHandler.NewHandler(patientSvc, v, listCache, gate),
		visitHandler.NewHandler(visitSvc, mediaSvc, v, listCache, gate),
		expenseHandler.NewHandler(expenseSvc, v, listCache, gate),
		appointmentHandler.NewHandler(appointmentSvc, v, listCache, gate),
		invoiceHandler.NewHandler(invoiceSvc, v),
		clinicHandler.NewHandler(clinicSvc, v),
		dashboardHandler.NewHandler(dashboardSvc),
		auditHandler.NewHandler(auditor),
		syncHandler.NewHandler(drainer, prober),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

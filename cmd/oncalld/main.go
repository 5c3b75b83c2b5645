package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/example/oncall-dispatch/internal/application"
	"github.com/example/oncall-dispatch/internal/auth"
	"github.com/example/oncall-dispatch/internal/config"
	httptransport "github.com/example/oncall-dispatch/internal/http"
	"github.com/example/oncall-dispatch/internal/metrics"
	"github.com/example/oncall-dispatch/internal/persistence/sqlite"
	"github.com/example/oncall-dispatch/internal/reconciler"
	"github.com/example/oncall-dispatch/internal/twilio"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	sink := metrics.NewPrometheusSink(registry)

	provider := twilio.NewClient(twilio.Config{
		BaseURL:    cfg.TwilioBaseURL,
		AccountSID: cfg.TwilioAccountSID,
		KeySID:     cfg.TwilioKeySID,
		KeySecret:  cfg.TwilioKeySecret,
		Metrics:    sink,
		CacheTTL:   cfg.CacheTTL,
		CacheSize:  cfg.CacheSize,
	})

	verifier := auth.NewVerifier(auth.VerifierConfig{
		BaseURL:   cfg.SSOBaseURL,
		AppID:     cfg.SSOAppID,
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
	})
	signer := auth.NewSigner(cfg.CookieSecret)

	idGenerator := uuid.NewString
	now := time.Now

	scheduleService := application.NewScheduleService(storage, storage, sink, idGenerator, now)
	staffService := application.NewStaffService(storage, idGenerator, now)
	phonebookService := application.NewPhonebookService(storage, idGenerator, now)
	noteService := application.NewNoteService(storage, now)
	settingsService := application.NewSettingsService(storage, provider)
	messageService := application.NewMessageService(provider, storage, storage, idGenerator, now)
	callService := application.NewCallService(provider, storage)
	limiter := rate.NewLimiter(rate.Limit(cfg.SMSRatePerSecond), cfg.SMSBurst)
	notificationService := application.NewNotificationService(scheduleService, provider, storage, limiter, sink, logger, now)

	cleanup := reconciler.New(storage, sink, logger)
	if err := cleanup.Start(cfg.ReconcileSchedule); err != nil {
		logger.Error("failed to start reconciler", "error", err)
		os.Exit(1)
	}
	defer cleanup.Stop()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(verifier, signer, logger),
		Schedules: httptransport.NewScheduleHandler(scheduleService, logger, now),
		Staff:     httptransport.NewStaffHandler(staffService, logger),
		Phonebook: httptransport.NewPhonebookHandler(phonebookService, logger),
		Messages:  httptransport.NewMessageHandler(messageService, notificationService, logger),
		Calls:     httptransport.NewCallHandler(callService, logger),
		Settings:  httptransport.NewSettingsHandler(settingsService, logger),
		Notes:     httptransport.NewNoteHandler(noteService, logger),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Middleware: []mux.MiddlewareFunc{
			httptransport.RequestLogger(logger, sink),
		},
		Session: httptransport.RequireSession(signer, verifier, logger),
	})

	handler := handlers.RecoveryHandler(handlers.RecoveryLogger(&recoveryLogger{logger: logger}))(
		handlers.CORS(
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowCredentials(),
		)(router),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("dispatch API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l *recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("panic recovered", "detail", fmt.Sprint(v...))
}

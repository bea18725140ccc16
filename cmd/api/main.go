package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/config"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/auth"
	appHTTP "github.com/cmlabs-hris/hr-analytics-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository"
	analyticsService "github.com/cmlabs-hris/hr-analytics-go/internal/service/analytics"
	serviceAuth "github.com/cmlabs-hris/hr-analytics-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hr-analytics-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hr-analytics-go/internal/service/employee"
	sessionService "github.com/cmlabs-hris/hr-analytics-go/internal/service/session"
	uploadService "github.com/cmlabs-hris/hr-analytics-go/internal/service/upload"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})).With(slog.String("app", "hr-analytics")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open document store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	hub := sse.NewHub()
	sess := sessionService.NewSession(store,
		sessionService.WithHub(hub),
		sessionService.WithMode(cfg.Session.Mode),
		sessionService.WithPollInterval(cfg.Session.PollInterval),
	)
	if err := sess.Start(ctx); err != nil {
		// The loop keeps retrying; readers see the zero state until then.
		slog.Warn("Initial document load failed", "error", err)
	}
	defer sess.Close()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// Auth is disabled; the key only signs stream tokens.
		secret = uuid.NewString()
	}
	JWTService := jwt.NewJWTService(secret, cfg.Auth.AccessTTL)
	authService := serviceAuth.NewAuthService(JWTService,
		auth.Account{Username: cfg.Auth.AdminUsername, PasswordHash: cfg.Auth.AdminPasswordHash, IsAdmin: true},
		auth.Account{Username: cfg.Auth.ViewerUsername, PasswordHash: cfg.Auth.ViewerPasswordHash},
	)
	if !authService.Enabled() {
		slog.Warn("Authentication disabled, every caller is an admin")
	}

	archive, err := storage.NewLocalStorage(cfg.Upload.ArchiveDir)
	if err != nil {
		slog.Error("Failed to initialize upload archive", "error", err)
		os.Exit(1)
	}

	var analyticsOpts []analyticsService.Option
	if cfg.Analytics.BudgetMonth != "" {
		analyticsOpts = append(analyticsOpts, analyticsService.WithBudgetMonth(cfg.Analytics.BudgetMonth))
	}
	analyticsSvc := analyticsService.NewAnalyticsService(sess, analyticsOpts...)
	dashboardSvc := dashboardService.NewDashboardService(analyticsSvc)
	uploadSvc := uploadService.NewUploadService(store, archive, sess)
	employeeSvc := employeeService.NewEmployeeService(sess, store, sess)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        "hr-analytics",
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.LogLevel(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthEnabled:    authService.Enabled(),
	}, JWTService, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(authService),
		Status:    appHTTP.NewStatusHandler(sess),
		Analytics: appHTTP.NewAnalyticsHandler(analyticsSvc),
		Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		Upload:    appHTTP.NewUploadHandler(uploadSvc, hub, cfg.Upload.MaxFileSize),
		Employee:  appHTTP.NewEmployeeHandler(employeeSvc),
		Stream:    appHTTP.NewStreamHandler(JWTService, hub, sess, authService.Enabled()),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelled on shutdown so open event streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

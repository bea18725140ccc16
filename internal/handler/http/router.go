package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// AuthEnabled gates every route behind an access token. When false
	// all callers are treated as admins.
	AuthEnabled bool
}

type Handlers struct {
	Auth      AuthHandler
	Status    StatusHandler
	Analytics AnalyticsHandler
	Dashboard DashboardHandler
	Upload    UploadHandler
	Employee  EmployeeHandler
	Stream    StreamHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	authenticated := func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
		}
	}
	adminOnly := func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(middleware.AdminOnly)
		}
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// SSE authenticates with its own short-lived query token.
		r.Get("/stream", h.Stream.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", h.Auth.Logout)
				r.Get("/sse-token", h.Auth.GetSSEToken)
			})

			r.Get("/status", h.Status.Status)
			r.Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/metrics", h.Analytics.Metrics)
				r.Get("/departments", h.Analytics.Departments)
				r.Get("/trend", h.Analytics.Trend)
				r.Get("/trend/monthly", h.Analytics.MonthlyTrend)
				r.Get("/dates", h.Analytics.Dates)
				r.Get("/employees/count", h.Analytics.EmployeeCount)
				r.Get("/starters-terminations", h.Analytics.StarterTermination)
				r.Get("/locations", h.Analytics.Locations)
				r.Get("/tree", h.Analytics.Tree)
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Get("/templates", h.Upload.ListTemplates)
				r.Get("/templates/{type}", h.Upload.DownloadTemplate)

				// Admin only
				r.Group(func(r chi.Router) {
					adminOnly(r)
					r.Post("/", h.Upload.Upload)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/status/refresh", h.Status.Refresh)
				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Put("/{id}/assignment", h.Employee.UpdateAssignment)
				})
			})
		})
	})
	return r
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"hrpay/internal/config"
	"hrpay/internal/db"
	"hrpay/internal/domain/attendance"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/domain/timeoff"
	"hrpay/internal/notify"
	"hrpay/internal/platform/email"
	attendancehandler "hrpay/internal/transport/http/handlers/attendance"
	authhandler "hrpay/internal/transport/http/handlers/auth"
	employeehandler "hrpay/internal/transport/http/handlers/employee"
	payrollhandler "hrpay/internal/transport/http/handlers/payroll"
	timeoffhandler "hrpay/internal/transport/http/handlers/timeoff"
	"hrpay/internal/transport/http/middleware"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	notifySvc := notify.NewService(email.New(cfg), cfg.EmailFrom, cfg.CompanyName)

	payrollSvc := payroll.NewService(payroll.NewStore(pool), notifySvc, cfg.WorkingDaysPerMonth)
	timeoffSvc := timeoff.NewService(timeoff.NewStore(pool), notifySvc)
	attendanceSvc := attendance.NewService(pool)
	employeeSvc := employee.NewService(pool, cfg.PaidLeaveDays, cfg.SickLeaveDays)
	authSvc := auth.NewService(pool, cfg.JWTSecret, 24*time.Hour)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc).RegisterRoutes(r)
		timeoffhandler.NewHandler(timeoffSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		employeehandler.NewHandler(employeeSvc).RegisterRoutes(r)
	})

	slog.Info("payroll server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

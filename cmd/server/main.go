package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inhousecost/backend/internal/config"
	"github.com/inhousecost/backend/internal/handler"
	"github.com/inhousecost/backend/internal/logging"
	"github.com/inhousecost/backend/internal/metrics"
	"github.com/inhousecost/backend/internal/repository"
	"github.com/inhousecost/backend/internal/service"
	"github.com/inhousecost/backend/pkg/auth"
	"github.com/inhousecost/backend/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(os.Getenv("LOG_LEVEL"))
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	m := metrics.New()

	costRateRepo := repository.NewPgCostRateRepository(pool)
	roleCategoryRepo := repository.NewPgRoleCategoryRepository(pool)
	leadRepo := repository.NewPgLeadRepository(pool)

	// Lead emails are disabled when SendGrid is not configured.
	var sender mailer.Sender
	if cfg.MailerConfigured() {
		sender = mailer.NewSendGridClient(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	} else {
		slog.Warn("SendGrid not configured; lead emails will be skipped")
	}

	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)

	costRateService := service.NewCostRateService(costRateRepo, m)
	roleCategoryService := service.NewRoleCategoryService(roleCategoryRepo)
	estimateService := service.NewEstimateService(costRateRepo, roleCategoryRepo)
	leadService := service.NewLeadService(leadRepo, estimateService, service.LeadServiceConfig{
		Mailer:     sender,
		Metrics:    m,
		ContactURL: cfg.ContactURL,
	})
	adminAuthService := service.NewAdminAuthService(service.AdminAuthConfig{
		Password:      cfg.AdminPassword,
		PasswordHash:  cfg.AdminPasswordHash,
		SessionSecret: sessionSecret,
	})

	h := handler.New(pool, cfg.FrontendURL)
	calculatorHandler := handler.NewCalculatorHandler(costRateService, estimateService)
	costRateHandler := handler.NewCostRateHandler(costRateService, cfg.MaxUploadBytes)
	roleCategoryHandler := handler.NewRoleCategoryHandler(roleCategoryService)
	leadHandler := handler.NewLeadHandler(leadService)
	adminAuthHandler := handler.NewAdminAuthHandler(adminAuthService, cfg.SecureCookies())

	leadLimiter := handler.NewRateLimiter(cfg.LeadRateLimit)
	defer leadLimiter.Stop()
	loginLimiter := handler.NewRateLimiter(10)
	defer loginLimiter.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", m.Handler())

	// Calculator (public)
	mux.HandleFunc("GET /api/calculator/aggregates", calculatorHandler.Aggregates)
	mux.HandleFunc("GET /api/costs", calculatorHandler.Costs)
	mux.HandleFunc("GET /api/calculator/inclusions", calculatorHandler.Inclusions)
	mux.HandleFunc("GET /api/states", calculatorHandler.States)
	mux.HandleFunc("POST /api/calculator/totals", calculatorHandler.Totals)
	mux.HandleFunc("POST /api/calculator/roi", calculatorHandler.ROI)
	mux.HandleFunc("POST /api/calculator/comparison", calculatorHandler.Comparison)
	mux.HandleFunc("POST /api/calculator/scaling", calculatorHandler.Scaling)
	mux.HandleFunc("POST /api/calculate", calculatorHandler.Calculate)
	mux.HandleFunc("GET /api/role-categories", roleCategoryHandler.List)

	// Lead capture (public, rate limited per client IP)
	mux.Handle("POST /api/leads", leadLimiter.Middleware(http.HandlerFunc(leadHandler.Submit)))

	// Admin login
	mux.Handle("POST /api/admin/auth", loginLimiter.Middleware(http.HandlerFunc(adminAuthHandler.Login)))
	mux.HandleFunc("POST /api/admin/logout", adminAuthHandler.Logout)

	wrapAdmin := func(next http.HandlerFunc) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAdmin(sessionSecret)(next)
		}
		return auth.DevAdmin(next)
	}
	mux.Handle("GET /api/admin/session", wrapAdmin(adminAuthHandler.Session))

	mux.Handle("GET /api/admin/state-costs", wrapAdmin(costRateHandler.List))
	mux.Handle("POST /api/admin/state-costs", wrapAdmin(costRateHandler.Create))
	mux.Handle("POST /api/admin/state-costs/upload", wrapAdmin(costRateHandler.Upload))
	mux.Handle("GET /api/admin/state-costs/template", wrapAdmin(costRateHandler.Template))
	mux.Handle("PUT /api/admin/state-costs/{id}", wrapAdmin(costRateHandler.Update))
	mux.Handle("DELETE /api/admin/state-costs/{id}", wrapAdmin(costRateHandler.Delete))

	mux.Handle("GET /api/admin/cost-categories", wrapAdmin(roleCategoryHandler.List))
	mux.Handle("POST /api/admin/cost-categories", wrapAdmin(roleCategoryHandler.Create))
	mux.Handle("PUT /api/admin/cost-categories/{id}", wrapAdmin(roleCategoryHandler.Update))
	mux.Handle("DELETE /api/admin/cost-categories/{id}", wrapAdmin(roleCategoryHandler.Delete))

	mux.Handle("GET /api/admin/cost-assessments", wrapAdmin(leadHandler.Assessments))
	mux.Handle("GET /api/admin/cost-assessments/export", wrapAdmin(leadHandler.Export))
	mux.Handle("GET /api/admin/users", wrapAdmin(leadHandler.Users))
	mux.Handle("DELETE /api/admin/users/{id}", wrapAdmin(leadHandler.DeleteUser))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.SecurityHeaders(handler.RequestLogger(h.CORS(m.Middleware(mux)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Lead submission waits for the mail provider (15s client timeout).
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "auth_required", cfg.AuthRequired)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/database"
	"github.com/orgdesk/directory-api/internal/http/handler"
	"github.com/orgdesk/directory-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/orgdesk/directory-api/docs" // swagger docs
)

// directoryRoutes is the route set every directory entity exposes
type directoryRoutes interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Archive(w http.ResponseWriter, r *http.Request)
	Duplicate(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	cfg                    *config.Config
	logger                 *zap.Logger
	db                     *gorm.DB
	authMiddleware         *auth.Middleware
	organizationMiddleware *middleware.OrganizationMiddleware
	rateLimiter            *middleware.RateLimiter
	auditMiddleware        *middleware.AuditMiddleware
	authHandler            *handler.AuthHandler
	contactHandler         *handler.ContactHandler
	customerHandler        *handler.CustomerHandler
	vendorHandler          *handler.VendorHandler
	contractorHandler      *handler.ContractorHandler
	reportHandler          *handler.ReportHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	organizationMiddleware *middleware.OrganizationMiddleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	authHandler *handler.AuthHandler,
	contactHandler *handler.ContactHandler,
	customerHandler *handler.CustomerHandler,
	vendorHandler *handler.VendorHandler,
	contractorHandler *handler.ContractorHandler,
	reportHandler *handler.ReportHandler,
) *Router {
	return &Router{
		cfg:                    cfg,
		logger:                 logger,
		db:                     db,
		authMiddleware:         authMiddleware,
		organizationMiddleware: organizationMiddleware,
		rateLimiter:            rateLimiter,
		auditMiddleware:        auditMiddleware,
		authHandler:            authHandler,
		contactHandler:         contactHandler,
		customerHandler:        customerHandler,
		vendorHandler:          vendorHandler,
		contractorHandler:      contractorHandler,
		reportHandler:          reportHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check with pool stats
	r.Get("/health/db", rt.databaseHealth)

	// Readiness probe over every dependency
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.organizationMiddleware.Scope)
		r.Use(rt.rateLimiter.Limit)
		r.Use(rt.auditMiddleware.Audit)

		r.Get("/auth/me", rt.authHandler.Me)
		r.Get("/organizations", rt.authHandler.ListOrganizations)

		rt.mountDirectory(r, "/contacts", rt.contactHandler)
		rt.mountDirectory(r, "/customers", rt.customerHandler)
		rt.mountDirectory(r, "/vendors", rt.vendorHandler)
		rt.mountDirectory(r, "/contractors", rt.contractorHandler)

		r.Route("/reports", func(r chi.Router) {
			r.With(rt.authMiddleware.RequireCapability(auth.ResourceReports, auth.ActionView)).
				Get("/summary", rt.reportHandler.Summary)
			r.With(rt.authMiddleware.RequireCapability(auth.ResourceReports, auth.ActionExport)).
				Get("/export", rt.reportHandler.Export)
		})
	})

	return r
}

func (rt *Router) mountDirectory(r chi.Router, pattern string, h directoryRoutes) {
	view := rt.authMiddleware.RequireCapability(auth.ResourceDirectory, auth.ActionView)
	edit := rt.authMiddleware.RequireCapability(auth.ResourceDirectory, auth.ActionEdit)
	del := rt.authMiddleware.RequireCapability(auth.ResourceDirectory, auth.ActionDelete)

	r.Route(pattern, func(r chi.Router) {
		r.With(view).Get("/", h.List)
		r.With(view).Get("/{id}", h.Get)
		r.With(edit).Post("/{id}/archive", h.Archive)
		r.With(edit).Post("/{id}/duplicate", h.Duplicate)
		r.With(edit).Post("/{id}/remove", h.Remove)
		r.With(del).Delete("/{id}", h.Delete)
	})
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			"max_idle_closed":      stats.MaxIdleClosed,
			"max_lifetime_closed":  stats.MaxLifetimeClosed,
		},
	})
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

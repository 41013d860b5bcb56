package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orgdesk/directory-api/docs"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/database"
	"github.com/orgdesk/directory-api/internal/http/handler"
	"github.com/orgdesk/directory-api/internal/http/middleware"
	"github.com/orgdesk/directory-api/internal/http/router"
	"github.com/orgdesk/directory-api/internal/jobs"
	"github.com/orgdesk/directory-api/internal/logger"
	"github.com/orgdesk/directory-api/internal/repository"
	"github.com/orgdesk/directory-api/internal/service"
	"github.com/orgdesk/directory-api/internal/storage"
	"go.uber.org/zap"
)

// @title Organization Directory API
// @version 1.0
// @description Multi-tenant directory of contacts, customers, vendors and contractors

// @contact.name API Support
// @contact.email support@orgdesk.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Secrets come from Key Vault in staging and production
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	exportStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	organizationRepo := repository.NewOrganizationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	contactRepo := repository.NewContactRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	contractorRepo := repository.NewContractorRepository(db)

	// Services
	permissionService := service.NewPermissionService(organizationRepo, membershipRepo, log)
	contactService := service.NewContactService(contactRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	vendorService := service.NewVendorService(vendorRepo, log)
	contractorService := service.NewContractorService(contractorRepo, log)
	reportService := service.NewReportService(contactService, customerService, vendorService, contractorService, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	organizationMiddleware := middleware.NewOrganizationMiddleware(permissionService, service.ErrPermissionDenied, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(nil, log)

	// Handlers
	authHandler := handler.NewAuthHandler(permissionService, log)
	contactHandler := handler.NewDirectoryHandler(contactService, "contact", log)
	customerHandler := handler.NewDirectoryHandler(customerService, "customer", log)
	vendorHandler := handler.NewDirectoryHandler(vendorService, "vendor", log)
	contractorHandler := handler.NewDirectoryHandler(contractorService, "contractor", log)
	reportHandler := handler.NewReportHandler(reportService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		organizationMiddleware,
		rateLimiter,
		auditMiddleware,
		authHandler,
		contactHandler,
		customerHandler,
		vendorHandler,
		contractorHandler,
		reportHandler,
	)

	// Scheduled directory export
	var scheduler *jobs.Scheduler
	if cfg.Reports.ExportEnabled {
		scheduler = jobs.NewScheduler(log)
		exportJob := jobs.NewReportExportJob(
			organizationRepo,
			reportService,
			exportStorage,
			log.Named("export"),
			cfg.Reports.ExportTimeoutDuration(),
		)
		if err := jobs.RegisterReportExportJob(scheduler, exportJob, cfg.Reports.ExportCron); err != nil {
			log.Error("Failed to register export job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with export job",
				zap.String("cron_expr", cfg.Reports.ExportCron),
				zap.Duration("timeout", cfg.Reports.ExportTimeoutDuration()),
			)
		}
	} else {
		log.Info("Scheduled directory export disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("Error closing database connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

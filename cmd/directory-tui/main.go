package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/database"
	"github.com/orgdesk/directory-api/internal/logger"
	"github.com/orgdesk/directory-api/internal/repository"
	"github.com/orgdesk/directory-api/internal/service"
	"github.com/orgdesk/directory-api/internal/tui"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	token := flag.String("token", os.Getenv("DIRECTORY_TOKEN"), "Access token of the user (default: $DIRECTORY_TOKEN)")
	orgFlag := flag.String("org", "", "Organization to open first")
	logFile := flag.String("log-file", "directory-tui.log", "Log file")
	flag.Parse()

	if *token == "" {
		return fmt.Errorf("an access token is required (--token or DIRECTORY_TOKEN)")
	}

	var preferred *uuid.UUID
	if *orgFlag != "" {
		id, err := uuid.Parse(*orgFlag)
		if err != nil {
			return fmt.Errorf("invalid --org: %w", err)
		}
		preferred = &id
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Logging.File = *logFile

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	user, err := auth.NewJWTValidator(&cfg.Auth).ValidateToken(*token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	permissionService := service.NewPermissionService(
		repository.NewOrganizationRepository(db),
		repository.NewMembershipRepository(db),
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(ctx, tui.Options{
		User:         user,
		Accounts:     permissionService,
		Contacts:     service.NewContactService(repository.NewContactRepository(db), log),
		Customers:    service.NewCustomerService(repository.NewCustomerRepository(db), log),
		Vendors:      service.NewVendorService(repository.NewVendorRepository(db), log),
		Contractors:  service.NewContractorService(repository.NewContractorRepository(db), log),
		Organization: preferred,
		Logger:       log.Named("tui"),
	})
	defer model.Close()

	log.Info("starting terminal client", zap.String("user_id", user.UserID.String()))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("terminal client failed: %w", err)
	}
	return nil
}

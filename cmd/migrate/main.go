package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/orgdesk/directory-api/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Get command and arguments
	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate [up|up-to|down|reset|status|version|create]")
	}

	command := args[0]
	arguments := args[1:]

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")

	case "up-to":
		if len(arguments) == 0 {
			return fmt.Errorf("up-to requires a target version")
		}
		version, err := strconv.ParseInt(arguments[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", arguments[0], err)
		}
		if err := goose.UpTo(db, migrationsDir, version); err != nil {
			return fmt.Errorf("failed to migrate up to %d: %w", version, err)
		}
		fmt.Printf("Migrated up to version %d\n", version)

	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		fmt.Println("Migration rolled back successfully")

	case "reset":
		if s := cfg.App.Environment; s == "production" || s == "staging" {
			return fmt.Errorf("reset is not allowed in %s", s)
		}
		if err := goose.Reset(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to reset migrations: %w", err)
		}
		fmt.Println("All migrations rolled back")

	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

	case "version":
		if err := goose.Version(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}

	case "create":
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, migrationsDir, arguments[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", arguments[0])

	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	return nil
}

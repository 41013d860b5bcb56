package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the configured database and verifies the connection
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres", "":
		dialector = postgres.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Info("database schema auto-migrated", zap.String("driver", cfg.Driver))
	}

	log.Info("database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

// AutoMigrate creates the directory tables. Production schemas are managed by goose.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Organization{},
		&domain.OrganizationMember{},
		&domain.Contact{},
		&domain.Customer{},
		&domain.Vendor{},
		&domain.Contractor{},
	)
}

// HealthCheck pings the database
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Ping()
}

// HealthCheckWithStats pings the database and returns pool statistics
func HealthCheckWithStats(db *gorm.DB) (sql.DBStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return sql.DBStats{}, err
	}
	return sqlDB.Stats(), nil
}

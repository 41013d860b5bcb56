package logger

import (
	"fmt"

	"github.com/orgdesk/directory-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new structured logger
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		if cfg.File == "" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// A log file keeps the terminal free for interactive clients
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// WithRequest adds request context to logger
func WithRequest(logger *zap.Logger, method, path, requestID string) *zap.Logger {
	return logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithOrganization adds tenant context to logger
func WithOrganization(logger *zap.Logger, organizationID string) *zap.Logger {
	return logger.With(zap.String("organization_id", organizationID))
}

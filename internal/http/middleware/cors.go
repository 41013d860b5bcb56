package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/orgdesk/directory-api/internal/config"
	"go.uber.org/zap"
)

func isDevelopment(environment string) bool {
	return environment == "" || environment == "development" || environment == "local"
}

// CORS returns a CORS middleware configured from the application config.
// Without configured origins development allows every origin and other
// environments deny cross-origin requests.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	anyOrigin := func(r *http.Request, origin string) bool {
		return origin != ""
	}

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDevelopment(environment) {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	case isDevelopment(environment):
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS configured to allow all origins in development mode")
	default:
		// An empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS configured with no allowed origins - all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

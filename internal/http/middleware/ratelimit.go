package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"go.uber.org/zap"
)

// RateLimiter holds rate limiting middleware and configuration
type RateLimiter struct {
	cfg            *config.RateLimitConfig
	logger         *zap.Logger
	ipLimiter      func(http.Handler) http.Handler
	userLimiter    func(http.Handler) http.Handler
	whitelistIPs   map[string]bool
	whitelistPaths map[string]bool
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:            cfg,
		logger:         logger,
		whitelistIPs:   make(map[string]bool),
		whitelistPaths: make(map[string]bool),
	}

	for _, ip := range cfg.WhitelistIPs {
		rl.whitelistIPs[ip] = true
	}
	for _, path := range cfg.WhitelistPaths {
		rl.whitelistPaths[path] = true
	}

	rl.ipLimiter = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rl.rateLimitExceededHandler),
	)

	// Authenticated requests are counted per user and organization
	rl.userLimiter = httprate.Limit(
		cfg.RequestsPerMinuteAuth,
		time.Minute,
		httprate.WithKeyFuncs(rl.keyByUserOrIP),
		httprate.WithLimitHandler(rl.rateLimitExceededHandler),
	)

	logger.Info("Rate limiter initialized",
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
		zap.Strings("whitelist_ips", cfg.WhitelistIPs),
		zap.Strings("whitelist_paths", cfg.WhitelistPaths),
	)

	return rl
}

// Limit returns the rate limiting middleware. It must run after the
// organization scope middleware so tenants get separate budgets.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.isPathWhitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := rl.getClientIP(r)
		if rl.isIPWhitelisted(clientIP) {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := auth.FromContext(r.Context()); ok {
			rl.userLimiter(next).ServeHTTP(w, r)
		} else {
			rl.ipLimiter(next).ServeHTTP(w, r)
		}
	})
}

// LimitByIP returns IP-based rate limiting middleware (for use before auth)
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.isPathWhitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := rl.getClientIP(r)
		if rl.isIPWhitelisted(clientIP) {
			next.ServeHTTP(w, r)
			return
		}

		rl.ipLimiter(next).ServeHTTP(w, r)
	})
}

// keyByUserOrIP keys authenticated requests by user and organization, others by IP
func (rl *RateLimiter) keyByUserOrIP(r *http.Request) (string, error) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		return "ip:" + rl.getClientIP(r), nil
	}
	key := "user:" + userCtx.UserID.String()
	if scope, ok := auth.OrganizationScopeFromContext(r.Context()); ok && scope.HasOrganization() {
		key += ":org:" + scope.OrganizationID.String()
	}
	return key, nil
}

// getClientIP extracts the client IP from the request
func (rl *RateLimiter) getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxied requests)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// isIPWhitelisted checks if the IP is in the whitelist
func (rl *RateLimiter) isIPWhitelisted(ip string) bool {
	return rl.whitelistIPs[ip]
}

// isPathWhitelisted checks if the path is in the whitelist
func (rl *RateLimiter) isPathWhitelisted(path string) bool {
	// Check exact match
	if rl.whitelistPaths[path] {
		return true
	}

	// Check prefix match for paths ending with /*
	for wp := range rl.whitelistPaths {
		if strings.HasSuffix(wp, "/*") {
			prefix := strings.TrimSuffix(wp, "/*")
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

// rateLimitExceededHandler handles rate limit exceeded responses
func (rl *RateLimiter) rateLimitExceededHandler(w http.ResponseWriter, r *http.Request) {
	clientIP := rl.getClientIP(r)
	userID := ""
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		userID = userCtx.UserID.String()
	}

	rl.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", clientIP),
		zap.String("user_id", userID),
	)

	w.Header().Set("Retry-After", "60")
	respondProblem(w, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
}

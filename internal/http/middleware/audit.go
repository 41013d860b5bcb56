package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/domain"
	"go.uber.org/zap"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains path prefixes that are never audited
	SkipPaths []string
	// AuditReads enables auditing of GET requests
	AuditReads bool
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/swagger",
		},
	}
}

// AuditMiddleware writes one audit log line per directory mutation
type AuditMiddleware struct {
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware. Entries go to a logger
// named "audit" so they can be routed separately.
func NewAuditMiddleware(config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		config: config,
		logger: logger.Named("audit"),
	}
}

// Audit records who changed which record in which organization, and the outcome
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.logAudit(r, rw.statusCode)
	})
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	switch r.Method {
	case http.MethodOptions, http.MethodHead:
		return false
	case http.MethodGet:
		if !m.config.AuditReads {
			return false
		}
	}

	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(r.URL.Path, skipPath) {
			return false
		}
	}
	return true
}

func (m *AuditMiddleware) logAudit(r *http.Request, statusCode int) {
	entity, recordID := extractEntityInfo(r)

	fields := []zap.Field{
		zap.String("action", auditAction(r)),
		zap.String("entity", entity),
		zap.String("record_id", recordID),
		zap.Int("status_code", statusCode),
		zap.Bool("succeeded", statusCode >= 200 && statusCode < 300),
		zap.String("request_id", RequestIDFromContext(r.Context())),
	}
	if user, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields,
			zap.String("user_id", user.UserID.String()),
			zap.String("user_email", user.Email),
		)
	}
	if scope, ok := auth.OrganizationScopeFromContext(r.Context()); ok && scope.HasOrganization() {
		fields = append(fields,
			zap.String("organization_id", scope.OrganizationID.String()),
			zap.String("role", string(scope.Role)),
		)
	}

	m.logger.Info("directory mutation", fields...)
}

// auditAction names the mutation: archive, duplicate and remove come from the
// last path segment, DELETE is a hard delete
func auditAction(r *http.Request) string {
	switch r.Method {
	case http.MethodDelete:
		return "delete"
	case http.MethodGet:
		return "read"
	}
	switch last := path.Base(r.URL.Path); last {
	case "archive", "duplicate", "remove":
		return last
	default:
		return strings.ToLower(r.Method)
	}
}

// extractEntityInfo finds the directory entity and record id of the request
func extractEntityInfo(r *http.Request) (string, string) {
	recordID := ""
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		recordID = routeCtx.URLParam("id")
	}

	for _, part := range strings.Split(strings.Trim(r.URL.Path, "/"), "/") {
		if domain.EntityType(part).IsValid() {
			return part, recordID
		}
	}
	return "unknown", recordID
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

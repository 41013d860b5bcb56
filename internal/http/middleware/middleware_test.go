package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ReferrerPolicy:        "no-referrer",
	}
	rec := httptest.NewRecorder()

	middleware.SecurityHeaders(cfg)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		environment string
		origin      string
		allowed     bool
	}{
		{name: "development allows any origin", environment: "development", origin: "http://localhost:3000", allowed: true},
		{name: "production denies without origins", environment: "production", origin: "https://evil.example", allowed: false},
		{name: "explicit origin", origins: []string{"https://app.example"}, environment: "production", origin: "https://app.example", allowed: true},
		{name: "unlisted origin", origins: []string{"https://app.example"}, environment: "production", origin: "https://evil.example", allowed: false},
		{name: "wildcard", origins: []string{"*"}, environment: "production", origin: "https://any.example", allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.CORSConfig{
				AllowedOrigins: tt.origins,
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{"Authorization", middleware.OrganizationHeader},
			}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			middleware.CORS(cfg, tt.environment, zap.NewNop())(okHandler).ServeHTTP(rec, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := &config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 2,
		WhitelistPaths:        []string{"/health/*"},
	}
	rl := middleware.NewRateLimiter(cfg, zap.NewNop())
	h := rl.LimitByIP(okHandler)

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("/api/v1/contacts").Code)
	assert.Equal(t, http.StatusOK, send("/api/v1/contacts").Code)
	limited := send("/api/v1/contacts")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("/health/ready").Code)
}

func TestRateLimiter_SeparateBudgetPerOrganization(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RequestsPerMinuteAuth: 1}
	h := middleware.NewRateLimiter(cfg, zap.NewNop()).Limit(okHandler)
	user := &auth.UserContext{UserID: uuid.New()}

	send := func(orgID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
		ctx := auth.WithUserContext(req.Context(), user)
		ctx = auth.WithOrganizationScope(ctx, &auth.OrganizationScope{OrganizationID: &orgID, Role: auth.RoleViewer})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req.WithContext(ctx))
		return rec.Code
	}

	orgA, orgB := uuid.New(), uuid.New()
	assert.Equal(t, http.StatusOK, send(orgA))
	assert.Equal(t, http.StatusTooManyRequests, send(orgA))
	assert.Equal(t, http.StatusOK, send(orgB))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{RequestsPerMinute: 1, RequestsPerMinuteAuth: 1}, zap.NewNop())
	h := rl.LimitByIP(okHandler)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLogging_RequestID(t *testing.T) {
	var seen string
	h := middleware.Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
	}))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, seen)
	assert.Equal(t, incoming, rec.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.NotEqual(t, incoming, seen)
}

func TestLogging_ReportsTenant(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	orgID := uuid.New()
	roles := fakeRoles{roles: map[uuid.UUID]auth.Role{orgID: auth.RoleMember}}
	scope := middleware.NewOrganizationMiddleware(roles, errDenied, zap.NewNop()).Scope(okHandler)

	user := &auth.UserContext{UserID: uuid.New(), DisplayName: "Ada"}
	authenticated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope.ServeHTTP(w, withUser(r, user))
	})
	h := middleware.Logging(zap.New(core))(authenticated)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	req.Header.Set(middleware.OrganizationHeader, orgID.String())
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, user.UserID.String(), fields["user_id"])
	assert.Equal(t, "Ada", fields["user_name"])
	assert.Equal(t, orgID.String(), fields["organization_id"])
	assert.Equal(t, int64(http.StatusOK), fields["status_code"])
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestRecovery_RepanicsOnAbort(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestAudit(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	audit := middleware.NewAuditMiddleware(nil, zap.New(core))
	orgID := uuid.New()
	user := &auth.UserContext{UserID: uuid.New(), Email: "ada@example.com"}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUserContext(req.Context(), user)
			ctx = auth.WithOrganizationScope(ctx, &auth.OrganizationScope{OrganizationID: &orgID, Role: auth.RoleMember})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Use(audit.Audit)
	r.Get("/vendors", okHandler)
	r.Post("/vendors/{id}/archive", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Delete("/vendors/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	recordID := uuid.NewString()
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/vendors", nil),
		httptest.NewRequest(http.MethodPost, "/vendors/"+recordID+"/archive", nil),
		httptest.NewRequest(http.MethodDelete, "/vendors/"+recordID, nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.FilterMessage("directory mutation").All()
	require.Len(t, entries, 2)

	archive := entries[0].ContextMap()
	assert.Equal(t, "archive", archive["action"])
	assert.Equal(t, "vendors", archive["entity"])
	assert.Equal(t, recordID, archive["record_id"])
	assert.Equal(t, true, archive["succeeded"])
	assert.Equal(t, orgID.String(), archive["organization_id"])
	assert.Equal(t, "ada@example.com", archive["user_email"])
	assert.Equal(t, "audit", entries[0].LoggerName)

	del := entries[1].ContextMap()
	assert.Equal(t, "delete", del["action"])
	assert.Equal(t, false, del["succeeded"])
	assert.Equal(t, int64(http.StatusForbidden), del["status_code"])
}

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"github.com/orgdesk/directory-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func captureUser(t *testing.T, got **auth.UserContext) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.FromContext(r.Context())
		require.True(t, ok)
		*got = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTValidator_ValidToken(t *testing.T) {
	user := testutil.TestUser()
	user.Metadata.GlobalRole = "app_admin"
	user.Metadata.DefaultOrganizationID = uuid.NewString()

	got, err := auth.NewJWTValidator(testutil.TestAuthConfig()).ValidateToken(testutil.SignToken(t, user))

	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.DisplayName, got.DisplayName)
	assert.Equal(t, user.Metadata.GlobalRole, got.Metadata.GlobalRole)
	assert.Equal(t, user.Metadata.DefaultOrganizationID, got.Metadata.DefaultOrganizationID)
	assert.True(t, auth.IsAppAdmin(got))
}

func TestJWTValidator_Expired(t *testing.T) {
	token := testutil.SignClaims(t, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := auth.NewJWTValidator(testutil.TestAuthConfig()).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTValidator_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *config.AuthConfig
		token func(t *testing.T) string
	}{
		{
			name: "subject is not a uuid",
			cfg:  testutil.TestAuthConfig(),
			token: func(t *testing.T) string {
				return testutil.SignClaims(t, jwt.MapClaims{"sub": "user-1"})
			},
		},
		{
			name: "wrong secret",
			cfg:  &config.AuthConfig{JWTSecret: "another-secret"},
			token: func(t *testing.T) string {
				return testutil.SignToken(t, testutil.TestUser())
			},
		},
		{
			name: "no secret configured",
			cfg:  &config.AuthConfig{},
			token: func(t *testing.T) string {
				return testutil.SignToken(t, testutil.TestUser())
			},
		},
		{
			name: "audience mismatch",
			cfg:  &config.AuthConfig{JWTSecret: testutil.TestJWTSecret, JWTAudience: "directory"},
			token: func(t *testing.T) string {
				return testutil.SignClaims(t, jwt.MapClaims{"sub": uuid.NewString(), "aud": "billing"})
			},
		},
		{
			name: "garbage",
			cfg:  testutil.TestAuthConfig(),
			token: func(t *testing.T) string {
				return "not.a.token"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.NewJWTValidator(tt.cfg).ValidateToken(tt.token(t))
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestMiddleware_BearerToken(t *testing.T) {
	mw := auth.NewMiddleware(testutil.TestAuthConfig(), zap.NewNop())
	user := testutil.TestUser()
	token := testutil.SignToken(t, user)

	var got *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.Authenticate(captureUser(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, token, got.AccessToken)
}

func TestMiddleware_APIKey(t *testing.T) {
	mw := auth.NewMiddleware(testutil.TestAuthConfig(), zap.NewNop())

	var got *auth.UserContext
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	req.Header.Set("x-api-key", "test-api-key")
	rec := httptest.NewRecorder()

	mw.Authenticate(captureUser(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, auth.SystemUserID, got.UserID)
	assert.True(t, auth.IsAppAdmin(got))
}

func TestMiddleware_Unauthorized(t *testing.T) {
	mw := auth.NewMiddleware(testutil.TestAuthConfig(), zap.NewNop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{"missing header", "", ""},
		{"wrong scheme", "Authorization", "Basic abc"},
		{"bad token", "Authorization", "Bearer nope"},
		{"bad api key", "x-api-key", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMiddleware_APIKeyDisabledWhenUnset(t *testing.T) {
	mw := auth.NewMiddleware(&config.AuthConfig{JWTSecret: testutil.TestJWTSecret}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-api-key", "anything")
	rec := httptest.NewRecorder()

	mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireCapability(t *testing.T) {
	mw := auth.NewMiddleware(testutil.TestAuthConfig(), zap.NewNop())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	orgID := uuid.New()

	tests := []struct {
		name     string
		scope    *auth.OrganizationScope
		expected int
	}{
		{"no scope passes through", nil, http.StatusNoContent},
		{"no tenant passes through", &auth.OrganizationScope{}, http.StatusNoContent},
		{"viewer denied", &auth.OrganizationScope{OrganizationID: &orgID, Role: auth.RoleViewer}, http.StatusForbidden},
		{"admin allowed", &auth.OrganizationScope{OrganizationID: &orgID, Role: auth.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/contacts/x", nil)
			if tt.scope != nil {
				req = req.WithContext(auth.WithOrganizationScope(req.Context(), tt.scope))
			}
			rec := httptest.NewRecorder()

			mw.RequireCapability(auth.ResourceDirectory, auth.ActionDelete)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

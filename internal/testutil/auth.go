package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/config"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret signs tokens created by SignToken
const TestJWTSecret = "test-secret-with-enough-length-for-hs256"

// TestAuthConfig accepts tokens signed by SignToken and the key "test-api-key"
func TestAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: TestJWTSecret,
		APIKey:    "test-api-key",
	}
}

// SignToken issues an HS256 access token for user valid for one hour
func SignToken(t *testing.T, user *auth.UserContext) string {
	t.Helper()
	return SignClaims(t, jwt.MapClaims{
		"sub":   user.UserID.String(),
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"global_role":             user.Metadata.GlobalRole,
			"default_organization_id": user.Metadata.DefaultOrganizationID,
			"full_name":               user.DisplayName,
		},
	})
}

// SignClaims signs arbitrary claims with TestJWTSecret
func SignClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)
	return token
}

package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTValidator validates HS256 access tokens issued by the identity provider
type JWTValidator struct {
	secret   []byte
	audience string
	issuer   string
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{
		secret:   []byte(cfg.JWTSecret),
		audience: cfg.JWTAudience,
		issuer:   cfg.JWTIssuer,
	}
}

// ValidateToken validates a JWT token and returns user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	metadata := ExtractUserMetadata(claims)
	userCtx := &UserContext{
		UserID:      userID,
		Email:       extractString(claims, "email"),
		DisplayName: metadata.FullName,
		Metadata:    metadata,
	}
	if userCtx.DisplayName == "" {
		userCtx.DisplayName = userCtx.Email
	}

	return userCtx, nil
}

// ExtractUserMetadata reads the user_metadata claim
func ExtractUserMetadata(claims jwt.MapClaims) UserMetadata {
	raw, ok := claims["user_metadata"].(map[string]interface{})
	if !ok {
		return UserMetadata{}
	}
	return UserMetadata{
		GlobalRole:            stringValue(raw["global_role"]),
		DefaultOrganizationID: stringValue(raw["default_organization_id"]),
		FullName:              stringValue(raw["full_name"]),
	}
}

func extractString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if str := stringValue(claims[key]); str != "" {
			return str
		}
	}
	return ""
}

func stringValue(v interface{}) string {
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}

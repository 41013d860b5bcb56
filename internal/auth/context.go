package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// UserMetadata mirrors the user_metadata claim issued by the identity provider
type UserMetadata struct {
	GlobalRole            string `json:"global_role,omitempty"`
	DefaultOrganizationID string `json:"default_organization_id,omitempty"`
	FullName              string `json:"full_name,omitempty"`
}

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Metadata    UserMetadata
	AccessToken string
}

type contextKey string

const userContextKey contextKey = "userContext"
const organizationScopeKey contextKey = "organizationScope"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// DefaultOrganizationID parses the default organization from the user metadata.
// Returns nil when it is missing or malformed.
func (u *UserContext) DefaultOrganizationID() *uuid.UUID {
	if u == nil || u.Metadata.DefaultOrganizationID == "" {
		return nil
	}
	id, err := uuid.Parse(u.Metadata.DefaultOrganizationID)
	if err != nil {
		return nil
	}
	return &id
}

// GetDisplayNameInitials returns initials from the display name (e.g., "John Doe" -> "JD")
func (u *UserContext) GetDisplayNameInitials() string {
	if u.DisplayName == "" {
		return ""
	}
	initials := ""
	for _, part := range strings.Fields(u.DisplayName) {
		initials += strings.ToUpper(part[:1])
	}
	return initials
}

// OrganizationScope is the tenant a request operates on, resolved by middleware.
// OrganizationID is nil when the caller has no active organization.
type OrganizationScope struct {
	OrganizationID *uuid.UUID
	Role           Role
}

// HasOrganization reports whether a tenant was resolved
func (s *OrganizationScope) HasOrganization() bool {
	return s != nil && s.OrganizationID != nil
}

// WithOrganizationScope adds the resolved tenant to the context
func WithOrganizationScope(ctx context.Context, scope *OrganizationScope) context.Context {
	return context.WithValue(ctx, organizationScopeKey, scope)
}

// OrganizationScopeFromContext extracts the resolved tenant from the context
func OrganizationScopeFromContext(ctx context.Context) (*OrganizationScope, bool) {
	scope, ok := ctx.Value(organizationScopeKey).(*OrganizationScope)
	return scope, ok && scope != nil
}

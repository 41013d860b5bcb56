package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/domain"
	"go.uber.org/zap"
)

// OrganizationHeader selects the active organization of a request
const OrganizationHeader = "X-Organization-ID"

// OrganizationQueryParam is the query fallback for OrganizationHeader
const OrganizationQueryParam = "organization_id"

// RoleResolver returns the role a user acts with inside an organization
type RoleResolver interface {
	ResolveRole(ctx context.Context, user *auth.UserContext, organizationID uuid.UUID) (auth.Role, error)
}

// OrganizationMiddleware resolves the tenant of each request and the
// caller's role in it
type OrganizationMiddleware struct {
	roles          RoleResolver
	deniedSentinel error
	logger         *zap.Logger
}

// NewOrganizationMiddleware creates the tenant scope middleware. denied is the
// error the resolver returns for users outside the organization.
func NewOrganizationMiddleware(roles RoleResolver, denied error, logger *zap.Logger) *OrganizationMiddleware {
	return &OrganizationMiddleware{
		roles:          roles,
		deniedSentinel: denied,
		logger:         logger,
	}
}

// Scope picks the organization from the X-Organization-ID header, then the
// organization_id query parameter, then the user's default organization.
// Requests without any organization continue with an empty scope so list
// endpoints can answer with an empty page.
func (m *OrganizationMiddleware) Scope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.FromContext(r.Context())
		if !ok {
			respondProblem(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Authentication required")
			return
		}

		info := requestInfoFrom(r.Context())
		if info != nil {
			info.userID = user.UserID.String()
			info.userName = user.DisplayName
		}

		orgID, explicit, err := requestedOrganization(r, user)
		if err != nil {
			respondProblem(w, http.StatusBadRequest, domain.ErrorTypeBadRequest, "Invalid organization id: must be a valid UUID")
			return
		}

		scope := &auth.OrganizationScope{}
		if orgID != nil {
			role, err := m.roles.ResolveRole(r.Context(), user, *orgID)
			switch {
			case err == nil:
				scope.OrganizationID = orgID
				scope.Role = role
			case errors.Is(err, m.deniedSentinel) && !explicit:
				// A stale default organization leaves the user without a tenant
				m.logger.Debug("default organization is not accessible",
					zap.String("user_id", user.UserID.String()),
					zap.String("organization_id", orgID.String()))
			case errors.Is(err, m.deniedSentinel):
				m.logger.Warn("user attempted to access foreign organization",
					zap.String("user_id", user.UserID.String()),
					zap.String("organization_id", orgID.String()))
				respondProblem(w, http.StatusForbidden, domain.ErrorTypeForbidden, "Access denied: you are not a member of this organization")
				return
			default:
				m.logger.Error("failed to resolve organization role", zap.Error(err))
				respondProblem(w, http.StatusInternalServerError, domain.ErrorTypeInternal, "Failed to resolve organization")
				return
			}
		}

		if info != nil && scope.HasOrganization() {
			info.organizationID = scope.OrganizationID.String()
		}

		next.ServeHTTP(w, r.WithContext(auth.WithOrganizationScope(r.Context(), scope)))
	})
}

// requestedOrganization returns the organization asked for and whether it was
// asked for explicitly rather than taken from the user's default
func requestedOrganization(r *http.Request, user *auth.UserContext) (*uuid.UUID, bool, error) {
	raw := r.Header.Get(OrganizationHeader)
	if raw == "" {
		raw = r.URL.Query().Get(OrganizationQueryParam)
	}
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, true, err
		}
		return &id, true, nil
	}
	return user.DefaultOrganizationID(), false, nil
}

func respondProblem(w http.ResponseWriter, status int, errorType, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errorType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}

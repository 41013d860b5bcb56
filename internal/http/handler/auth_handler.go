package handler

import (
	"context"
	"net/http"

	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/domain"
	"go.uber.org/zap"
)

// AccountService is the part of the permission service the auth handler needs
type AccountService interface {
	Me(ctx context.Context, user *auth.UserContext, scope *auth.OrganizationScope) (*domain.MeDTO, error)
	ListOrganizations(ctx context.Context, user *auth.UserContext) ([]domain.OrganizationDTO, error)
}

type AuthHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

func NewAuthHandler(accounts AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the user, the active organization, the role held there and the capabilities it grants
// @Tags Auth
// @Produce json
// @Param X-Organization-ID header string false "Active organization"
// @Success 200 {object} domain.MeDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	me, err := h.accounts.Me(r.Context(), user, requestScope(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "load current user")
		return
	}

	respondJSON(w, http.StatusOK, me)
}

// ListOrganizations godoc
// @Summary List organizations
// @Description Organizations the user belongs to, with the role held in each. App admins see all organizations.
// @Tags Auth
// @Produce json
// @Success 200 {array} domain.OrganizationDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /organizations [get]
func (h *AuthHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	orgs, err := h.accounts.ListOrganizations(r.Context(), user)
	if err != nil {
		respondServiceError(w, h.logger, err, "list organizations")
		return
	}

	respondJSON(w, http.StatusOK, orgs)
}

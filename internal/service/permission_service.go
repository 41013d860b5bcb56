package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PermissionService resolves organization roles from the membership table
type PermissionService struct {
	orgRepo        *repository.OrganizationRepository
	membershipRepo *repository.MembershipRepository
	logger         *zap.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(
	orgRepo *repository.OrganizationRepository,
	membershipRepo *repository.MembershipRepository,
	logger *zap.Logger,
) *PermissionService {
	return &PermissionService{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// MemberRole returns the user's role in the organization, or "" when not a member
func (s *PermissionService) MemberRole(ctx context.Context, userID, organizationID uuid.UUID) (auth.Role, error) {
	role, err := s.membershipRepo.GetRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", mapRepositoryError(err, "lookup membership")
	}
	return auth.Role(role), nil
}

// ResolveRole returns the role the user acts with inside organizationID.
// App admins act as app_admin everywhere; non-members get ErrPermissionDenied.
func (s *PermissionService) ResolveRole(ctx context.Context, user *auth.UserContext, organizationID uuid.UUID) (auth.Role, error) {
	if user == nil {
		return "", ErrPermissionDenied
	}
	if auth.IsAppAdmin(user) {
		return auth.RoleAppAdmin, nil
	}

	role, err := s.MemberRole(ctx, user.UserID, organizationID)
	if err != nil {
		return "", err
	}
	if !role.IsValid() {
		s.logger.Debug("user is not a member of organization",
			zap.String("user_id", user.UserID.String()),
			zap.String("organization_id", organizationID.String()))
		return "", ErrPermissionDenied
	}
	return role, nil
}

// CheckRole evaluates an organization role check for the user
func (s *PermissionService) CheckRole(ctx context.Context, user *auth.UserContext, check auth.OrganizationRoleCheck) (bool, error) {
	if auth.IsAppAdmin(user) {
		return true, nil
	}
	return auth.CheckOrganizationRole(ctx, s, check)
}

// ListOrganizations returns the organizations the user can switch to.
// App admins see every organization.
func (s *PermissionService) ListOrganizations(ctx context.Context, user *auth.UserContext) ([]domain.OrganizationDTO, error) {
	if user == nil {
		return nil, ErrPermissionDenied
	}

	if auth.IsAppAdmin(user) {
		orgs, err := s.orgRepo.List(ctx)
		if err != nil {
			return nil, mapRepositoryError(err, "list organizations")
		}
		dtos := make([]domain.OrganizationDTO, len(orgs))
		for i, org := range orgs {
			dtos[i] = toOrganizationDTO(&org, auth.RoleAppAdmin)
		}
		return dtos, nil
	}

	members, err := s.membershipRepo.ListForUser(ctx, user.UserID)
	if err != nil {
		return nil, mapRepositoryError(err, "list memberships")
	}
	dtos := make([]domain.OrganizationDTO, 0, len(members))
	for _, m := range members {
		if m.Organization == nil {
			continue
		}
		dtos = append(dtos, toOrganizationDTO(m.Organization, auth.Role(m.Role)))
	}
	return dtos, nil
}

// Capabilities builds the capability flags for a role
func Capabilities(user *auth.UserContext, scope *auth.OrganizationScope) domain.CapabilitiesDTO {
	caps := domain.CapabilitiesDTO{
		AppAdmin:  auth.IsAppAdmin(user),
		HasTenant: scope.HasOrganization(),
	}
	if !caps.HasTenant {
		return caps
	}

	role := scope.Role
	caps.View = auth.CanPerform(role, auth.ResourceDirectory, auth.ActionView)
	caps.Edit = auth.CanPerform(role, auth.ResourceDirectory, auth.ActionEdit)
	caps.Delete = auth.CanPerform(role, auth.ResourceDirectory, auth.ActionDelete)
	caps.Reports = auth.CanPerform(role, auth.ResourceReports, auth.ActionView)
	caps.Export = auth.CanPerform(role, auth.ResourceReports, auth.ActionExport)
	return caps
}

// Me describes the authenticated user inside the resolved tenant
func (s *PermissionService) Me(ctx context.Context, user *auth.UserContext, scope *auth.OrganizationScope) (*domain.MeDTO, error) {
	if user == nil {
		return nil, ErrPermissionDenied
	}

	orgs, err := s.ListOrganizations(ctx, user)
	if err != nil {
		return nil, err
	}

	me := &domain.MeDTO{
		UserID:                user.UserID,
		Email:                 user.Email,
		DisplayName:           user.DisplayName,
		GlobalRole:            user.Metadata.GlobalRole,
		DefaultOrganizationID: user.Metadata.DefaultOrganizationID,
		Capabilities:          Capabilities(user, scope),
		Organizations:         orgs,
	}
	if scope.HasOrganization() {
		me.ActiveOrganizationID = scope.OrganizationID
		me.Role = string(scope.Role)
	}
	return me, nil
}

func toOrganizationDTO(org *domain.Organization, role auth.Role) domain.OrganizationDTO {
	return domain.OrganizationDTO{
		ID:   org.ID,
		Name: org.Name,
		Slug: org.Slug,
		Role: string(role),
	}
}

package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is an organization role or the global app_admin role
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleMember   Role = "member"
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleAppAdmin Role = "app_admin"
)

// roleHierarchy ranks roles. Anything missing ranks 0 and passes no check.
var roleHierarchy = map[Role]int{
	RoleViewer:   1,
	RoleMember:   2,
	RoleAdmin:    3,
	RoleOwner:    4,
	RoleAppAdmin: 5,
}

// RoleLevel returns the rank of role, 0 for unknown roles
func RoleLevel(role Role) int {
	return roleHierarchy[role]
}

// IsValid checks if the role is part of the hierarchy
func (r Role) IsValid() bool {
	return RoleLevel(r) > 0
}

// IsAppAdmin reports whether the user carries the global app_admin role
func IsAppAdmin(user *UserContext) bool {
	return user != nil && Role(user.Metadata.GlobalRole) == RoleAppAdmin
}

// HasRolePermission reports whether userRole ranks at least as high as requiredRole.
// Unknown user roles always fail. Unknown required roles are rejected.
func HasRolePermission(userRole, requiredRole Role) bool {
	required := RoleLevel(requiredRole)
	if required == 0 {
		return false
	}
	return RoleLevel(userRole) >= required
}

// Resource is a class of things a user can act on
type Resource string

const (
	ResourceDirectory Resource = "directory"
	ResourceReports   Resource = "reports"
)

// Action is what the user wants to do with a resource
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

type capability struct {
	resource Resource
	action   Action
}

var requiredRoles = map[capability]Role{
	{ResourceDirectory, ActionView}:   RoleViewer,
	{ResourceDirectory, ActionEdit}:   RoleMember,
	{ResourceDirectory, ActionDelete}: RoleAdmin,
	{ResourceReports, ActionView}:     RoleViewer,
	{ResourceReports, ActionExport}:   RoleMember,
}

// RequiredRole returns the minimum role for an action on a resource.
// The second result is false for combinations nobody may perform.
func RequiredRole(resource Resource, action Action) (Role, bool) {
	role, ok := requiredRoles[capability{resource, action}]
	return role, ok
}

// CanPerform checks a role against the capability table
func CanPerform(role Role, resource Resource, action Action) bool {
	required, ok := RequiredRole(resource, action)
	if !ok {
		return false
	}
	return HasRolePermission(role, required)
}

// OrganizationRoleCheck asks whether a user holds at least RequiredRole in an organization
type OrganizationRoleCheck struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	RequiredRole   Role
}

// MembershipLookup resolves organization role checks against the membership table
type MembershipLookup interface {
	// MemberRole returns the user's role in the organization, or "" when not a member
	MemberRole(ctx context.Context, userID, organizationID uuid.UUID) (Role, error)
}

// CheckOrganizationRole evaluates check through lookup
func CheckOrganizationRole(ctx context.Context, lookup MembershipLookup, check OrganizationRoleCheck) (bool, error) {
	role, err := lookup.MemberRole(ctx, check.UserID, check.OrganizationID)
	if err != nil {
		return false, err
	}
	return HasRolePermission(role, check.RequiredRole), nil
}

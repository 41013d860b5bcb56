package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasRolePermission(t *testing.T) {
	tests := []struct {
		user     auth.Role
		required auth.Role
		expected bool
	}{
		{auth.RoleMember, auth.RoleAdmin, false},
		{auth.RoleOwner, auth.RoleMember, true},
		{"unknown_role", auth.RoleViewer, false},
		{auth.RoleViewer, auth.RoleViewer, true},
		{auth.RoleAppAdmin, auth.RoleOwner, true},
		{auth.RoleOwner, "superuser", false},
		{"", auth.RoleViewer, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.user)+"_"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.HasRolePermission(tt.user, tt.required))
		})
	}
}

func TestRoleLevel(t *testing.T) {
	assert.Equal(t, 1, auth.RoleLevel(auth.RoleViewer))
	assert.Equal(t, 5, auth.RoleLevel(auth.RoleAppAdmin))
	assert.Equal(t, 0, auth.RoleLevel("guest"))
	assert.False(t, auth.Role("guest").IsValid())
	assert.True(t, auth.RoleAdmin.IsValid())
}

func TestIsAppAdmin(t *testing.T) {
	assert.False(t, auth.IsAppAdmin(nil))
	assert.False(t, auth.IsAppAdmin(&auth.UserContext{}))
	assert.False(t, auth.IsAppAdmin(&auth.UserContext{Metadata: auth.UserMetadata{GlobalRole: "owner"}}))
	assert.True(t, auth.IsAppAdmin(&auth.UserContext{Metadata: auth.UserMetadata{GlobalRole: "app_admin"}}))
}

func TestCanPerform(t *testing.T) {
	assert.True(t, auth.CanPerform(auth.RoleViewer, auth.ResourceDirectory, auth.ActionView))
	assert.False(t, auth.CanPerform(auth.RoleViewer, auth.ResourceDirectory, auth.ActionEdit))
	assert.True(t, auth.CanPerform(auth.RoleMember, auth.ResourceDirectory, auth.ActionEdit))
	assert.False(t, auth.CanPerform(auth.RoleMember, auth.ResourceDirectory, auth.ActionDelete))
	assert.True(t, auth.CanPerform(auth.RoleAdmin, auth.ResourceDirectory, auth.ActionDelete))
	assert.True(t, auth.CanPerform(auth.RoleMember, auth.ResourceReports, auth.ActionExport))
	assert.False(t, auth.CanPerform(auth.RoleOwner, auth.ResourceReports, auth.ActionDelete))
	assert.False(t, auth.CanPerform("", auth.ResourceDirectory, auth.ActionView))
}

type fakeMembership struct {
	role auth.Role
	err  error
}

func (f fakeMembership) MemberRole(ctx context.Context, userID, organizationID uuid.UUID) (auth.Role, error) {
	return f.role, f.err
}

func TestCheckOrganizationRole(t *testing.T) {
	check := auth.OrganizationRoleCheck{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		RequiredRole:   auth.RoleAdmin,
	}

	ok, err := auth.CheckOrganizationRole(context.Background(), fakeMembership{role: auth.RoleOwner}, check)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CheckOrganizationRole(context.Background(), fakeMembership{role: ""}, check)
	require.NoError(t, err)
	assert.False(t, ok)

	lookupErr := errors.New("connection refused")
	_, err = auth.CheckOrganizationRole(context.Background(), fakeMembership{err: lookupErr}, check)
	assert.ErrorIs(t, err, lookupErr)
}

func TestUserContext_DefaultOrganizationID(t *testing.T) {
	id := uuid.New()

	var nilUser *auth.UserContext
	assert.Nil(t, nilUser.DefaultOrganizationID())
	assert.Nil(t, (&auth.UserContext{}).DefaultOrganizationID())
	assert.Nil(t, (&auth.UserContext{Metadata: auth.UserMetadata{DefaultOrganizationID: "not-a-uuid"}}).DefaultOrganizationID())

	got := (&auth.UserContext{Metadata: auth.UserMetadata{DefaultOrganizationID: id.String()}}).DefaultOrganizationID()
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
}

func TestOrganizationScope_Context(t *testing.T) {
	_, ok := auth.OrganizationScopeFromContext(context.Background())
	assert.False(t, ok)

	var empty *auth.OrganizationScope
	assert.False(t, empty.HasOrganization())

	id := uuid.New()
	ctx := auth.WithOrganizationScope(context.Background(), &auth.OrganizationScope{OrganizationID: &id, Role: auth.RoleMember})
	scope, ok := auth.OrganizationScopeFromContext(ctx)
	require.True(t, ok)
	assert.True(t, scope.HasOrganization())
	assert.Equal(t, auth.RoleMember, scope.Role)
}

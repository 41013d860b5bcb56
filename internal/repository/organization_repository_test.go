package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/repository"
	"github.com/orgdesk/directory-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrganizationRepository_ListOrderedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrganizationRepository(db)

	testutil.CreateOrganization(t, db, "charlie")
	testutil.CreateOrganization(t, db, "alpha")
	testutil.CreateOrganization(t, db, "bravo")

	orgs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 3)
	assert.Equal(t, "alpha", orgs[0].Name)
	assert.Equal(t, "bravo", orgs[1].Name)
	assert.Equal(t, "charlie", orgs[2].Name)
}

func TestOrganizationRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrganizationRepository(db)
	org := testutil.CreateOrganization(t, db, "alpha")

	got, err := repo.GetByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMembershipRepository_GetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMembershipRepository(db)
	ctx := context.Background()
	org := testutil.CreateOrganization(t, db, "alpha")
	userID := uuid.New()
	testutil.AddMember(t, db, org.ID, userID, auth.RoleAdmin)

	role, err := repo.GetRole(ctx, userID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, err = repo.GetRole(ctx, uuid.New(), org.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMembershipRepository_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMembershipRepository(db)
	userID := uuid.New()
	orgA := testutil.CreateOrganization(t, db, "alpha")
	orgB := testutil.CreateOrganization(t, db, "beta")
	other := testutil.CreateOrganization(t, db, "gamma")
	testutil.AddMember(t, db, orgA.ID, userID, auth.RoleOwner)
	testutil.AddMember(t, db, orgB.ID, userID, auth.RoleViewer)
	testutil.AddMember(t, db, other.ID, uuid.New(), auth.RoleOwner)

	members, err := repo.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		require.NotNil(t, m.Organization)
		assert.NotEqual(t, other.ID, m.OrganizationID)
		assert.Equal(t, m.OrganizationID, m.Organization.ID)
	}
}

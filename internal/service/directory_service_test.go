package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/listview"
	"github.com/orgdesk/directory-api/internal/repository"
	"github.com/orgdesk/directory-api/internal/service"
	"github.com/orgdesk/directory-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type services struct {
	contacts    *service.ContactService
	customers   *service.CustomerService
	vendors     *service.VendorService
	contractors *service.ContractorService
}

func newServices(db *gorm.DB) services {
	logger := zap.NewNop()
	return services{
		contacts:    service.NewContactService(repository.NewContactRepository(db), logger),
		customers:   service.NewCustomerService(repository.NewCustomerRepository(db), logger),
		vendors:     service.NewVendorService(repository.NewVendorRepository(db), logger),
		contractors: service.NewContractorService(repository.NewContractorRepository(db), logger),
	}
}

func contactType(ct domain.ContactType) func(*domain.Contact) {
	return func(c *domain.Contact) { c.ContactType = &ct }
}

func createdAt(m int) func(*domain.Contact) {
	return func(c *domain.Contact) { c.CreatedAt = testutil.At(m) }
}

func TestContactService_FetchTransformsRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).contacts
	org := testutil.CreateOrganization(t, db, "alpha")
	testutil.CreateContact(t, db, org.ID, "Amy", contactType(domain.ContactTypeInteriorDesigner), func(c *domain.Contact) {
		c.City = domain.StringPtr("Oslo")
	})

	views, err := svc.Fetch(context.Background(), org.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Amy", views[0].FirstName)
	assert.Equal(t, "Interior Designer", views[0].Category)
	assert.Equal(t, "Oslo", views[0].Location)
	assert.Equal(t, domain.StatusActive, views[0].Status)
	assert.Equal(t, domain.EntityContacts, svc.Entity())
}

func TestContactService_ListSortsByCategoryStably(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).contacts
	org := testutil.CreateOrganization(t, db, "alpha")

	testutil.CreateContact(t, db, org.ID, "Bob", contactType(domain.ContactTypeArchitect), createdAt(0))
	testutil.CreateContact(t, db, org.ID, "Amy", contactType(domain.ContactTypeDealer), createdAt(2))
	testutil.CreateContact(t, db, org.ID, "Cid", contactType(domain.ContactTypeArchitect), createdAt(1))

	state := service.NewListState(svc.Schema())
	state.SetSort("category", listview.SortAsc)

	page, err := svc.List(context.Background(), org.ID, state)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	// fetch order is newest first: Amy, Cid, Bob
	assert.Equal(t, "Cid", page.Items[0].FirstName)
	assert.Equal(t, "Bob", page.Items[1].FirstName)
	assert.Equal(t, "Amy", page.Items[2].FirstName)
}

func TestContactService_ListDefaultsToNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).contacts
	org := testutil.CreateOrganization(t, db, "alpha")
	testutil.CreateContact(t, db, org.ID, "Old", createdAt(0))
	testutil.CreateContact(t, db, org.ID, "New", createdAt(10))

	state := service.NewListState(svc.Schema())
	assert.Equal(t, service.SortDateAdded, state.SortBy)
	assert.Equal(t, listview.SortDesc, state.SortOrder)

	page, err := svc.List(context.Background(), org.ID, state)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "New", page.Items[0].FirstName)
}

func TestDirectoryService_TenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svcs := newServices(db)
	ctx := context.Background()
	orgA := testutil.CreateOrganization(t, db, "alpha")
	orgB := testutil.CreateOrganization(t, db, "beta")

	testutil.CreateCustomer(t, db, orgA.ID, "Acme")
	other := testutil.CreateCustomer(t, db, orgB.ID, "Globex")

	views, err := svcs.customers.Fetch(ctx, orgA.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Acme", views[0].CompanyName)

	_, err = svcs.customers.Get(ctx, orgA.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, svcs.customers.Archive(ctx, orgA.ID, other.ID), service.ErrNotFound)
	assert.ErrorIs(t, svcs.customers.Delete(ctx, orgA.ID, other.ID), service.ErrNotFound)
}

func TestDirectoryService_ArchiveKeepsRecordListed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svcs := newServices(db)
	ctx := context.Background()
	org := testutil.CreateOrganization(t, db, "alpha")
	contact := testutil.CreateContact(t, db, org.ID, "Amy")
	customer := testutil.CreateCustomer(t, db, org.ID, "Acme")

	require.NoError(t, svcs.contacts.Archive(ctx, org.ID, contact.ID))
	require.NoError(t, svcs.customers.Archive(ctx, org.ID, customer.ID))

	contacts, err := svcs.contacts.Fetch(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, domain.StatusArchived, contacts[0].Status)

	customers, err := svcs.customers.Fetch(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, domain.StatusArchived, customers[0].Status)
}

func TestVendorService_RemoveHidesRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).vendors
	ctx := context.Background()
	org := testutil.CreateOrganization(t, db, "alpha")
	vendor := testutil.CreateVendor(t, db, org.ID, "Steel Co")

	require.NoError(t, svc.Remove(ctx, org.ID, vendor.ID))

	views, err := svc.Fetch(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, views)

	assert.ErrorIs(t, svc.Remove(ctx, org.ID, vendor.ID), service.ErrNotFound)
}

func TestDirectoryService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).contractors
	ctx := context.Background()
	org := testutil.CreateOrganization(t, db, "alpha")
	contractor := testutil.CreateContractor(t, db, org.ID, "Cid")

	require.NoError(t, svc.Delete(ctx, org.ID, contractor.ID))

	_, err := svc.Get(ctx, org.ID, contractor.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestContractorService_DuplicateCreatesActiveCopy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).contractors
	ctx := context.Background()
	org := testutil.CreateOrganization(t, db, "alpha")
	src := testutil.CreateContractor(t, db, org.ID, "Cid", func(c *domain.Contractor) {
		c.Archived = true
		c.LicensesApplied = domain.StringList{"electrical"}
	})

	dup, err := svc.Duplicate(ctx, org.ID, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Cid (Copy)", dup.Name)
	assert.Equal(t, domain.StatusActive, dup.Status)
	assert.Equal(t, []string{"electrical"}, dup.LicensesApplied)

	views, err := svc.Fetch(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestDirectoryService_DuplicateUnknownRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).vendors
	org := testutil.CreateOrganization(t, db, "alpha")

	_, err := svc.Duplicate(context.Background(), org.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCustomerService_DuplicateKeepsEmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).customers
	org := testutil.CreateOrganization(t, db, "alpha")
	src := testutil.CreateCustomer(t, db, org.ID, "")

	dup, err := svc.Duplicate(context.Background(), org.ID, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "", dup.CompanyName)
}

func TestContractorSchema_LicenseFacet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db).contractors
	org := testutil.CreateOrganization(t, db, "alpha")
	testutil.CreateContractor(t, db, org.ID, "Cid", func(c *domain.Contractor) {
		c.LicensesApplied = domain.StringList{"electrical", "plumbing"}
	})
	testutil.CreateContractor(t, db, org.ID, "Dan", func(c *domain.Contractor) {
		c.LicensesApplied = domain.StringList{"roofing"}
	})

	state := service.NewListState(svc.Schema())
	state.SetFilter("licenses", []string{"Plumbing"})

	page, err := svc.List(context.Background(), org.ID, state)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Cid", page.Items[0].Name)
}

// Package testutil holds database fixtures shared by the package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/database"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the directory schema.
// Connections are limited to one so background loaders share the same memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateOrganization stores an organization
func CreateOrganization(t *testing.T, db *gorm.DB, name string) *domain.Organization {
	t.Helper()
	org := &domain.Organization{
		Name: name,
		Slug: fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

// AddMember grants userID a role in the organization
func AddMember(t *testing.T, db *gorm.DB, organizationID, userID uuid.UUID, role auth.Role) {
	t.Helper()
	member := &domain.OrganizationMember{
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           string(role),
	}
	require.NoError(t, db.Create(member).Error)
}

// TestUser returns an authenticated user without a global role
func TestUser() *auth.UserContext {
	return &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "test@example.com",
	}
}

// AppAdmin returns a user carrying the app_admin global role
func AppAdmin() *auth.UserContext {
	user := TestUser()
	user.DisplayName = "App Admin"
	user.Metadata.GlobalRole = string(auth.RoleAppAdmin)
	return user
}

// At returns a creation time offset from a fixed base, so fixtures sort deterministically
func At(minutes int) time.Time {
	return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

// CreateContact stores a contact. Mutators adjust the row before insert.
func CreateContact(t *testing.T, db *gorm.DB, organizationID uuid.UUID, firstName string, mutators ...func(*domain.Contact)) *domain.Contact {
	t.Helper()
	contact := &domain.Contact{
		BaseModel: domain.BaseModel{OrganizationID: organizationID},
		FirstName: domain.StringPtr(firstName),
		Email:     domain.StringPtr(firstName + "@example.com"),
	}
	for _, m := range mutators {
		m(contact)
	}
	require.NoError(t, db.Create(contact).Error)
	return contact
}

// CreateCustomer stores a customer
func CreateCustomer(t *testing.T, db *gorm.DB, organizationID uuid.UUID, companyName string, mutators ...func(*domain.Customer)) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		BaseModel:   domain.BaseModel{OrganizationID: organizationID},
		CompanyName: domain.StringPtr(companyName),
	}
	for _, m := range mutators {
		m(customer)
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateVendor stores a vendor
func CreateVendor(t *testing.T, db *gorm.DB, organizationID uuid.UUID, vendorName string, mutators ...func(*domain.Vendor)) *domain.Vendor {
	t.Helper()
	vendor := &domain.Vendor{
		BaseModel:  domain.BaseModel{OrganizationID: organizationID},
		VendorName: domain.StringPtr(vendorName),
	}
	for _, m := range mutators {
		m(vendor)
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

// CreateContractor stores a contractor
func CreateContractor(t *testing.T, db *gorm.DB, organizationID uuid.UUID, name string, mutators ...func(*domain.Contractor)) *domain.Contractor {
	t.Helper()
	contractor := &domain.Contractor{
		BaseModel: domain.BaseModel{OrganizationID: organizationID},
		Name:      domain.StringPtr(name),
	}
	for _, m := range mutators {
		m(contractor)
	}
	require.NoError(t, db.Create(contractor).Error)
	return contractor
}

package domain

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// BaseModel holds the columns shared by every directory table.
// Rows are always scoped to exactly one organization.
type BaseModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index;column:organization_id"`
	Archived       bool      `gorm:"not null;default:false"`
	Deleted        bool      `gorm:"not null;default:false;index"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the row id when the caller did not provide one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Organization is a tenant. Every directory record belongs to exactly one.
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrganizationMember grants a user a role inside one organization
type OrganizationMember struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_member_org_user;column:organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_member_org_user;index;column:user_id"`
	Role           string        `gorm:"type:varchar(50);not null;default:'viewer'"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ContactType is the raw contact classification stored by the backend
type ContactType string

const (
	ContactTypeArchitect        ContactType = "architect"
	ContactTypeInteriorDesigner ContactType = "interior_designer"
	ContactTypeProjectManager   ContactType = "project_manager"
	ContactTypeConsultant       ContactType = "consultant"
	ContactTypeDealer           ContactType = "dealer"
	ContactTypeReseller         ContactType = "reseller"
	ContactTypePartner          ContactType = "partner"
)

// IsValid checks if the ContactType is a known enum value
func (ct ContactType) IsValid() bool {
	switch ct {
	case ContactTypeArchitect, ContactTypeInteriorDesigner, ContactTypeProjectManager,
		ContactTypeConsultant, ContactTypeDealer, ContactTypeReseller, ContactTypePartner:
		return true
	}
	return false
}

// Contact is a raw row of the contacts table. Nullable columns are pointers.
type Contact struct {
	BaseModel
	FirstName   *string      `gorm:"type:varchar(100);column:first_name"`
	LastName    *string      `gorm:"type:varchar(100);column:last_name"`
	Email       *string      `gorm:"type:varchar(255)"`
	Phone       *string      `gorm:"type:varchar(50)"`
	CompanyName *string      `gorm:"type:varchar(200);column:company_name"`
	CompanyID   *uuid.UUID   `gorm:"type:uuid;column:company_id"`
	ContactType *ContactType `gorm:"type:varchar(50);column:contact_type;index"`
	City        *string      `gorm:"type:varchar(100)"`
	State       *string      `gorm:"type:varchar(100)"`
	Country     *string      `gorm:"type:varchar(100)"`
}

// Customer is a raw row of the customers table
type Customer struct {
	BaseModel
	CompanyName *string `gorm:"type:varchar(200);column:company_name;index"`
	ContactName *string `gorm:"type:varchar(200);column:contact_name"`
	Email       *string `gorm:"type:varchar(255)"`
	Phone       *string `gorm:"type:varchar(50)"`
	City        *string `gorm:"type:varchar(100)"`
	State       *string `gorm:"type:varchar(100)"`
	Country     *string `gorm:"type:varchar(100)"`
}

// Vendor is a raw row of the vendors table
type Vendor struct {
	BaseModel
	VendorName *string `gorm:"type:varchar(200);column:vendor_name;index"`
	VendorID   *string `gorm:"type:varchar(50);column:vendor_id"` // external identifier, e.g. EIN
	Email      *string `gorm:"type:varchar(255)"`
	Phone      *string `gorm:"type:varchar(50)"`
	City       *string `gorm:"type:varchar(100)"`
	State      *string `gorm:"type:varchar(100)"`
	Country    *string `gorm:"type:varchar(100)"`
}

// Contractor is a raw row of the contractors table
type Contractor struct {
	BaseModel
	Company         *string    `gorm:"type:varchar(200)"`
	Name            *string    `gorm:"type:varchar(200);index"`
	LicensesApplied StringList `gorm:"column:licenses_applied"`
	CellPhone       *string    `gorm:"type:varchar(50);column:cell_phone"`
	Proficiency1    *string    `gorm:"type:varchar(100);column:proficiency_1"`
	Proficiency2    *string    `gorm:"type:varchar(100);column:proficiency_2"`
	Proficiency3    *string    `gorm:"type:varchar(100);column:proficiency_3"`
	Email           *string    `gorm:"type:varchar(255)"`
	City            *string    `gorm:"type:varchar(100)"`
	State           *string    `gorm:"type:varchar(100)"`
	Country         *string    `gorm:"type:varchar(100)"`
}

// StringList is stored as a postgres text[] column. Other dialects keep the
// array literal in a text column.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = StringList(arr)
	return nil
}

// GormDBDataType picks the column type per dialect
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// EntityType names one of the directory tables
type EntityType string

const (
	EntityContacts    EntityType = "contacts"
	EntityCustomers   EntityType = "customers"
	EntityVendors     EntityType = "vendors"
	EntityContractors EntityType = "contractors"
)

// EntityTypes lists every directory entity in display order
var EntityTypes = []EntityType{EntityContacts, EntityCustomers, EntityVendors, EntityContractors}

// IsValid checks if the EntityType is a directory table
func (e EntityType) IsValid() bool {
	switch e {
	case EntityContacts, EntityCustomers, EntityVendors, EntityContractors:
		return true
	}
	return false
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

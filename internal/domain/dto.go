package domain

import (
	"github.com/google/uuid"
)

// Status is the display status of a directory record
type Status string

// The full status vocabulary. Only Active and Archived are derived from the
// current schema; Inactive and On Hold are reserved and accepted by filters.
const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusOnHold   Status = "On Hold"
	StatusArchived Status = "Archived"
)

// DefaultCurrency is used for vendors until currency is stored per vendor
const DefaultCurrency = "USD"

// ContactView is the UI-ready shape of a contact
type ContactView struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Company     string     `json:"company"`
	CompanyID   *uuid.UUID `json:"companyId"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	Location    string     `json:"location"`
	DateAdded   string     `json:"dateAdded"`
	Phone       string     `json:"phone"`
	ContactType string     `json:"contactType"`
	CreatedAt   string     `json:"createdAt"`
}

// CustomerView is the UI-ready shape of a customer
type CustomerView struct {
	ID           uuid.UUID `json:"id"`
	CompanyName  string    `json:"companyName"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CustomerType string    `json:"customerType"`
	Status       Status    `json:"status"`
	Location     string    `json:"location"`
	DateAdded    string    `json:"dateAdded"`
	TotalRevenue float64   `json:"totalRevenue"`
}

// VendorView is the UI-ready shape of a vendor
type VendorView struct {
	ID         uuid.UUID `json:"id"`
	VendorName string    `json:"vendorName"`
	VendorID   string    `json:"vendorId"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Country    string    `json:"country"`
	Currency   string    `json:"currency"`
	Status     Status    `json:"status"`
	Location   string    `json:"location"`
	DateAdded  string    `json:"dateAdded"`
}

// ContractorView is the UI-ready shape of a contractor
type ContractorView struct {
	ID              uuid.UUID `json:"id"`
	Company         string    `json:"company"`
	Name            string    `json:"name"`
	LicensesApplied []string  `json:"licensesApplied"`
	CellPhone       string    `json:"cellPhone"`
	Proficiency1    string    `json:"proficiency1"`
	Proficiency2    string    `json:"proficiency2"`
	Proficiency3    string    `json:"proficiency3"`
	Email           string    `json:"email"`
	Status          Status    `json:"status"`
	DateAdded       string    `json:"dateAdded"`
	Location        string    `json:"location"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// OrganizationDTO describes an organization together with the caller's role in it
type OrganizationDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Role string    `json:"role"`
}

// CapabilitiesDTO tells a client which directory controls to show
type CapabilitiesDTO struct {
	View      bool `json:"view"`
	Edit      bool `json:"edit"`
	Delete    bool `json:"delete"`
	Reports   bool `json:"reports"`
	Export    bool `json:"export"`
	AppAdmin  bool `json:"appAdmin"`
	HasTenant bool `json:"hasTenant"`
}

// MeDTO is returned by /auth/me
type MeDTO struct {
	UserID                uuid.UUID         `json:"userId"`
	Email                 string            `json:"email"`
	DisplayName           string            `json:"displayName"`
	GlobalRole            string            `json:"globalRole,omitempty"`
	DefaultOrganizationID string            `json:"defaultOrganizationId,omitempty"`
	ActiveOrganizationID  *uuid.UUID        `json:"activeOrganizationId"`
	Role                  string            `json:"role"`
	Capabilities          CapabilitiesDTO   `json:"capabilities"`
	Organizations         []OrganizationDTO `json:"organizations"`
}

// CountSummary is a status breakdown for one entity
type CountSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
}

// LabelCount is one bucket of a grouped count
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DirectorySummaryDTO is the reporting overview for one organization
type DirectorySummaryDTO struct {
	OrganizationID       uuid.UUID    `json:"organizationId"`
	Contacts             CountSummary `json:"contacts"`
	Customers            CountSummary `json:"customers"`
	Vendors              CountSummary `json:"vendors"`
	Contractors          CountSummary `json:"contractors"`
	ContactsByCategory   []LabelCount `json:"contactsByCategory"`
	VendorsByCountry     []LabelCount `json:"vendorsByCountry"`
	ContractorsByLicense []LabelCount `json:"contractorsByLicense"`
	GeneratedAt          string       `json:"generatedAt"`
}

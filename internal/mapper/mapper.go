package mapper

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/orgdesk/directory-api/internal/domain"
)

// LocationUnknown is shown when a record has no city, state or country
const LocationUnknown = "N/A"

// DefaultCategory is used for contacts without a contact type
const DefaultCategory = "Architect"

// ToContactView converts a raw contact row to its view model
func ToContactView(contact *domain.Contact) domain.ContactView {
	view := domain.ContactView{
		ID:        contact.ID,
		FirstName: deref(contact.FirstName),
		LastName:  "",
		Email:     deref(contact.Email),
		Company:   deref(contact.CompanyName),
		CompanyID: contact.CompanyID,
		Category:  CategoryLabel(contact.ContactType),
		Status:    StatusFromArchived(contact.Archived),
		Location:  FormatLocation(contact.City, contact.State, contact.Country),
		DateAdded: FormatDate(contact.CreatedAt),
		Phone:     deref(contact.Phone),
		CreatedAt: FormatDate(contact.CreatedAt),
	}
	if contact.ContactType != nil {
		view.ContactType = string(*contact.ContactType)
	}
	return view
}

// ToCustomerView converts a raw customer row to its view model
func ToCustomerView(customer *domain.Customer) domain.CustomerView {
	return domain.CustomerView{
		ID:           customer.ID,
		CompanyName:  deref(customer.CompanyName),
		ContactName:  deref(customer.ContactName),
		Email:        deref(customer.Email),
		Phone:        deref(customer.Phone),
		CustomerType: "",
		Status:       StatusFromArchived(customer.Archived),
		Location:     FormatLocation(customer.City, customer.State, customer.Country),
		DateAdded:    FormatDate(customer.CreatedAt),
		TotalRevenue: 0,
	}
}

// ToVendorView converts a raw vendor row to its view model
func ToVendorView(vendor *domain.Vendor) domain.VendorView {
	return domain.VendorView{
		ID:         vendor.ID,
		VendorName: deref(vendor.VendorName),
		VendorID:   deref(vendor.VendorID),
		Phone:      deref(vendor.Phone),
		Email:      deref(vendor.Email),
		Country:    deref(vendor.Country),
		Currency:   domain.DefaultCurrency,
		Status:     StatusFromArchived(vendor.Archived),
		Location:   FormatLocation(vendor.City, vendor.State, vendor.Country),
		DateAdded:  FormatDate(vendor.CreatedAt),
	}
}

// ToContractorView converts a raw contractor row to its view model
func ToContractorView(contractor *domain.Contractor) domain.ContractorView {
	licenses := make([]string, 0, len(contractor.LicensesApplied))
	licenses = append(licenses, contractor.LicensesApplied...)

	return domain.ContractorView{
		ID:              contractor.ID,
		Company:         deref(contractor.Company),
		Name:            deref(contractor.Name),
		LicensesApplied: licenses,
		CellPhone:       deref(contractor.CellPhone),
		Proficiency1:    deref(contractor.Proficiency1),
		Proficiency2:    deref(contractor.Proficiency2),
		Proficiency3:    deref(contractor.Proficiency3),
		Email:           deref(contractor.Email),
		Status:          StatusFromArchived(contractor.Archived),
		DateAdded:       FormatDate(contractor.CreatedAt),
		Location:        FormatLocation(contractor.City, contractor.State, contractor.Country),
	}
}

// ToContactViews converts a slice of rows, preserving order
func ToContactViews(contacts []domain.Contact) []domain.ContactView {
	views := make([]domain.ContactView, len(contacts))
	for i := range contacts {
		views[i] = ToContactView(&contacts[i])
	}
	return views
}

// ToCustomerViews converts a slice of rows, preserving order
func ToCustomerViews(customers []domain.Customer) []domain.CustomerView {
	views := make([]domain.CustomerView, len(customers))
	for i := range customers {
		views[i] = ToCustomerView(&customers[i])
	}
	return views
}

// ToVendorViews converts a slice of rows, preserving order
func ToVendorViews(vendors []domain.Vendor) []domain.VendorView {
	views := make([]domain.VendorView, len(vendors))
	for i := range vendors {
		views[i] = ToVendorView(&vendors[i])
	}
	return views
}

// ToContractorViews converts a slice of rows, preserving order
func ToContractorViews(contractors []domain.Contractor) []domain.ContractorView {
	views := make([]domain.ContractorView, len(contractors))
	for i := range contractors {
		views[i] = ToContractorView(&contractors[i])
	}
	return views
}

// FormatLocation joins the non-empty parts with ", ".
// Returns LocationUnknown when every part is empty.
func FormatLocation(city, state, country *string) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{city, state, country} {
		if v := strings.TrimSpace(deref(p)); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return LocationUnknown
	}
	return strings.Join(parts, ", ")
}

// CategoryLabel turns a raw contact type into a display label,
// e.g. "interior_designer" -> "Interior Designer"
func CategoryLabel(contactType *domain.ContactType) string {
	if contactType == nil || *contactType == "" {
		return DefaultCategory
	}
	words := strings.Fields(strings.ReplaceAll(string(*contactType), "_", " "))
	if len(words) == 0 {
		return DefaultCategory
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// StatusFromArchived maps the archived flag to a display status
func StatusFromArchived(archived bool) domain.Status {
	if archived {
		return domain.StatusArchived
	}
	return domain.StatusActive
}

// FormatDate renders t as RFC 3339 in UTC. The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package service

import (
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/listview"
)

// Sort field shared by every directory list
const SortDateAdded = "dateAdded"

// NewListState returns the initial list state for a schema: newest first, page 1
func NewListState[V any](schema listview.Schema[V]) listview.State {
	return listview.NewState(schema.DefaultSort, listview.SortDesc)
}

// ContactSchema describes how contacts are searched, filtered and sorted
func ContactSchema() listview.Schema[domain.ContactView] {
	return listview.Schema[domain.ContactView]{
		SearchFields: []func(domain.ContactView) string{
			func(c domain.ContactView) string { return c.FirstName },
			func(c domain.ContactView) string { return c.Email },
			func(c domain.ContactView) string { return c.Company },
			func(c domain.ContactView) string { return c.Phone },
			func(c domain.ContactView) string { return c.Location },
		},
		Facets: map[string]func(domain.ContactView) []string{
			"status":      listview.Single(func(c domain.ContactView) string { return string(c.Status) }),
			"category":    listview.Single(func(c domain.ContactView) string { return c.Category }),
			"contactType": listview.Single(func(c domain.ContactView) string { return c.ContactType }),
		},
		SortFields: map[string]listview.Comparator[domain.ContactView]{
			"firstName":   listview.ByString(func(c domain.ContactView) string { return c.FirstName }),
			"email":       listview.ByString(func(c domain.ContactView) string { return c.Email }),
			"company":     listview.ByString(func(c domain.ContactView) string { return c.Company }),
			"category":    listview.ByString(func(c domain.ContactView) string { return c.Category }),
			"status":      listview.ByString(func(c domain.ContactView) string { return string(c.Status) }),
			"location":    listview.ByString(func(c domain.ContactView) string { return c.Location }),
			SortDateAdded: listview.ByTime(func(c domain.ContactView) string { return c.DateAdded }),
		},
		DefaultSort: SortDateAdded,
	}
}

// CustomerSchema describes how customers are searched, filtered and sorted
func CustomerSchema() listview.Schema[domain.CustomerView] {
	return listview.Schema[domain.CustomerView]{
		SearchFields: []func(domain.CustomerView) string{
			func(c domain.CustomerView) string { return c.CompanyName },
			func(c domain.CustomerView) string { return c.ContactName },
			func(c domain.CustomerView) string { return c.Email },
			func(c domain.CustomerView) string { return c.Phone },
			func(c domain.CustomerView) string { return c.Location },
		},
		Facets: map[string]func(domain.CustomerView) []string{
			"status":       listview.Single(func(c domain.CustomerView) string { return string(c.Status) }),
			"customerType": listview.Single(func(c domain.CustomerView) string { return c.CustomerType }),
		},
		SortFields: map[string]listview.Comparator[domain.CustomerView]{
			"companyName":  listview.ByString(func(c domain.CustomerView) string { return c.CompanyName }),
			"contactName":  listview.ByString(func(c domain.CustomerView) string { return c.ContactName }),
			"email":        listview.ByString(func(c domain.CustomerView) string { return c.Email }),
			"status":       listview.ByString(func(c domain.CustomerView) string { return string(c.Status) }),
			"location":     listview.ByString(func(c domain.CustomerView) string { return c.Location }),
			"totalRevenue": listview.ByNumber(func(c domain.CustomerView) float64 { return c.TotalRevenue }),
			SortDateAdded:  listview.ByTime(func(c domain.CustomerView) string { return c.DateAdded }),
		},
		DefaultSort: SortDateAdded,
	}
}

// VendorSchema describes how vendors are searched, filtered and sorted
func VendorSchema() listview.Schema[domain.VendorView] {
	return listview.Schema[domain.VendorView]{
		SearchFields: []func(domain.VendorView) string{
			func(v domain.VendorView) string { return v.VendorName },
			func(v domain.VendorView) string { return v.VendorID },
			func(v domain.VendorView) string { return v.Email },
			func(v domain.VendorView) string { return v.Phone },
			func(v domain.VendorView) string { return v.Country },
		},
		Facets: map[string]func(domain.VendorView) []string{
			"status":   listview.Single(func(v domain.VendorView) string { return string(v.Status) }),
			"country":  listview.Single(func(v domain.VendorView) string { return v.Country }),
			"currency": listview.Single(func(v domain.VendorView) string { return v.Currency }),
		},
		SortFields: map[string]listview.Comparator[domain.VendorView]{
			"vendorName":  listview.ByString(func(v domain.VendorView) string { return v.VendorName }),
			"vendorId":    listview.ByString(func(v domain.VendorView) string { return v.VendorID }),
			"country":     listview.ByString(func(v domain.VendorView) string { return v.Country }),
			"status":      listview.ByString(func(v domain.VendorView) string { return string(v.Status) }),
			"location":    listview.ByString(func(v domain.VendorView) string { return v.Location }),
			SortDateAdded: listview.ByTime(func(v domain.VendorView) string { return v.DateAdded }),
		},
		DefaultSort: SortDateAdded,
	}
}

// ContractorSchema describes how contractors are searched, filtered and sorted.
// The license and proficiency facets match when any of the record's values is selected.
func ContractorSchema() listview.Schema[domain.ContractorView] {
	return listview.Schema[domain.ContractorView]{
		SearchFields: []func(domain.ContractorView) string{
			func(c domain.ContractorView) string { return c.Name },
			func(c domain.ContractorView) string { return c.Company },
			func(c domain.ContractorView) string { return c.Email },
			func(c domain.ContractorView) string { return c.CellPhone },
			func(c domain.ContractorView) string { return c.Location },
		},
		Facets: map[string]func(domain.ContractorView) []string{
			"status":   listview.Single(func(c domain.ContractorView) string { return string(c.Status) }),
			"licenses": func(c domain.ContractorView) []string { return c.LicensesApplied },
			"proficiency": func(c domain.ContractorView) []string {
				return []string{c.Proficiency1, c.Proficiency2, c.Proficiency3}
			},
		},
		SortFields: map[string]listview.Comparator[domain.ContractorView]{
			"name":        listview.ByString(func(c domain.ContractorView) string { return c.Name }),
			"company":     listview.ByString(func(c domain.ContractorView) string { return c.Company }),
			"email":       listview.ByString(func(c domain.ContractorView) string { return c.Email }),
			"status":      listview.ByString(func(c domain.ContractorView) string { return string(c.Status) }),
			"location":    listview.ByString(func(c domain.ContractorView) string { return c.Location }),
			SortDateAdded: listview.ByTime(func(c domain.ContractorView) string { return c.DateAdded }),
		},
		DefaultSort: SortDateAdded,
	}
}

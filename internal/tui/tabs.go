package tui

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/directory"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/listview"
	"github.com/orgdesk/directory-api/internal/service"
	"go.uber.org/zap"
)

// fetchTimeout bounds one loader request
const fetchTimeout = 30 * time.Second

// entityService is what a tab needs from a directory service
type entityService[V any] interface {
	Fetch(ctx context.Context, organizationID uuid.UUID) ([]V, error)
	Schema() listview.Schema[V]
	Archive(ctx context.Context, organizationID, id uuid.UUID) error
	Remove(ctx context.Context, organizationID, id uuid.UUID) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	Duplicate(ctx context.Context, organizationID, id uuid.UUID) (*V, error)
}

// record identifies a row for the action keys
type record struct {
	id   uuid.UUID
	name string
}

// tabView is one rendered page of a tab
type tabView struct {
	rows       []table.Row
	records    []record
	total      int
	page       int
	totalPages int
	loading    bool
	err        string
	hasTenant  bool
}

// tab is one directory list
type tab interface {
	title() string
	label() string
	columns() []table.Column
	view() tabView
	listState() *listview.State
	sortFields() []string
	facetNames() []string
	facetValues(facet string) []string
	setOrganization(ctx context.Context, org directory.OrgContext)
	refetch(ctx context.Context)
	archive(ctx context.Context, organizationID, id uuid.UUID) error
	duplicate(ctx context.Context, organizationID, id uuid.UUID) error
	remove(ctx context.Context, organizationID, id uuid.UUID) error
	delete(ctx context.Context, organizationID, id uuid.UUID) error
	close()
}

type entityTab[V any] struct {
	name     string
	singular string
	svc      entityService[V]
	schema   listview.Schema[V]
	loader   *directory.Loader[V]
	state    listview.State
	cols     []table.Column
	row      func(V) table.Row
	ref      func(V) record
	sorts    []string
}

func newEntityTab[V any](
	name, singular string,
	svc entityService[V],
	cols []table.Column,
	row func(V) table.Row,
	ref func(V) record,
	sorts []string,
	changed func(),
	logger *zap.Logger,
) *entityTab[V] {
	schema := svc.Schema()
	t := &entityTab[V]{
		name:     name,
		singular: singular,
		svc:      svc,
		schema:   schema,
		state:    service.NewListState(schema),
		cols:     cols,
		row:      row,
		ref:      ref,
		sorts:    sorts,
	}
	t.loader = directory.NewLoader[V](svc.Fetch, logger.With(zap.String("entity", singular)),
		directory.WithOnChange(func(directory.State[V]) { changed() }),
		directory.WithTimeout[V](fetchTimeout),
	)
	return t
}

func (t *entityTab[V]) title() string { return t.name }

func (t *entityTab[V]) label() string { return t.singular }

func (t *entityTab[V]) columns() []table.Column { return t.cols }

func (t *entityTab[V]) listState() *listview.State { return &t.state }

func (t *entityTab[V]) sortFields() []string { return t.sorts }

func (t *entityTab[V]) refetch(ctx context.Context) { t.loader.Refetch(ctx) }

func (t *entityTab[V]) close() { t.loader.Close() }

func (t *entityTab[V]) facetNames() []string {
	return slices.Sorted(maps.Keys(t.schema.Facets))
}

func (t *entityTab[V]) facetValues(facet string) []string {
	return listview.FacetValues(t.loader.State().Data, t.schema, facet)
}

func (t *entityTab[V]) setOrganization(ctx context.Context, org directory.OrgContext) {
	t.loader.SetOrganization(ctx, org)
}

func (t *entityTab[V]) view() tabView {
	st := t.loader.State()
	page := listview.Apply(st.Data, t.schema, t.state)

	v := tabView{
		rows:       make([]table.Row, 0, len(page.Items)),
		records:    make([]record, 0, len(page.Items)),
		total:      page.Total,
		page:       page.Page,
		totalPages: page.TotalPages,
		loading:    st.Loading,
		err:        st.Error,
		hasTenant:  st.OrganizationID != nil,
	}
	for _, item := range page.Items {
		v.rows = append(v.rows, t.row(item))
		v.records = append(v.records, t.ref(item))
	}
	return v
}

func (t *entityTab[V]) archive(ctx context.Context, organizationID, id uuid.UUID) error {
	return t.svc.Archive(ctx, organizationID, id)
}

func (t *entityTab[V]) duplicate(ctx context.Context, organizationID, id uuid.UUID) error {
	_, err := t.svc.Duplicate(ctx, organizationID, id)
	return err
}

func (t *entityTab[V]) remove(ctx context.Context, organizationID, id uuid.UUID) error {
	return t.svc.Remove(ctx, organizationID, id)
}

func (t *entityTab[V]) delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return t.svc.Delete(ctx, organizationID, id)
}

func contactsTab(svc entityService[domain.ContactView], changed func(), logger *zap.Logger) tab {
	return newEntityTab("Contacts", "contact", svc,
		[]table.Column{
			{Title: "Name", Width: 22},
			{Title: "Email", Width: 28},
			{Title: "Company", Width: 20},
			{Title: "Category", Width: 18},
			{Title: "Status", Width: 9},
			{Title: "Location", Width: 24},
		},
		func(c domain.ContactView) table.Row {
			return table.Row{c.FirstName, c.Email, c.Company, c.Category, string(c.Status), c.Location}
		},
		func(c domain.ContactView) record { return record{id: c.ID, name: c.FirstName} },
		[]string{service.SortDateAdded, "firstName", "email", "company", "category", "status", "location"},
		changed, logger,
	)
}

func customersTab(svc entityService[domain.CustomerView], changed func(), logger *zap.Logger) tab {
	return newEntityTab("Customers", "customer", svc,
		[]table.Column{
			{Title: "Company", Width: 26},
			{Title: "Contact", Width: 22},
			{Title: "Email", Width: 28},
			{Title: "Status", Width: 9},
			{Title: "Location", Width: 24},
		},
		func(c domain.CustomerView) table.Row {
			return table.Row{c.CompanyName, c.ContactName, c.Email, string(c.Status), c.Location}
		},
		func(c domain.CustomerView) record { return record{id: c.ID, name: c.CompanyName} },
		[]string{service.SortDateAdded, "companyName", "contactName", "email", "status", "location"},
		changed, logger,
	)
}

func vendorsTab(svc entityService[domain.VendorView], changed func(), logger *zap.Logger) tab {
	return newEntityTab("Vendors", "vendor", svc,
		[]table.Column{
			{Title: "Vendor", Width: 26},
			{Title: "Vendor ID", Width: 14},
			{Title: "Email", Width: 28},
			{Title: "Country", Width: 14},
			{Title: "Status", Width: 9},
		},
		func(v domain.VendorView) table.Row {
			return table.Row{v.VendorName, v.VendorID, v.Email, v.Country, string(v.Status)}
		},
		func(v domain.VendorView) record { return record{id: v.ID, name: v.VendorName} },
		[]string{service.SortDateAdded, "vendorName", "vendorId", "country", "status", "location"},
		changed, logger,
	)
}

func contractorsTab(svc entityService[domain.ContractorView], changed func(), logger *zap.Logger) tab {
	return newEntityTab("Contractors", "contractor", svc,
		[]table.Column{
			{Title: "Name", Width: 22},
			{Title: "Company", Width: 22},
			{Title: "Licenses", Width: 22},
			{Title: "Phone", Width: 16},
			{Title: "Status", Width: 9},
			{Title: "Location", Width: 22},
		},
		func(c domain.ContractorView) table.Row {
			return table.Row{c.Name, c.Company, strings.Join(c.LicensesApplied, ", "), c.CellPhone, string(c.Status), c.Location}
		},
		func(c domain.ContractorView) record { return record{id: c.ID, name: c.Name} },
		[]string{service.SortDateAdded, "name", "company", "email", "status", "location"},
		changed, logger,
	)
}

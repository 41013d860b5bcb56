package service

import (
	"bytes"
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/mapper"
	"github.com/orgdesk/directory-api/internal/storage"
	"go.uber.org/zap"
)

// ExportContentType is the content type of directory exports
const ExportContentType = "text/csv"

// ReportService builds per-organization reports from the directory services
type ReportService struct {
	contacts    *ContactService
	customers   *CustomerService
	vendors     *VendorService
	contractors *ContractorService
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	contacts *ContactService,
	customers *CustomerService,
	vendors *VendorService,
	contractors *ContractorService,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		contacts:    contacts,
		customers:   customers,
		vendors:     vendors,
		contractors: contractors,
		logger:      logger,
		now:         time.Now,
	}
}

// Summary counts the visible records of an organization
func (s *ReportService) Summary(ctx context.Context, organizationID uuid.UUID) (*domain.DirectorySummaryDTO, error) {
	contacts, err := s.contacts.Fetch(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.Fetch(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendors.Fetch(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	contractors, err := s.contractors.Fetch(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	summary := &domain.DirectorySummaryDTO{
		OrganizationID: organizationID,
		Contacts:       countStatuses(contacts, func(c domain.ContactView) domain.Status { return c.Status }),
		Customers:      countStatuses(customers, func(c domain.CustomerView) domain.Status { return c.Status }),
		Vendors:        countStatuses(vendors, func(v domain.VendorView) domain.Status { return v.Status }),
		Contractors:    countStatuses(contractors, func(c domain.ContractorView) domain.Status { return c.Status }),
		ContactsByCategory: countLabels(contacts, func(c domain.ContactView) []string {
			return []string{c.Category}
		}),
		VendorsByCountry: countLabels(vendors, func(v domain.VendorView) []string {
			return []string{v.Country}
		}),
		ContractorsByLicense: countLabels(contractors, func(c domain.ContractorView) []string {
			return c.LicensesApplied
		}),
		GeneratedAt: mapper.FormatDate(s.now()),
	}
	return summary, nil
}

// ExportCSV writes every visible record of one entity as CSV
func (s *ReportService) ExportCSV(ctx context.Context, organizationID uuid.UUID, entity domain.EntityType, w io.Writer) error {
	var (
		header []string
		rows   [][]string
	)

	switch entity {
	case domain.EntityContacts:
		views, err := s.contacts.Fetch(ctx, organizationID)
		if err != nil {
			return err
		}
		header, rows = contactTable(views)
	case domain.EntityCustomers:
		views, err := s.customers.Fetch(ctx, organizationID)
		if err != nil {
			return err
		}
		header, rows = customerTable(views)
	case domain.EntityVendors:
		views, err := s.vendors.Fetch(ctx, organizationID)
		if err != nil {
			return err
		}
		header, rows = vendorTable(views)
	case domain.EntityContractors:
		views, err := s.contractors.Fetch(ctx, organizationID)
		if err != nil {
			return err
		}
		header, rows = contractorTable(views)
	default:
		return fmt.Errorf("%w: unknown entity %q", ErrInvalidInput, entity)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// ExportFileName names the stored export of one entity
func ExportFileName(organizationID uuid.UUID, entity domain.EntityType, at time.Time) string {
	return fmt.Sprintf("%s/%s-%s.csv", organizationID, entity, at.UTC().Format("20060102T150405Z"))
}

// ExportToStorage exports every entity of an organization into store and
// returns the object names written
func (s *ReportService) ExportToStorage(ctx context.Context, organizationID uuid.UUID, store storage.Storage) ([]string, error) {
	at := s.now()
	names := make([]string, 0, len(domain.EntityTypes))

	for _, entity := range domain.EntityTypes {
		var buf bytes.Buffer
		if err := s.ExportCSV(ctx, organizationID, entity, &buf); err != nil {
			return names, fmt.Errorf("export %s: %w", entity, err)
		}

		name := ExportFileName(organizationID, entity, at)
		size, err := store.Upload(ctx, name, ExportContentType, &buf)
		if err != nil {
			return names, fmt.Errorf("upload %s: %w", name, err)
		}
		names = append(names, name)

		s.logger.Debug("directory export stored",
			zap.String("organization_id", organizationID.String()),
			zap.String("entity", string(entity)),
			zap.String("name", name),
			zap.Int64("size", size))
	}
	return names, nil
}

func countStatuses[V any](views []V, status func(V) domain.Status) domain.CountSummary {
	summary := domain.CountSummary{Total: len(views)}
	for _, v := range views {
		switch status(v) {
		case domain.StatusActive:
			summary.Active++
		case domain.StatusArchived:
			summary.Archived++
		}
	}
	return summary
}

// countLabels groups views by label, largest bucket first then alphabetically.
// Empty labels are skipped.
func countLabels[V any](views []V, labels func(V) []string) []domain.LabelCount {
	counts := map[string]int{}
	for _, v := range views {
		for _, label := range labels(v) {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			counts[label]++
		}
	}

	buckets := make([]domain.LabelCount, 0, len(counts))
	for label, n := range counts {
		buckets = append(buckets, domain.LabelCount{Label: label, Count: n})
	}
	slices.SortFunc(buckets, func(a, b domain.LabelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return buckets
}

func contactTable(views []domain.ContactView) ([]string, [][]string) {
	header := []string{"id", "firstName", "email", "company", "category", "contactType", "phone", "location", "status", "dateAdded"}
	rows := make([][]string, len(views))
	for i, c := range views {
		rows[i] = []string{c.ID.String(), c.FirstName, c.Email, c.Company, c.Category, c.ContactType, c.Phone, c.Location, string(c.Status), c.DateAdded}
	}
	return header, rows
}

func customerTable(views []domain.CustomerView) ([]string, [][]string) {
	header := []string{"id", "companyName", "contactName", "email", "phone", "customerType", "location", "status", "totalRevenue", "dateAdded"}
	rows := make([][]string, len(views))
	for i, c := range views {
		rows[i] = []string{
			c.ID.String(), c.CompanyName, c.ContactName, c.Email, c.Phone, c.CustomerType, c.Location, string(c.Status),
			strconv.FormatFloat(c.TotalRevenue, 'f', 2, 64), c.DateAdded,
		}
	}
	return header, rows
}

func vendorTable(views []domain.VendorView) ([]string, [][]string) {
	header := []string{"id", "vendorName", "vendorId", "email", "phone", "country", "currency", "location", "status", "dateAdded"}
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{v.ID.String(), v.VendorName, v.VendorID, v.Email, v.Phone, v.Country, v.Currency, v.Location, string(v.Status), v.DateAdded}
	}
	return header, rows
}

func contractorTable(views []domain.ContractorView) ([]string, [][]string) {
	header := []string{"id", "name", "company", "email", "cellPhone", "licensesApplied", "proficiency1", "proficiency2", "proficiency3", "location", "status", "dateAdded"}
	rows := make([][]string, len(views))
	for i, c := range views {
		rows[i] = []string{
			c.ID.String(), c.Name, c.Company, c.Email, c.CellPhone, strings.Join(c.LicensesApplied, ";"),
			c.Proficiency1, c.Proficiency2, c.Proficiency3, c.Location, string(c.Status), c.DateAdded,
		}
	}
	return header, rows
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"gorm.io/gorm"
)

// Record lists the directory tables
type Record interface {
	domain.Contact | domain.Customer | domain.Vendor | domain.Contractor
}

// DirectoryRepository is tenant-scoped access to one directory table
type DirectoryRepository[T Record] struct {
	db *gorm.DB
}

type (
	ContactRepository    = DirectoryRepository[domain.Contact]
	CustomerRepository   = DirectoryRepository[domain.Customer]
	VendorRepository     = DirectoryRepository[domain.Vendor]
	ContractorRepository = DirectoryRepository[domain.Contractor]
)

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

func (r *DirectoryRepository[T]) Create(ctx context.Context, record *T) error {
	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

// ListByOrganization returns every non-deleted row of the organization, newest first.
// Archived rows are included.
func (r *DirectoryRepository[T]) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).
		Scopes(OrganizationScope(organizationID), NotDeleted, NewestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns a non-deleted row of the organization
func (r *DirectoryRepository[T]) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).
		Scopes(RecordScope(organizationID, id), NotDeleted).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Archive marks the row archived. It stays visible in listings.
func (r *DirectoryRepository[T]) Archive(ctx context.Context, organizationID, id uuid.UUID) error {
	return r.flag(ctx, organizationID, id, "archived")
}

// SoftDelete marks the row deleted. It disappears from listings.
func (r *DirectoryRepository[T]) SoftDelete(ctx context.Context, organizationID, id uuid.UUID) error {
	return r.flag(ctx, organizationID, id, "deleted")
}

func (r *DirectoryRepository[T]) flag(ctx context.Context, organizationID, id uuid.UUID, column string) error {
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Scopes(RecordScope(organizationID, id), NotDeleted).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the row permanently
func (r *DirectoryRepository[T]) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(RecordScope(organizationID, id)).
		Delete(new(T))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of non-deleted rows of the organization
func (r *DirectoryRepository[T]) Count(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Scopes(OrganizationScope(organizationID), NotDeleted).
		Count(&total).Error
	return total, err
}

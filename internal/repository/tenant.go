package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrForeignKeyViolation is returned when a write is blocked by a referencing row
var ErrForeignKeyViolation = errors.New("foreign key violation")

// OrganizationScope restricts a query to one organization.
// Every directory query goes through it.
func OrganizationScope(organizationID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

// NotDeleted hides soft-deleted rows
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

// RecordScope restricts a query to one record inside one organization
func RecordScope(organizationID, id uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND organization_id = ?", id, organizationID)
	}
}

// NewestFirst orders rows by creation time, newest first
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// translateError maps driver errors onto repository errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrForeignKeyViolation
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "foreign key") {
		return ErrForeignKeyViolation
	}
	return err
}

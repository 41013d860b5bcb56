package service

import (
	"errors"
	"fmt"

	"github.com/orgdesk/directory-api/internal/repository"
	"gorm.io/gorm"
)

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when another row still references the resource
	ErrConflict = errors.New("resource conflict")

	// ErrNoOrganization is returned when an operation needs a tenant and none is active
	ErrNoOrganization = errors.New("no active organization")
)

// mapRepositoryError converts repository and gorm errors into service errors
func mapRepositoryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %s is referenced by other records", ErrConflict, op)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

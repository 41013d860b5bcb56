package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/listview"
	"github.com/orgdesk/directory-api/internal/repository"
	"go.uber.org/zap"
)

// copySuffix is appended to the display name of duplicated records
const copySuffix = " (Copy)"

// DirectoryService reads and mutates one directory entity inside a tenant.
// T is the raw row, V the view model handed to clients.
type DirectoryService[T repository.Record, V any] struct {
	entity domain.EntityType
	repo   *repository.DirectoryRepository[T]
	toView func(*T) V
	copyOf func(T) T
	schema listview.Schema[V]
	logger *zap.Logger
}

// Entity returns the entity this service manages
func (s *DirectoryService[T, V]) Entity() domain.EntityType {
	return s.entity
}

// Schema returns the list view schema of the entity
func (s *DirectoryService[T, V]) Schema() listview.Schema[V] {
	return s.schema
}

// Fetch returns every visible record of the organization as view models, newest first
func (s *DirectoryService[T, V]) Fetch(ctx context.Context, organizationID uuid.UUID) ([]V, error) {
	rows, err := s.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, mapRepositoryError(err, "list "+string(s.entity))
	}

	views := make([]V, len(rows))
	for i := range rows {
		views[i] = s.toView(&rows[i])
	}
	return views, nil
}

// List fetches the organization's records and applies the list view state
func (s *DirectoryService[T, V]) List(ctx context.Context, organizationID uuid.UUID, state listview.State) (listview.Page[V], error) {
	views, err := s.Fetch(ctx, organizationID)
	if err != nil {
		return listview.Page[V]{}, err
	}
	return listview.Apply(views, s.schema, state), nil
}

// Get returns one record of the organization
func (s *DirectoryService[T, V]) Get(ctx context.Context, organizationID, id uuid.UUID) (*V, error) {
	row, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, mapRepositoryError(err, "get "+string(s.entity))
	}
	view := s.toView(row)
	return &view, nil
}

// Archive sets archived = true. The record keeps showing up with status Archived.
func (s *DirectoryService[T, V]) Archive(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Archive(ctx, organizationID, id); err != nil {
		return mapRepositoryError(err, "archive "+string(s.entity))
	}
	s.logMutation("archived", organizationID, id)
	return nil
}

// Remove sets deleted = true, hiding the record from every fetch
func (s *DirectoryService[T, V]) Remove(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, organizationID, id); err != nil {
		return mapRepositoryError(err, "remove "+string(s.entity))
	}
	s.logMutation("removed", organizationID, id)
	return nil
}

// Delete removes the record permanently
func (s *DirectoryService[T, V]) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		return mapRepositoryError(err, "delete "+string(s.entity))
	}
	s.logMutation("deleted", organizationID, id)
	return nil
}

// Duplicate stores an active copy of the record under a new id
func (s *DirectoryService[T, V]) Duplicate(ctx context.Context, organizationID, id uuid.UUID) (*V, error) {
	src, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, mapRepositoryError(err, "get "+string(s.entity))
	}

	dup := s.copyOf(*src)
	if err := s.repo.Create(ctx, &dup); err != nil {
		return nil, mapRepositoryError(err, "duplicate "+string(s.entity))
	}
	s.logMutation("duplicated", organizationID, id)

	view := s.toView(&dup)
	return &view, nil
}

func (s *DirectoryService[T, V]) logMutation(action string, organizationID, id uuid.UUID) {
	s.logger.Info("directory record "+action,
		zap.String("entity", string(s.entity)),
		zap.String("organization_id", organizationID.String()),
		zap.String("id", id.String()),
	)
}

// resetBase clears identity and flags so the copy is inserted as a fresh active row
func resetBase(base domain.BaseModel) domain.BaseModel {
	return domain.BaseModel{OrganizationID: base.OrganizationID}
}

func withCopySuffix(name *string) *string {
	if name == nil || *name == "" {
		return name
	}
	copied := *name + copySuffix
	return &copied
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/listview"
	"github.com/orgdesk/directory-api/internal/repository"
	"github.com/orgdesk/directory-api/internal/service"
	"go.uber.org/zap"
)

var errBadQuery = errors.New("invalid query")

// listQuery holds the list parameters shared by every directory entity
type listQuery struct {
	Search    string `validate:"max=200"`
	SortBy    string `validate:"max=50"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
	Page      int    `validate:"gte=1"`
	PageSize  int    `validate:"gte=1"`
}

// DirectoryHandler serves the list and record actions of one directory entity
type DirectoryHandler[T repository.Record, V any] struct {
	service *service.DirectoryService[T, V]
	label   string
	logger  *zap.Logger
}

type (
	ContactHandler    = DirectoryHandler[domain.Contact, domain.ContactView]
	CustomerHandler   = DirectoryHandler[domain.Customer, domain.CustomerView]
	VendorHandler     = DirectoryHandler[domain.Vendor, domain.VendorView]
	ContractorHandler = DirectoryHandler[domain.Contractor, domain.ContractorView]
)

// NewDirectoryHandler creates a handler for one entity. label is the singular
// name used in error messages.
func NewDirectoryHandler[T repository.Record, V any](svc *service.DirectoryService[T, V], label string, logger *zap.Logger) *DirectoryHandler[T, V] {
	return &DirectoryHandler[T, V]{
		service: svc,
		label:   label,
		logger:  logger,
	}
}

// List godoc
// @Summary List directory records
// @Description Search, filter, sort and paginate the records of the active organization.
// @Description Every facet of the entity is accepted as a query parameter; repeat it or separate values with commas.
// @Description Without an active organization the page is empty.
// @Tags Directory
// @Produce json
// @Param entity path string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Param X-Organization-ID header string false "Active organization"
// @Param search query string false "Case-insensitive search term"
// @Param sortBy query string false "Sort field, defaults to dateAdded"
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(10)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /{entity} [get]
func (h *DirectoryHandler[T, V]) List(w http.ResponseWriter, r *http.Request) {
	state, err := h.parseListState(r)
	if err != nil {
		if errors.Is(err, errBadQuery) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondValidationError(w, err)
		return
	}

	scope := requestScope(r)
	if !scope.HasOrganization() {
		respondJSON(w, http.StatusOK, domain.PaginatedResponse{
			Data:     []V{},
			Page:     state.Page,
			PageSize: state.PageSize,
		})
		return
	}

	page, err := h.service.List(r.Context(), *scope.OrganizationID, state)
	if err != nil {
		respondServiceError(w, h.logger, err, "list "+string(h.service.Entity()))
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       page.Items,
		Total:      int64(page.Total),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// parseListState turns query parameters into a list state
func (h *DirectoryHandler[T, V]) parseListState(r *http.Request) (listview.State, error) {
	q := r.URL.Query()
	schema := h.service.Schema()

	query := listQuery{
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: strings.ToLower(q.Get("sortOrder")),
		Page:      1,
		PageSize:  listview.DefaultPageSize,
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return listview.State{}, fmt.Errorf("%w: page must be a number", errBadQuery)
		}
		query.Page = page
	}
	if v := q.Get("pageSize"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return listview.State{}, fmt.Errorf("%w: pageSize must be a number", errBadQuery)
		}
		query.PageSize = size
	}
	if err := validate.Struct(query); err != nil {
		return listview.State{}, err
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = schema.DefaultSort
	}
	order := listview.SortDesc
	if query.SortOrder != "" {
		order = listview.ParseSortOrder(query.SortOrder)
	}

	state := listview.NewState(sortBy, order)
	state.SetSearch(query.Search)
	state.SetPageSize(query.PageSize)
	for facet := range schema.Facets {
		state.SetFilter(facet, splitValues(q[facet]))
	}
	state.SetPage(query.Page)
	return state, nil
}

// splitValues flattens repeated and comma separated query values
func splitValues(raw []string) []string {
	var values []string
	for _, item := range raw {
		for _, v := range strings.Split(item, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// Get godoc
// @Summary Get directory record
// @Tags Directory
// @Produce json
// @Param entity path string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /{entity}/{id} [get]
func (h *DirectoryHandler[T, V]) Get(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.target(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), *scope.OrganizationID, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get "+h.label)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Archive godoc
// @Summary Archive directory record
// @Description Marks the record archived. It stays in the list with status Archived.
// @Tags Directory
// @Param entity path string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /{entity}/{id}/archive [post]
func (h *DirectoryHandler[T, V]) Archive(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.Archive(r.Context(), *scope.OrganizationID, id); err != nil {
		respondServiceError(w, h.logger, err, "archive "+h.label)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Duplicate godoc
// @Summary Duplicate directory record
// @Description Stores an active copy of the record under a new id.
// @Tags Directory
// @Produce json
// @Param entity path string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Param id path string true "Record ID"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /{entity}/{id}/duplicate [post]
func (h *DirectoryHandler[T, V]) Duplicate(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.target(w, r)
	if !ok {
		return
	}

	view, err := h.service.Duplicate(r.Context(), *scope.OrganizationID, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "duplicate "+h.label)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

// Remove godoc
// @Summary Remove directory record
// @Description Soft deletes the record. It disappears from every list.
// @Tags Directory
// @Param entity path string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /{entity}/{id}/remove [post]
func (h *DirectoryHandler[T, V]) Remove(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), *scope.OrganizationID, id); err != nil {
		respondServiceError(w, h.logger, err, "remove "+h.label)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete directory record
// @Description Permanently deletes the record.
// @Tags Directory
// @Param entity path string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /{entity}/{id} [delete]
func (h *DirectoryHandler[T, V]) Delete(w http.ResponseWriter, r *http.Request) {
	scope, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), *scope.OrganizationID, id); err != nil {
		respondServiceError(w, h.logger, err, "delete "+h.label)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// target resolves the tenant and record id of a single record request.
// It writes the error response itself and reports whether to continue.
func (h *DirectoryHandler[T, V]) target(w http.ResponseWriter, r *http.Request) (*auth.OrganizationScope, uuid.UUID, bool) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+h.label+" ID: must be a valid UUID")
		return nil, id, false
	}

	scope := requestScope(r)
	if !scope.HasOrganization() {
		respondServiceError(w, h.logger, service.ErrNoOrganization, "resolve organization")
		return nil, id, false
	}
	return scope, id, true
}

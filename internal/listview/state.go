// Package listview composes search, facet filters, stable sorting and
// pagination over in-memory view models.
package listview

import (
	"slices"
	"strings"
)

const (
	// DefaultPageSize is used when no page size is set
	DefaultPageSize = 10
	// MaxPageSize caps the page size
	MaxPageSize = 200
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder parses a string into SortOrder, defaulting to asc
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// State is the UI state of one list view
type State struct {
	Search    string
	Filters   map[string][]string
	SortBy    string
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// NewState returns a state on page 1 sorted by sortBy
func NewState(sortBy string, order SortOrder) State {
	return State{
		Filters:   map[string][]string{},
		SortBy:    sortBy,
		SortOrder: order,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// SetSearch changes the search term and returns to page 1
func (s *State) SetSearch(term string) {
	s.Search = term
	s.Page = 1
}

// SetPageSize changes the page size and returns to page 1
func (s *State) SetPageSize(size int) {
	s.PageSize = normalizePageSize(size)
	s.Page = 1
}

// SetFilter replaces the selected values of one facet and returns to page 1.
// An empty selection removes the constraint.
func (s *State) SetFilter(facet string, values []string) {
	if s.Filters == nil {
		s.Filters = map[string][]string{}
	}
	if len(values) == 0 {
		delete(s.Filters, facet)
	} else {
		s.Filters[facet] = slices.Clone(values)
	}
	s.Page = 1
}

// ToggleFilterValue adds value to a facet, or removes it when already selected
func (s *State) ToggleFilterValue(facet, value string) {
	current := s.Filters[facet]
	if i := slices.IndexFunc(current, func(v string) bool { return strings.EqualFold(v, value) }); i >= 0 {
		s.SetFilter(facet, slices.Delete(slices.Clone(current), i, i+1))
		return
	}
	s.SetFilter(facet, append(slices.Clone(current), value))
}

// ClearFilters removes every facet constraint and returns to page 1
func (s *State) ClearFilters() {
	s.Filters = map[string][]string{}
	s.Page = 1
}

// SetSort changes the sort field and direction. The page is kept.
func (s *State) SetSort(field string, order SortOrder) {
	s.SortBy = field
	s.SortOrder = order
}

// ToggleSort flips the direction when field is already the sort field,
// otherwise sorts ascending by field
func (s *State) ToggleSort(field string) {
	if s.SortBy == field {
		if s.SortOrder == SortAsc {
			s.SortOrder = SortDesc
		} else {
			s.SortOrder = SortAsc
		}
		return
	}
	s.SortBy = field
	s.SortOrder = SortAsc
}

// SetPage moves to page, never below 1
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	c := s
	c.Filters = make(map[string][]string, len(s.Filters))
	for k, v := range s.Filters {
		c.Filters[k] = slices.Clone(v)
	}
	return c
}

func normalizePageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

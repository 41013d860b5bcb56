package listview

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Comparator orders two records, returning <0, 0 or >0
type Comparator[T any] func(a, b T) int

// Schema describes how one entity is searched, filtered and sorted
type Schema[T any] struct {
	// SearchFields are matched case-insensitively against the search term
	SearchFields []func(T) string
	// Facets return the values of a record for each filter dimension
	Facets map[string]func(T) []string
	// SortFields maps a sortable field name to its comparator
	SortFields map[string]Comparator[T]
	// DefaultSort is used when the state names no known sort field
	DefaultSort string
}

// Page is one page of a list query
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ByString compares the extracted strings case-insensitively
func ByString[T any](get func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

// ByTime compares RFC 3339 timestamps. Empty or malformed values sort as the zero time.
func ByTime[T any](get func(T) string) Comparator[T] {
	return func(a, b T) int {
		return parseTime(get(a)).Compare(parseTime(get(b)))
	}
}

// ByNumber compares the extracted numbers
func ByNumber[T any](get func(T) float64) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}
}

// Single adapts a single-valued field to a facet
func Single[T any](get func(T) string) func(T) []string {
	return func(v T) []string {
		return []string{get(v)}
	}
}

// Filter keeps the records matching the search term and every active facet.
// Values inside one facet are alternatives.
func Filter[T any](data []T, schema Schema[T], state State) []T {
	term := strings.ToLower(strings.TrimSpace(state.Search))
	out := make([]T, 0, len(data))
	for _, item := range data {
		if matchesSearch(item, schema, term) && matchesFacets(item, schema, state.Filters) {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch[T any](item T, schema Schema[T], term string) bool {
	if term == "" {
		return true
	}
	for _, field := range schema.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func matchesFacets[T any](item T, schema Schema[T], filters map[string][]string) bool {
	for facet, selected := range filters {
		if len(selected) == 0 {
			continue
		}
		get, ok := schema.Facets[facet]
		if !ok {
			// unknown facets cannot be satisfied
			return false
		}
		values := get(item)
		if !slices.ContainsFunc(selected, func(want string) bool {
			return slices.ContainsFunc(values, func(have string) bool {
				return strings.EqualFold(have, want)
			})
		}) {
			return false
		}
	}
	return true
}

// Sort returns a stably sorted copy of data. Descending order reverses the
// comparison only, so equal records keep their relative order.
func Sort[T any](data []T, schema Schema[T], field string, order SortOrder) []T {
	out := slices.Clone(data)
	compare, ok := schema.SortFields[field]
	if !ok {
		compare, ok = schema.SortFields[schema.DefaultSort]
	}
	if !ok {
		return out
	}
	if order == SortDesc {
		slices.SortStableFunc(out, func(a, b T) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Paginate returns the records in [(page-1)*size, page*size).
// Pages past the end are empty.
func Paginate[T any](data []T, page, size int) []T {
	size = normalizePageSize(size)
	if page < 1 {
		page = 1
	}
	if len(data) == 0 || page-1 > (len(data)-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(data))
	return slices.Clone(data[start:end])
}

// Apply runs filter, sort and paginate in that order. The input is not modified.
func Apply[T any](data []T, schema Schema[T], state State) Page[T] {
	filtered := Filter(data, schema, state)
	sorted := Sort(filtered, schema, state.SortBy, state.SortOrder)

	size := normalizePageSize(state.PageSize)
	page := max(state.Page, 1)

	return Page[T]{
		Items:      Paginate(sorted, page, size),
		Total:      len(sorted),
		Page:       page,
		PageSize:   size,
		TotalPages: (len(sorted) + size - 1) / size,
	}
}

// FacetValues lists the distinct values of a facet in first-seen order
func FacetValues[T any](data []T, schema Schema[T], facet string) []string {
	get, ok := schema.Facets[facet]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var values []string
	for _, item := range data {
		for _, v := range get(item) {
			key := strings.ToLower(v)
			if v == "" || seen[key] {
				continue
			}
			seen[key] = true
			values = append(values, v)
		}
	}
	return values
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

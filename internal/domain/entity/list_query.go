package entity

import "sort"

// SortDirection is the direction of a listing
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Unpaged as page size returns every matching row
const Unpaged = -1

// ListQuery is a domain-level ordering and paging request.
// Used by repository layer to avoid coupling with delivery DTOs.
type ListQuery struct {
	OrderBy   string // API field name, resolved through SortFields
	Direction SortDirection
	Page      int // zero-based
	Size      int // Unpaged disables paging
}

// Paged reports whether the query limits the result to a single page
func (q ListQuery) Paged() bool {
	return q.Size != Unpaged
}

// Offset returns the index of the first row of the requested page
func (q ListQuery) Offset() int {
	if !q.Paged() {
		return 0
	}
	return q.Page * q.Size
}

// SortFields maps the sortable API field names of an entity to their columns
type SortFields map[string]string

// Column returns the column for an API field name
func (f SortFields) Column(field string) (string, bool) {
	column, ok := f[field]
	return column, ok
}

// Names returns the allowed API field names in a stable order
func (f SortFields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

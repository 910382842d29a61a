package dto

// ListParams carries the raw ordering and paging query parameters of a listing.
// Nil Page or Size means the parameter was not given.
type ListParams struct {
	OrderBy string
	Order   string
	Page    *int
	Size    *int
}

// PageMeta describes the page a listing returned
type PageMeta struct {
	Page    int
	Size    int
	Count   int
	OrderBy string
	Order   string
}

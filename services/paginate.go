package services

// Pagination defaults and bounds. Invalid client values are clamped, never
// rejected.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the page metadata returned alongside every listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// ClampPage normalizes a requested page number. Anything below 1 becomes 1.
func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// ClampLimit normalizes a requested page size into [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Paginate computes page metadata for a result set of total records.
// totalPages is ceil(total/limit).
func Paginate(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// PageSlice returns the [(page-1)*limit, page*limit) window of an already
// ordered in-memory result set. Used for the cached listing path; the store
// path pushes skip/limit down to the database instead. Both must agree on
// metadata for the same inputs.
func PageSlice[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

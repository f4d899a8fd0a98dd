package response

// PageResponse is the standard wrapper for paged list endpoints.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Paginate cuts page (1-based) out of all. A page past the end is empty,
// and Items is never null in JSON.
func Paginate[T any](all []T, page, pageSize int) PageResponse[T] {
	from := min(max(page-1, 0)*pageSize, len(all))
	to := min(from+pageSize, len(all))

	items := make([]T, to-from)
	copy(items, all[from:to])
	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    len(all),
	}
}

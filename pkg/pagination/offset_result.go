package pagination

// OffsetResult represents traditional offset-based pagination
type OffsetResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	Size     int   `json:"size"`
	LastPage int   `json:"last_page"`
	HasMore  bool  `json:"has_more"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](items []T, total int64, page int, size int) *OffsetResult[T] {
	if items == nil {
		items = []T{}
	}
	offset := (page - 1) * size
	hasMore := int64(offset+size) < total

	lastPage := 1
	if size > 0 && total > 0 {
		lastPage = int((total + int64(size) - 1) / int64(size))
	}

	return &OffsetResult[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		Size:     size,
		LastPage: lastPage,
		HasMore:  hasMore,
	}
}

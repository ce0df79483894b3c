package pagination

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"per_page"`
}

// Validate normalizes offset pagination parameters: page defaults to 1,
// size defaults to PageDefaultSize and is capped at PageMaxSize
func (r *OffsetRequest) Validate() error {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
	return nil
}

// Offset returns the number of items preceding the requested page
func (r OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage applies defaults and bounds to page/limit query values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

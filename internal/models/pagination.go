package models

// DefaultPageSize is the fixed number of customers returned per page
const DefaultPageSize = 20

// PaginationResult holds pagination metadata
type PaginationResult struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationResult creates a pagination result
func NewPaginationResult(page, pageSize int, totalCount int64) PaginationResult {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return PaginationResult{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// HasNext reports whether a page follows the current one
func (p PaginationResult) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrevious reports whether a page precedes the current one
func (p PaginationResult) HasPrevious() bool {
	return p.Page > 1
}

// InRange reports whether the current page exists. Page 1 always exists,
// even for an empty result set.
func (p PaginationResult) InRange() bool {
	return p.Page == 1 || (p.Page > 1 && p.Page <= p.TotalPages)
}

// ValidateAndSetDefaults validates pagination parameters and sets defaults
func ValidateAndSetDefaults(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 || *pageSize > DefaultPageSize {
		*pageSize = DefaultPageSize
	}
}

// CalculateOffset calculates the SQL offset for pagination
func CalculateOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}

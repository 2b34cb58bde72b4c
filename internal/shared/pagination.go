package shared

import "math"

// Pagination contains metadata for paginated report listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 50
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the half-open slice bounds for the current page over a list
// of n rows. An out-of-range page yields an empty window.
func (p Pagination) Bounds(n int) (int, int) {
	start := (p.Page - 1) * p.PerPage
	if start >= n {
		return n, n
	}
	end := start + p.PerPage
	if end > n {
		end = n
	}
	return start, end
}

package services

import "github.com/gasline/gasline-api/internal/utils"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// NormalizePage clamps 1-based page and limit parameters to sane bounds.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// ClampPage pulls an out-of-range page back to the last real page so
// the subsequent offset query returns that page's rows. Call it after
// the total count is known and before the fetch.
func ClampPage(page, limit int, totalCount int64) int {
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page
}

// BuildPagination computes the page metadata for a fetched slice.
func BuildPagination(count int, totalCount int64, page, limit int) utils.Pagination {
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return utils.Pagination{
		Count:       count,
		TotalCount:  totalCount,
		CurrentPage: page,
		TotalPages:  totalPages,
		Limit:       limit,
	}
}

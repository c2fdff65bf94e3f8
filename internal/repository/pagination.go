package repository

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	// MaxPageSize bounds every page regardless of what the caller asks for.
	MaxPageSize = 20
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	PageNumber int
	PageSize   int
}

// Effective returns the request with the page size clamped to
// [1, MaxPageSize]; a non-positive size falls back to DefaultPageSize.
func (p PageRequest) Effective() PageRequest {
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// PaginationMetadata describes a page within a filtered result set.
// It is serialized into the X-Pagination response header.
type PaginationMetadata struct {
	TotalItemCount int64 `json:"TotalItemCount"`
	TotalPageCount int   `json:"TotalPageCount"`
	PageSize       int   `json:"PageSize"`
	CurrentPage    int   `json:"CurrentPage"`
}

// NewPaginationMetadata computes the page count as ceil(total / pageSize).
func NewPaginationMetadata(totalItems int64, pageSize, currentPage int) PaginationMetadata {
	if pageSize <= 0 {
		pageSize = 1
	}
	return PaginationMetadata{
		TotalItemCount: totalItems,
		TotalPageCount: int((totalItems + int64(pageSize) - 1) / int64(pageSize)),
		PageSize:       pageSize,
		CurrentPage:    currentPage,
	}
}

// Paginate counts the rows matched by db, then loads the requested page
// ordered by id. Page numbers below 1 and pages past the end yield an empty
// slice, not an error.
func Paginate[T any](db *gorm.DB, page PageRequest) ([]T, PaginationMetadata, error) {
	page = page.Effective()
	// The same conditions feed both the count and the page query.
	base := db.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, PaginationMetadata{}, err
	}
	meta := NewPaginationMetadata(totalItems, page.PageSize, page.PageNumber)

	// Compare page counts, not offsets: (n-1)*size overflows for huge n.
	results := []T{}
	if page.PageNumber < 1 || page.PageNumber > meta.TotalPageCount {
		return results, meta, nil
	}

	if err := base.Order("id ASC").Offset(page.offset()).Limit(page.PageSize).Find(&results).Error; err != nil {
		return nil, PaginationMetadata{}, err
	}
	return results, meta, nil
}

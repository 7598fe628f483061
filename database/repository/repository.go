// Package repository holds the storage contract shared by every repository
// implementation (MongoDB and in-memory).
package repository

import "errors"

var (
	// ErrNotFound is returned when no document matches the given id or key.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write would violate a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict is returned when a state-guarded write finds the document
	// in a state other than the one required.
	ErrConflict = errors.New("state conflict")
)

// Paging normalizes page/limit and returns the number of documents to skip.
func Paging(page, limit, defaultLimit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

// TotalPages returns the page count for total items at limit per page.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

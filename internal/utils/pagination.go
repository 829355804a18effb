// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Paging defaults shared by list operations.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page normalizes a 1-based page number and page size and returns the
// resulting offset. Page values below 1 become 1; sizes outside
// [1, MaxPageSize] fall back to DefaultPageSize or are capped.
//
// Example:
//
//	page, size, offset := utils.Page(3, 10) // 3, 10, 20
//	page, size, offset = utils.Page(0, 0)   // 1, 20, 0
func Page(page, pageSize int) (p, size, offset int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}

// TotalPages returns how many pages of size pageSize hold total items.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// ParseID converts a positional argument into a record ID. Zero, negative and
// non-numeric values are rejected.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return uint(n), nil
}

package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CalculateTotalPages computes the total number of pages required to display all elements,
// given the total number of matching elements (`matchCount`) and the number of elements per page (`pageSize`).
//
// It performs a ceiling division to ensure that any remaining elements that don't fill a full page
// still count as an additional page.
//
// If `pageSize` is zero or negative, the function returns 0 to avoid division by zero.
func CalculateTotalPages(matchCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}

	exactPageSize := float64(matchCount) / float64(pageSize)
	return int(math.Ceil(exactPageSize))
}

// PageOffset returns the number of elements preceding the zero-based page.
func PageOffset(page, pageSize int) int {
	if page <= 0 || pageSize <= 0 {
		return 0
	}
	return page * pageSize
}

// ParseId parses a positive record id.
func ParseId(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return uint(id), nil
}

package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePageSpecifier parses a page specification string and returns the page numbers it names.
// Supports formats: "1", "1,3", "1-5", "1, 3, 5-10". Order and duplicates are kept,
// so "3,1,1" yields [3 1 1]. Numbers are not checked against any document.
func ParsePageSpecifier(pages string) ([]int, error) {
	var pageList []int

	for _, part := range strings.Split(pages, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			// "1,,3" and trailing commas are tolerated
			continue
		}

		if strings.Contains(part, "-") {
			// Range like "1-5"
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("%w: malformed range %q", ErrInvalidPageRange, part)
			}

			start, err := parsePageNumber(rangeParts[0])
			if err != nil {
				return nil, fmt.Errorf("%w: invalid start page %q", ErrInvalidPageRange, rangeParts[0])
			}

			end, err := parsePageNumber(rangeParts[1])
			if err != nil {
				return nil, fmt.Errorf("%w: invalid end page %q", ErrInvalidPageRange, rangeParts[1])
			}

			if start > end {
				return nil, fmt.Errorf("%w: start > end (%d > %d)", ErrInvalidPageRange, start, end)
			}

			pageList = append(pageList, PageRange(start, end)...)
			continue
		}

		// Single page like "3"
		pageNum, err := parsePageNumber(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page number %q", ErrInvalidPageRange, part)
		}
		pageList = append(pageList, pageNum)
	}

	if len(pageList) == 0 {
		return nil, fmt.Errorf("%w: empty page specification", ErrInvalidPageRange)
	}

	return pageList, nil
}

// parsePageNumber accepts a positive decimal integer, surrounding spaces allowed.
func parsePageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("page number must be positive, got %d", n)
	}
	return n, nil
}

// ValidatePageNumbers checks if all page numbers are valid for a given total number of pages
func ValidatePageNumbers(pages []int, totalPages int) error {
	for _, page := range pages {
		if page < 1 {
			return fmt.Errorf("%w: page numbers must be positive, got %d", ErrInvalidPageRange, page)
		}
		if page > totalPages {
			return fmt.Errorf("%w: page %d exceeds total pages (%d)", ErrInvalidPageRange, page, totalPages)
		}
	}
	return nil
}

// ValidatePermutation checks that order names every page of a totalPages document exactly once.
func ValidatePermutation(order []int, totalPages int) error {
	if err := ValidatePageNumbers(order, totalPages); err != nil {
		return err
	}
	if len(order) != totalPages {
		return fmt.Errorf("%w: order has %d entries, document has %d pages", ErrInvalidPageRange, len(order), totalPages)
	}

	seen := make([]bool, totalPages+1)
	for _, page := range order {
		if seen[page] {
			return fmt.Errorf("%w: page %d appears more than once", ErrInvalidPageRange, page)
		}
		seen[page] = true
	}
	return nil
}

// PageRange returns the pages start..end inclusive. It returns nil when start > end.
func PageRange(start, end int) []int {
	if start > end {
		return nil
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// AllPages returns 1..totalPages.
func AllPages(totalPages int) []int {
	return PageRange(1, totalPages)
}

// ReversePages returns totalPages..1.
func ReversePages(totalPages int) []int {
	pages := make([]int, 0, totalPages)
	for i := totalPages; i >= 1; i-- {
		pages = append(pages, i)
	}
	return pages
}

// ChunkPages partitions 1..totalPages into consecutive chunks of n pages.
// The last chunk holds the remainder.
func ChunkPages(totalPages, n int) ([][]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidPageRange, n)
	}

	var chunks [][]int
	for start := 1; start <= totalPages; start += n {
		end := min(start+n-1, totalPages)
		chunks = append(chunks, PageRange(start, end))
	}
	return chunks, nil
}

// ComplementPages returns the pages of 1..totalPages that are not listed in remove,
// in ascending order.
func ComplementPages(remove []int, totalPages int) []int {
	drop := make(map[int]bool, len(remove))
	for _, page := range remove {
		drop[page] = true
	}

	keep := make([]int, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		if !drop[page] {
			keep = append(keep, page)
		}
	}
	return keep
}

package httputil

import (
	"fmt"
	"strconv"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ParsePagination parses page/per_page query parameters. Page numbers below 1
// are clamped to 1; per_page is capped so one request can't pull the whole
// payment history.
func ParsePagination(pageStr, perPageStr string) (page, perPage int, err error) {
	page, perPage = 1, defaultPerPage

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil {
			return 0, 0, fmt.Errorf("page must be an integer")
		}
		if p > 1 {
			page = p
		}
	}

	if perPageStr != "" {
		pp, err := strconv.Atoi(perPageStr)
		if err != nil {
			return 0, 0, fmt.Errorf("per_page must be an integer")
		}
		if pp < 1 || pp > maxPerPage {
			return 0, 0, fmt.Errorf("per_page must be between 1 and %d", maxPerPage)
		}
		perPage = pp
	}

	return page, perPage, nil
}

package query

import (
	"strconv"
	"strings"
)

// ParsePage validates the limit and offset parameters.
func ParsePage(rawLimit, rawOffset string) (limit int, offset int, err error) {
	if limit, err = parseNonNegative(ParamLimit, rawLimit); err != nil {
		return 0, 0, err
	}
	if offset, err = parseNonNegative(ParamOffset, rawOffset); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func parseNonNegative(param, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &InvalidPaginationParamError{Param: param, Value: raw, Err: err}
	}
	if n < 0 {
		return 0, &InvalidPaginationParamError{Param: param, Value: raw}
	}
	return n, nil
}

// Paginate returns the window items[offset:offset+limit] clamped to the
// slice bounds. An offset past the end yields an empty page.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

package query

import (
	"github.com/rpattn/bookmarks/internal/domain"
)

// FilterRecords keeps, in order, the records whose field value matches the
// wildcard pattern. A record without the field is an error; a pattern that
// does not compile matches no record.
func FilterRecords(records []domain.Record, field, pattern string) ([]domain.Record, error) {
	for idx, record := range records {
		if !record.Has(field) {
			return nil, &MissingFieldError{Stage: "filter", Field: field, Index: idx}
		}
	}

	filtered := make([]domain.Record, 0, len(records))
	compiled, err := CompilePattern(pattern)
	if err != nil {
		return filtered, nil
	}
	for _, record := range records {
		if compiled.Match(record.Lookup(field).String()) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

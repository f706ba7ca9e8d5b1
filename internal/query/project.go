package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rpattn/bookmarks/internal/domain"
)

// DefaultCategoryField is the field whose distinct values field=Category returns.
const DefaultCategoryField = "Category"

// FieldSource is anything a field can be read from.
type FieldSource interface {
	Lookup(field string) domain.Value
}

// SplitFields splits a comma separated field list. Empty names are dropped.
func SplitFields(raw string) []string {
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		fields = append(fields, part)
	}
	return fields
}

// Project narrows every row to the requested fields, in requested order. A
// field missing from a row is carried as absent.
func Project[S FieldSource](rows []S, fields []string) []domain.ProjectedRecord {
	projected := make([]domain.ProjectedRecord, len(rows))
	for idx, row := range rows {
		projected[idx] = domain.NewProjectedRecord(fields, row.Lookup)
	}
	return projected
}

// DistinctCategories collects the distinct values of field in first-seen
// order and keeps those starting with an uppercase letter.
func DistinctCategories(records []domain.Record, field string) []domain.CategoryEntry {
	seen := make(map[string]struct{})
	entries := []domain.CategoryEntry{}
	for _, record := range records {
		value := record.Lookup(field)
		if value.IsAbsent() {
			continue
		}
		category := value.String()
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}

		first, _ := utf8.DecodeRuneInString(category)
		if !unicode.IsUpper(first) {
			continue
		}
		entries = append(entries, domain.CategoryEntry{Nom: category})
	}
	return entries
}

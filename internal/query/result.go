package query

import (
	"encoding/json"
	"sort"

	"github.com/rpattn/bookmarks/internal/domain"
)

// ResultKind says which of the Result slices is populated.
type ResultKind int

const (
	ResultRecords ResultKind = iota
	ResultProjected
	ResultCategories
)

func (k ResultKind) String() string {
	switch k {
	case ResultProjected:
		return "projected"
	case ResultCategories:
		return "categories"
	default:
		return "records"
	}
}

// Result is the output of a pipeline run.
type Result struct {
	Kind       ResultKind
	Records    []domain.Record
	Projected  []domain.ProjectedRecord
	Categories []domain.CategoryEntry
	// Fields is the requested projection, kept so an empty projection still
	// has a header.
	Fields []string
}

func (r Result) Len() int {
	switch r.Kind {
	case ResultProjected:
		return len(r.Projected)
	case ResultCategories:
		return len(r.Categories)
	default:
		return len(r.Records)
	}
}

// Columns returns the header of the tabular view: the projection's fields,
// "nom" for categories, or the union of record fields with Id first.
func (r Result) Columns() []string {
	switch r.Kind {
	case ResultProjected:
		if len(r.Projected) > 0 {
			return r.Projected[0].Fields()
		}
		return uniqueFields(r.Fields)
	case ResultCategories:
		return []string{"nom"}
	}

	seen := make(map[string]struct{})
	hasID := false
	var columns []string
	for _, record := range r.Records {
		for field := range record {
			if field == domain.IDField {
				hasID = true
				continue
			}
			if _, ok := seen[field]; ok {
				continue
			}
			seen[field] = struct{}{}
			columns = append(columns, field)
		}
	}
	sort.Strings(columns)
	if hasID {
		columns = append([]string{domain.IDField}, columns...)
	}
	if columns == nil {
		columns = []string{}
	}
	return columns
}

// Rows returns the values of each element under Columns().
func (r Result) Rows() [][]domain.Value {
	columns := r.Columns()
	rows := make([][]domain.Value, 0, r.Len())
	switch r.Kind {
	case ResultProjected:
		for _, projected := range r.Projected {
			rows = append(rows, lookupRow(projected, columns))
		}
	case ResultCategories:
		for _, entry := range r.Categories {
			rows = append(rows, []domain.Value{domain.Text(entry.Nom)})
		}
	default:
		for _, record := range r.Records {
			rows = append(rows, lookupRow(record, columns))
		}
	}
	return rows
}

func uniqueFields(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		columns = append(columns, field)
	}
	return columns
}

func lookupRow(source FieldSource, columns []string) []domain.Value {
	row := make([]domain.Value, len(columns))
	for i, column := range columns {
		row[i] = source.Lookup(column)
	}
	return row
}

// MarshalJSON encodes the populated slice as a JSON array, never null.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResultProjected:
		if r.Projected == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Projected)
	case ResultCategories:
		if r.Categories == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Categories)
	default:
		if r.Records == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Records)
	}
}

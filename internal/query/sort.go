package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/bookmarks/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder is the direction of the single-field sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps "desc" (any case) to SortDesc and everything else to SortAsc.
func ParseSortOrder(raw string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(raw), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// ParseSort splits a "<field>,<order>" sort parameter.
func ParseSort(raw string) (string, SortOrder, error) {
	field, order, _ := strings.Cut(raw, ",")
	if field == "" {
		return "", "", fmt.Errorf("%w: %q has no field name", ErrInvalidSort, raw)
	}
	return field, ParseSortOrder(order), nil
}

// Compare orders two coerced values: numerically when both are numbers,
// otherwise by collation of their text, with byte order breaking collation ties.
func Compare(a, b Coerced) int {
	return newComparer().compare(a, b)
}

type comparer struct {
	collator *collate.Collator
}

// Collators are not safe for concurrent use; one is built per sort.
func newComparer() *comparer {
	return &comparer{collator: collate.New(language.Und)}
}

func (c *comparer) compare(a, b Coerced) int {
	if a.Numeric && b.Numeric {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	if cmp := c.collator.CompareString(a.Text, b.Text); cmp != 0 {
		return cmp
	}
	return strings.Compare(a.Text, b.Text)
}

// SortRecords returns a stably sorted copy of records ordered by field. The
// input slice is left untouched. Every record must carry the field.
func SortRecords(records []domain.Record, field string, order SortOrder) ([]domain.Record, error) {
	keys := make([]Coerced, len(records))
	for idx, record := range records {
		if !record.Has(field) {
			return nil, &MissingFieldError{Stage: "sort", Field: field, Index: idx}
		}
		keys[idx] = Coerce(record.Lookup(field))
	}

	positions := make([]int, len(records))
	for i := range positions {
		positions[i] = i
	}

	cmp := newComparer()
	sort.SliceStable(positions, func(i, j int) bool {
		result := cmp.compare(keys[positions[i]], keys[positions[j]])
		if order == SortDesc {
			return result > 0
		}
		return result < 0
	})

	sorted := make([]domain.Record, len(records))
	for i, pos := range positions {
		sorted[i] = records[pos]
	}
	return sorted, nil
}

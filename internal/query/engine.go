package query

import (
	"github.com/rpattn/bookmarks/internal/domain"
)

// Reserved parameter names. Every other parameter filters on the field of the
// same name.
const (
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamOffset = "offset"
	ParamField  = "field"
)

// IsReserved reports whether name is a pipeline control parameter rather than
// a field filter.
func IsReserved(name string) bool {
	switch name {
	case ParamSort, ParamLimit, ParamOffset, ParamField:
		return true
	default:
		return false
	}
}

// Engine runs the sort, filter, paginate and project stages over a borrowed
// collection. It holds no per-call state and may be shared.
type Engine struct {
	categoryField string
}

// Option configures an Engine.
type Option func(*Engine)

// WithCategoryField changes the field that field=<name> extracts distinct
// values from.
func WithCategoryField(field string) Option {
	return func(e *Engine) {
		if field != "" {
			e.categoryField = field
		}
	}
}

// NewEngine constructs a query engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{categoryField: DefaultCategoryField}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies params to records. The records slice is never reordered or
// modified; stages that reorder work on their own copy.
func (e *Engine) Run(records []domain.Record, params *domain.QueryParams) (Result, error) {
	if params.Len() == 0 {
		return Result{Kind: ResultRecords, Records: records}, nil
	}

	working := append([]domain.Record(nil), records...)

	if raw, ok := params.Get(ParamSort); ok && raw != "" {
		field, order, err := ParseSort(raw)
		if err != nil {
			return Result{}, err
		}
		working, err = SortRecords(working, field, order)
		if err != nil {
			return Result{}, err
		}
	}

	for _, param := range params.Entries() {
		if IsReserved(param.Name) {
			continue
		}
		var err error
		working, err = FilterRecords(working, param.Name, param.Value)
		if err != nil {
			return Result{}, err
		}
	}

	rawLimit, hasLimit := params.Get(ParamLimit)
	rawOffset, hasOffset := params.Get(ParamOffset)
	if hasLimit && hasOffset && rawLimit != "" && rawOffset != "" {
		limit, offset, err := ParsePage(rawLimit, rawOffset)
		if err != nil {
			return Result{}, err
		}
		working = Paginate(working, limit, offset)
	}

	if raw, ok := params.Get(ParamField); ok && raw != "" {
		if raw == e.categoryField {
			return Result{
				Kind:       ResultCategories,
				Categories: DistinctCategories(records, e.categoryField),
			}, nil
		}
		fields := SplitFields(raw)
		return Result{
			Kind:      ResultProjected,
			Projected: Project(working, fields),
			Fields:    fields,
		}, nil
	}

	return Result{Kind: ResultRecords, Records: working}, nil
}

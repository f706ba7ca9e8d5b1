package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is one name/value pair of a query string.
type Param struct {
	Name  string
	Value string
}

// QueryParams is an insertion-ordered parameter map.
type QueryParams struct {
	entries []Param
	index   map[string]int
}

// NewQueryParams builds params from pairs; a repeated name keeps its first
// position and takes the last value.
func NewQueryParams(pairs ...Param) *QueryParams {
	params := &QueryParams{index: make(map[string]int, len(pairs))}
	for _, pair := range pairs {
		params.Set(pair.Name, pair.Value)
	}
	return params
}

// ParseQueryParams decodes a raw URL query string, keeping the order in which
// parameters were supplied.
func ParseQueryParams(rawQuery string) (*QueryParams, error) {
	params := NewQueryParams()
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	for rawQuery != "" {
		var part string
		part, rawQuery, _ = strings.Cut(rawQuery, "&")
		if part == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("invalid query parameter name %q: %w", rawName, err)
		}
		if name == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for query parameter %q: %w", name, err)
		}
		params.Set(name, value)
	}
	return params, nil
}

// Set adds or replaces a parameter.
func (p *QueryParams) Set(name, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if idx, ok := p.index[name]; ok {
		p.entries[idx].Value = value
		return
	}
	p.index[name] = len(p.entries)
	p.entries = append(p.entries, Param{Name: name, Value: value})
}

// Get returns the value for name and whether it was supplied.
func (p *QueryParams) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	idx, ok := p.index[name]
	if !ok {
		return "", false
	}
	return p.entries[idx].Value, true
}

// Has reports whether name was supplied, even with an empty value.
func (p *QueryParams) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Without returns a copy that omits the named parameters.
func (p *QueryParams) Without(names ...string) *QueryParams {
	skip := make(map[string]struct{}, len(names))
	for _, name := range names {
		skip[name] = struct{}{}
	}
	out := NewQueryParams()
	for _, entry := range p.Entries() {
		if _, ok := skip[entry.Name]; ok {
			continue
		}
		out.Set(entry.Name, entry.Value)
	}
	return out
}

// Entries returns the parameters in insertion order.
func (p *QueryParams) Entries() []Param {
	if p == nil {
		return nil
	}
	return append([]Param(nil), p.entries...)
}

func (p *QueryParams) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

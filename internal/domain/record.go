package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Record is one flat element of a collection, keyed by case-sensitive field name.
type Record map[string]Value

// RecordFromMap converts decoded properties into a Record. Nested values are
// kept as their text rendering.
func RecordFromMap(properties map[string]any) Record {
	record := make(Record, len(properties))
	for key, raw := range properties {
		record[key] = ValueOf(raw)
	}
	return record
}

// Lookup returns the field value, or Absent when the field is missing.
func (r Record) Lookup(field string) Value {
	return r[field]
}

// Has reports whether the record carries a non-absent value for field.
func (r Record) Has(field string) bool {
	value, ok := r[field]
	return ok && !value.IsAbsent()
}

// Fields returns the record's field names in lexical order.
func (r Record) Fields() []string {
	fields := make([]string, 0, len(r))
	for key := range r {
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields
}

// ProjectedRecord holds a subset of a record's fields in the requested order.
type ProjectedRecord struct {
	fields []string
	values []Value
}

// NewProjectedRecord builds a projection; repeated field names keep their
// first position.
func NewProjectedRecord(fields []string, lookup func(string) Value) ProjectedRecord {
	projected := ProjectedRecord{
		fields: make([]string, 0, len(fields)),
		values: make([]Value, 0, len(fields)),
	}
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		projected.fields = append(projected.fields, field)
		projected.values = append(projected.values, lookup(field))
	}
	return projected
}

func (p ProjectedRecord) Fields() []string {
	return append([]string(nil), p.fields...)
}

func (p ProjectedRecord) Len() int { return len(p.fields) }

func (p ProjectedRecord) Lookup(field string) Value {
	for i, name := range p.fields {
		if name == field {
			return p.values[i]
		}
	}
	return Absent()
}

// Equal compares field order and values.
func (p ProjectedRecord) Equal(other ProjectedRecord) bool {
	if len(p.fields) != len(other.fields) {
		return false
	}
	for i := range p.fields {
		if p.fields[i] != other.fields[i] || !p.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes fields in projection order and leaves out absent ones.
func (p ProjectedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i, field := range p.fields {
		if p.values[i].IsAbsent() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(field)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", field, err)
		}
		value, err := p.values[i].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", field, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CategoryEntry is one distinct category value.
type CategoryEntry struct {
	Nom string `json:"nom"`
}

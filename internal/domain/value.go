package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind tags the scalar held by a Value.
type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindText
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "absent"
	}
}

// Value is a JSON-friendly scalar stored in a record field.
type Value struct {
	kind ValueKind
	text string
	num  float64
}

// Text wraps a string value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number wraps a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Absent returns the value of a field that is not set.
func Absent() Value {
	return Value{}
}

// ValueOf converts a decoded JSON/YAML/database scalar into a Value.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Absent()
	case Value:
		return v
	case string:
		return Text(v)
	case *string:
		if v == nil {
			return Absent()
		}
		return Text(*v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return Number(f)
		}
		return Text(v.String())
	case bool:
		return Text(strconv.FormatBool(v))
	case fmt.Stringer:
		return Text(v.String())
	default:
		return Text(fmt.Sprintf("%v", v))
	}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float returns the numeric payload when the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value the way a JavaScript toString would: integers
// without a fractional part, absent values as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return FormatNumber(v.num)
	default:
		return ""
	}
}

// Any returns the plain Go representation (string, float64 or nil).
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num || (math.IsNaN(v.num) && math.IsNaN(other.num))
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(FormatNumber(v.num)), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case map[string]any, []any:
		return fmt.Errorf("value must be a scalar, got %s", string(data))
	}
	*v = ValueOf(raw)
	return nil
}

// FormatNumber prints a float the way JSON.stringify does for finite numbers.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	abs := math.Abs(n)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

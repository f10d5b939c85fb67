package stat

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a [Value].
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindCategory
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindCategory:
		return "category"
	default:
		return "missing"
	}
}

// Value is a single statistical observation: a number, a category label, or
// missing. The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing is the "no data" value.
var Missing = Value{}

// Number returns a numeric value. NaN yields [Missing].
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing
	}
	return Value{kind: KindNumber, num: f}
}

// Category returns a categorical value. An empty label yields [Missing].
func Category(s string) Value {
	if s == "" {
		return Missing
	}
	return Value{kind: KindCategory, text: s}
}

// Parse coerces a raw ingested value. Numbers and strings that parse as finite
// floats become [Number]; other strings become [Category]; nil,
// NaN, booleans and unsupported types become [Missing].
func Parse(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Missing
	case Value:
		return v
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case json.Number:
		return ParseString(v.String())
	case string:
		return ParseString(v)
	default:
		return Missing
	}
}

// ParseString coerces a textual value, as found in CSV cells or JSON strings.
// Eurostat uses ":" as the "not available" marker, which reads as Missing.
func ParseString(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" || s == ":" {
		return Missing
	}
	// ParseFloat also reads digit separators and infinities, which are
	// labels in published statistics rather than measurements.
	if strings.Contains(s, "_") {
		return Category(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
		return Number(f)
	}
	return Category(s)
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v carries no data.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the category label and whether v is a category.
func (v Value) Text() (string, bool) {
	if v.kind != KindCategory {
		return "", false
	}
	return v.text, true
}

// Equal reports whether v and o are the same variant with the same content.
func (v Value) Equal(o Value) bool { return v == o }

// String formats v for display. Missing renders as ":".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindCategory:
		return v.text
	default:
		return ":"
	}
}

// MarshalJSON encodes numbers as JSON numbers, categories as strings and
// Missing as null. Infinite numbers are encoded as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	case KindCategory:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON scalar through [Parse].
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = Parse(raw)
	return nil
}

package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind tags the concrete type held by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "none"
	}
}

// Value is an untyped answer value. It is resolved against the question type at mapping time.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps f.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a decoded JSON/YAML scalar into a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return NumberValue(x), nil
	case float32:
		return NumberValue(float64(x)), nil
	case int:
		return NumberValue(float64(x)), nil
	case int8:
		return NumberValue(float64(x)), nil
	case int16:
		return NumberValue(float64(x)), nil
	case int32:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case uint:
		return NumberValue(float64(x)), nil
	case uint32:
		return NumberValue(float64(x)), nil
	case uint64:
		return NumberValue(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return NumberValue(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported answer value type %T", v)
	}
}

// Kind returns the tag of the held value.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether the value is absent or an empty string.
func (v Value) IsZero() bool {
	return v.kind == KindNone || (v.kind == KindString && v.str == "")
}

// Str returns the held string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Number returns the held number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Bool returns the held boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// String renders the literal form: numbers without exponent or locale separators.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface returns the held value as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FormatNumber renders f in plain decimal notation ("15", "12.5", "-0.25").
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == 0 {
		// normalizes negative zero
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Answers is a full snapshot of answers keyed by question id.
type Answers map[string]Value

// AnswersFrom converts a decoded map into Answers.
func AnswersFrom(raw map[string]any) (Answers, error) {
	answers := make(Answers, len(raw))
	for id, v := range raw {
		val, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("answer %s: %w", id, err)
		}
		answers[id] = val
	}
	return answers, nil
}

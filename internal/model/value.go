// internal/model/value.go
package model

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a MeasValue.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MeasValue is a single measurement value: exactly one of bool, int64,
// float64 or string, fixed at construction.
//
// The struct is comparable. == is structural equality (same kind, same
// underlying value) and values can be used as map keys directly.
type MeasValue struct {
	kind Kind

	b bool
	i int64
	f float64
	s string
}

func BoolValue(v bool) MeasValue     { return MeasValue{kind: KindBool, b: v} }
func IntValue(v int64) MeasValue     { return MeasValue{kind: KindInt, i: v} }
func FloatValue(v float64) MeasValue { return MeasValue{kind: KindFloat, f: v} }
func StringValue(v string) MeasValue { return MeasValue{kind: KindString, s: v} }

// Kind reports the variant fixed at construction.
func (m MeasValue) Kind() Kind { return m.kind }

// AsBool converts the value to bool.
// Numeric kinds convert as nonzero => true. String never converts.
func (m MeasValue) AsBool() (bool, bool) {
	switch m.kind {
	case KindBool:
		return m.b, true
	case KindInt:
		return m.i != 0, true
	case KindFloat:
		return m.f != 0, true
	default:
		return false, false
	}
}

// AsInt converts the value to int64.
// Bool converts as 0/1, float truncates toward zero. String never converts.
func (m MeasValue) AsInt() (int64, bool) {
	switch m.kind {
	case KindBool:
		if m.b {
			return 1, true
		}
		return 0, true
	case KindInt:
		return m.i, true
	case KindFloat:
		return int64(m.f), true
	default:
		return 0, false
	}
}

// AsFloat converts the value to float64.
// Bool converts as 0/1. String never converts.
func (m MeasValue) AsFloat() (float64, bool) {
	switch m.kind {
	case KindBool:
		if m.b {
			return 1, true
		}
		return 0, true
	case KindInt:
		return float64(m.i), true
	case KindFloat:
		return m.f, true
	default:
		return 0, false
	}
}

// AsString converts the value to string.
// Only the string kind converts; other kinds render text for diagnostics
// via String() but do not participate in string coercion.
func (m MeasValue) AsString() (string, bool) {
	if m.kind == KindString {
		return m.s, true
	}
	return "", false
}

// Matches reports whether v, coerced to the receiver's kind, equals the
// receiver's underlying value. The comparison is driven by the receiver's
// kind on purpose: "does the observed value match this expected value".
// It is not symmetric across kinds. Float comparison is exact.
func (m MeasValue) Matches(v MeasValue) bool {
	switch m.kind {
	case KindBool:
		o, ok := v.AsBool()
		return ok && o == m.b
	case KindInt:
		o, ok := v.AsInt()
		return ok && o == m.i
	case KindFloat:
		o, ok := v.AsFloat()
		return ok && o == m.f
	case KindString:
		o, ok := v.AsString()
		return ok && o == m.s
	default:
		return false
	}
}

// String renders the value for logs.
func (m MeasValue) String() string {
	switch m.kind {
	case KindBool:
		return fmt.Sprintf("Bool(%t)", m.b)
	case KindInt:
		return fmt.Sprintf("Int(%d)", m.i)
	case KindFloat:
		return "Float(" + strconv.FormatFloat(m.f, 'g', -1, 64) + ")"
	case KindString:
		return fmt.Sprintf("String(%q)", m.s)
	default:
		return "MeasValue(?)"
	}
}

// internal/model/transform.go
package model

import (
	"fmt"
	"strings"
)

// ParseKind resolves the textual kind name used in config files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "bool":
		return KindBool, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "string":
		return KindString, nil
	default:
		return 0, fmt.Errorf("unknown value kind %q", s)
	}
}

// Transform rescales, re-types or filters a value before it is forwarded
// as a domain update. Pure: no IO, no state. Returning ok=false suppresses
// the update entirely.
type Transform func(MeasValue) (MeasValue, bool)

// Scale multiplies the numeric reading by coefficient and adds offset.
// Non-numeric values pass through unchanged.
func Scale(coefficient, offset float64) Transform {
	return func(v MeasValue) (MeasValue, bool) {
		f, ok := v.AsFloat()
		if !ok {
			return v, true
		}
		return FloatValue(f*coefficient + offset), true
	}
}

// AsKind coerces the value to the given kind, suppressing the update when
// the coercion is not possible (string sources, mostly).
func AsKind(k Kind) Transform {
	return func(v MeasValue) (MeasValue, bool) {
		switch k {
		case KindBool:
			b, ok := v.AsBool()
			return BoolValue(b), ok
		case KindInt:
			i, ok := v.AsInt()
			return IntValue(i), ok
		case KindFloat:
			f, ok := v.AsFloat()
			return FloatValue(f), ok
		case KindString:
			s, ok := v.AsString()
			return StringValue(s), ok
		default:
			return v, false
		}
	}
}

// MatchBool maps the value to a boolean: true iff it matches expected.
// The match is evaluated from expected's kind.
func MatchBool(expected MeasValue) Transform {
	return func(v MeasValue) (MeasValue, bool) {
		return BoolValue(expected.Matches(v)), true
	}
}

// DropWhen suppresses the update when the value matches expected.
func DropWhen(expected MeasValue) Transform {
	return func(v MeasValue) (MeasValue, bool) {
		if expected.Matches(v) {
			return v, false
		}
		return v, true
	}
}

// Chain applies transforms left to right, stopping at the first one that
// suppresses the value. Chain() is the identity.
func Chain(ts ...Transform) Transform {
	return func(v MeasValue) (MeasValue, bool) {
		for _, t := range ts {
			var ok bool
			v, ok = t(v)
			if !ok {
				return v, false
			}
		}
		return v, true
	}
}

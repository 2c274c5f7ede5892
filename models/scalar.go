package models

import "strconv"

// ScalarKind tags the result of Coerce.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarFloat
)

// Scalar is the tagged result of coercing a raw string: integer first, then
// float, then the string itself. Both product saving and query-filter parsing
// go through this one function so the coercion order is identical everywhere.
type Scalar struct {
	Kind  ScalarKind
	Int   int64
	Float float64
	Str   string
}

// Coerce converts a raw string to the most specific scalar it parses as.
// The function is total: any input yields a usable Scalar.
func Coerce(raw string) Scalar {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Scalar{Kind: ScalarInt, Int: i}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Scalar{Kind: ScalarFloat, Float: f}
	}
	return Scalar{Kind: ScalarString, Str: raw}
}

// Value returns the natural Go value for storage or query use.
func (s Scalar) Value() interface{} {
	switch s.Kind {
	case ScalarInt:
		return s.Int
	case ScalarFloat:
		return s.Float
	default:
		return s.Str
	}
}

package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vela-lang/vela/internal/ast"
)

// Value is a runtime value: a primitive, a struct (ordered named
// fields, all present), or a variant (one active field). Structs and
// variants deep-copy on assignment (spec section 3's "Values"), so
// every Value method that could alias mutable state returns a copy
// instead.
type Value interface {
	Type() ast.Type
	String() string
	value()
}

// IntValue is a 32-bit signed integer.
type IntValue int32

func (IntValue) value()            {}
func (IntValue) Type() ast.Type    { return ast.Int }
func (v IntValue) String() string  { return strconv.FormatInt(int64(v), 10) }

// FloatValue is a double.
type FloatValue float64

func (FloatValue) value()           {}
func (FloatValue) Type() ast.Type   { return ast.Float }
func (v FloatValue) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// StrValue is a string.
type StrValue string

func (StrValue) value()           {}
func (StrValue) Type() ast.Type   { return ast.Str }
func (v StrValue) String() string { return string(v) }

// BoolValue is a boolean.
type BoolValue bool

func (BoolValue) value()         {}
func (BoolValue) Type() ast.Type { return ast.Bool }
func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}

// StructValue is an ordered set of named field values, all present.
type StructValue struct {
	Name   string
	Fields []string
	Values []Value
}

func (StructValue) value()         {}
func (v StructValue) Type() ast.Type { return ast.Named(v.Name) }
func (v StructValue) String() string {
	var sb strings.Builder
	sb.WriteString(v.Name)
	sb.WriteString("{")
	for i, f := range v.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f)
		sb.WriteString(": ")
		sb.WriteString(v.Values[i].String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Get returns the value of field, and whether it exists.
func (v StructValue) Get(field string) (Value, bool) {
	for i, f := range v.Fields {
		if f == field {
			return v.Values[i], true
		}
	}
	return nil, false
}

// With returns a copy of v with field replaced by value — the deep-copy
// write a dotted assignment performs, per spec section 3.
func (v StructValue) With(field string, value Value) StructValue {
	out := StructValue{Name: v.Name, Fields: v.Fields, Values: make([]Value, len(v.Values))}
	copy(out.Values, v.Values)
	for i, f := range v.Fields {
		if f == field {
			out.Values[i] = value
		}
	}
	return out
}

// VariantValue holds a single active (fieldType, inner Value) pair.
type VariantValue struct {
	Name      string
	FieldType ast.Type
	Inner     Value
}

func (VariantValue) value()           {}
func (v VariantValue) Type() ast.Type { return ast.Named(v.Name) }
func (v VariantValue) String() string {
	return fmt.Sprintf("%s(%s)", v.Name, v.Inner.String())
}

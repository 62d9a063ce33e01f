package ast

import (
	"strings"

	"github.com/vela-lang/vela/pkg/position"
)

// Field is one member of a struct or variant declaration. It does not
// implement Node: it only ever appears nested inside a StructDecl or
// VariantDecl, which carry their own position.
type Field struct {
	Pos  position.Position
	Type Type
	Name string
}

func (f Field) String() string { return f.Type.String() + " " + f.Name + ";" }

// StructDecl declares an ordered record: every field is always present.
type StructDecl struct {
	base
	Name   string
	Fields []Field
}

// NewStructDecl builds a StructDecl.
func NewStructDecl(pos position.Position, name string, fields []Field) *StructDecl {
	return &StructDecl{base: base{pos}, Name: name, Fields: fields}
}

func (d *StructDecl) String() string {
	var sb strings.Builder
	sb.WriteString("struct " + d.Name + " {\n")
	for _, f := range d.Fields {
		sb.WriteString("  " + f.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// VariantDecl declares a tagged union: field types must be pairwise
// distinct, and exactly one field is "active" at runtime.
type VariantDecl struct {
	base
	Name   string
	Fields []Field
}

// NewVariantDecl builds a VariantDecl.
func NewVariantDecl(pos position.Position, name string, fields []Field) *VariantDecl {
	return &VariantDecl{base: base{pos}, Name: name, Fields: fields}
}

func (d *VariantDecl) String() string {
	var sb strings.Builder
	sb.WriteString("variant " + d.Name + " {\n")
	for _, f := range d.Fields {
		sb.WriteString("  " + f.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Param is one function parameter, optionally mutable (pass-by-reference
// for l-value arguments). Like Field, it does not implement Node.
type Param struct {
	Pos     position.Position
	Type    Type
	Mutable bool
	Name    string
}

func (p Param) String() string {
	mut := ""
	if p.Mutable {
		mut = "$"
	}
	return p.Type.String() + " " + mut + p.Name
}

// FunctionID is a function's unique key: name plus parameter-type
// sequence. Overloading is keyed on parameter types only, never on
// return type.
type FunctionID struct {
	Name   string
	Params string // types joined by "," using Type.String(), after resolution
}

// NewFunctionID builds the key from a parameter-type slice.
func NewFunctionID(name string, paramTypes []Type) FunctionID {
	parts := make([]string, len(paramTypes))
	for i, t := range paramTypes {
		parts[i] = t.String()
	}
	return FunctionID{Name: name, Params: strings.Join(parts, ",")}
}

func (id FunctionID) String() string {
	if id.Params == "" {
		return id.Name
	}
	return id.Name + "(" + id.Params + ")"
}

// FuncDecl declares a function (or procedure, when ReturnType is nil).
type FuncDecl struct {
	base
	Name       string
	Params     []Param
	ReturnType *Type // nil when the function returns nothing
	Body       []Stmt
}

// NewFuncDecl builds a FuncDecl.
func NewFuncDecl(pos position.Position, name string, params []Param, retType *Type, body []Stmt) *FuncDecl {
	return &FuncDecl{base: base{pos}, Name: name, Params: params, ReturnType: retType, Body: body}
}

// ParamTypes extracts the parameter-type sequence for FunctionID lookups.
func (d *FuncDecl) ParamTypes() []Type {
	ts := make([]Type, len(d.Params))
	for i, p := range d.Params {
		ts[i] = p.Type
	}
	return ts
}

// ID returns this declaration's FunctionIdentification.
func (d *FuncDecl) ID() FunctionID { return NewFunctionID(d.Name, d.ParamTypes()) }

func (d *FuncDecl) String() string {
	var sb strings.Builder
	sb.WriteString("func " + d.Name + "(")
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")
	if d.ReturnType != nil {
		sb.WriteString(" -> " + d.ReturnType.String())
	}
	sb.WriteString(" " + blockString(d.Body))
	return sb.String()
}

// IncludeDecl is an `include "path";` directive. Consumed (and removed
// from the merged Program) by the include resolver.
type IncludeDecl struct {
	base
	Path string
}

// NewIncludeDecl builds an IncludeDecl.
func NewIncludeDecl(pos position.Position, path string) *IncludeDecl {
	return &IncludeDecl{base: base{pos}, Path: path}
}

func (d *IncludeDecl) String() string { return "include \"" + d.Path + "\";" }

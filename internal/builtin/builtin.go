// Package builtin declares the fixed signature table from spec section
// 4.7's "<builtins> pseudo-file": the functions the semantic analyzer
// admits into overload resolution without a user declaration, and that
// the interpreter dispatches to native Go code instead of a tree-walk.
package builtin

import "github.com/vela-lang/vela/internal/ast"

// PseudoFile is the source-file name builtins are attributed to in
// diagnostics, mirroring how the teacher's own standard-library
// functions report a synthetic origin.
const PseudoFile = "<builtins>"

// Signature is one builtin overload: a name, its parameter types, and
// its return type (nil for the print/println procedures).
type Signature struct {
	Name   string
	Params []ast.Type
	Return *ast.Type
}

// ID returns the FunctionIdentification this signature occupies in the
// shared overload table.
func (s Signature) ID() ast.FunctionID { return ast.NewFunctionID(s.Name, s.Params) }

var (
	retInt   = ast.Int
	retFloat = ast.Float
	retStr   = ast.Str
)

// Signatures lists every builtin overload, in the table order spec
// section 4.7 presents them.
var Signatures = []Signature{
	{Name: "no_arguments", Params: nil, Return: &retInt},
	{Name: "argument", Params: []ast.Type{ast.Int}, Return: &retStr},
	{Name: "print", Params: []ast.Type{ast.Str}, Return: nil},
	{Name: "println", Params: []ast.Type{ast.Str}, Return: nil},
	{Name: "input", Params: nil, Return: &retStr},
	{Name: "input", Params: []ast.Type{ast.Int}, Return: &retStr},
	{Name: "len", Params: []ast.Type{ast.Str}, Return: &retInt},
	{Name: "abs", Params: []ast.Type{ast.Int}, Return: &retInt},
	{Name: "abs", Params: []ast.Type{ast.Float}, Return: &retFloat},
	{Name: "min", Params: []ast.Type{ast.Int, ast.Int}, Return: &retInt},
	{Name: "min", Params: []ast.Type{ast.Float, ast.Float}, Return: &retFloat},
	{Name: "max", Params: []ast.Type{ast.Int, ast.Int}, Return: &retInt},
	{Name: "max", Params: []ast.Type{ast.Float, ast.Float}, Return: &retFloat},
}

// ByName returns every builtin overload sharing name, in table order.
func ByName(name string) []Signature {
	var out []Signature
	for _, s := range Signatures {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the signature with the exact FunctionIdentification, if
// any builtin occupies it.
func Find(id ast.FunctionID) (Signature, bool) {
	for _, s := range Signatures {
		if s.ID() == id {
			return s, true
		}
	}
	return Signature{}, false
}

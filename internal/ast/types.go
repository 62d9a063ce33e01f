// Package ast defines the document tree: the typed node representation
// for expressions, instructions, and declarations that the parser
// builds, the semantic analyzer enriches in place, and the interpreter
// walks read-only.
package ast

import (
	"fmt"

	"github.com/vela-lang/vela/pkg/position"
)

// BuiltinType enumerates Vela's four primitive types.
type BuiltinType int

const (
	TInt BuiltinType = iota
	TFloat
	TStr
	TBool
)

func (b BuiltinType) String() string {
	switch b {
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TStr:
		return "str"
	case TBool:
		return "bool"
	default:
		return "?"
	}
}

// TypeKind distinguishes the three Type variants of spec section 3.
type TypeKind int

const (
	KindBuiltin TypeKind = iota
	KindNamed
	KindInitList
)

// Type is the closed sum Builtin | Named | InitList. Equality is
// structural (see Equal); a Named type is only meaningful once the
// semantic analyzer has confirmed the name resolves to a struct or
// variant declaration.
type Type struct {
	Kind    TypeKind
	Builtin BuiltinType // valid when Kind == KindBuiltin
	Name    string      // valid when Kind == KindNamed
	List    []Type      // valid when Kind == KindInitList
}

// Int, Float, Str, and Bool are the four builtin Type values.
var (
	Int   = Type{Kind: KindBuiltin, Builtin: TInt}
	Float = Type{Kind: KindBuiltin, Builtin: TFloat}
	Str   = Type{Kind: KindBuiltin, Builtin: TStr}
	Bool  = Type{Kind: KindBuiltin, Builtin: TBool}
)

// Named builds a Type referring to a struct/variant declaration by name.
func Named(name string) Type { return Type{Kind: KindNamed, Name: name} }

// InitList builds the pseudo-type of a not-yet-resolved struct/variant
// literal expression `{ e1, e2, ... }`.
func InitList(elems []Type) Type { return Type{Kind: KindInitList, List: elems} }

// IsBuiltin reports whether t is one of the four primitive types.
func (t Type) IsBuiltin() bool { return t.Kind == KindBuiltin }

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindBuiltin:
		return t.Builtin == o.Builtin
	case KindNamed:
		return t.Name == o.Name
	case KindInitList:
		if len(t.List) != len(o.List) {
			return false
		}
		for i := range t.List {
			if !t.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the type the way it appears in source (for builtins
// and named types) or as a parenthesized list (for InitList, used only
// in diagnostics — InitList never appears in valid source).
func (t Type) String() string {
	switch t.Kind {
	case KindBuiltin:
		return t.Builtin.String()
	case KindNamed:
		return t.Name
	case KindInitList:
		s := "{"
		for i, e := range t.List {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "}"
	}
	return "?"
}

// Node is the capability every document-tree node shares: its source
// position, for error reporting and the --dump-dt contract.
type Node interface {
	Pos() position.Position
}

// base embeds into every node to provide Pos() without repeating a
// field accessor on each type.
type base struct {
	P position.Position
}

func (b base) Pos() position.Position { return b.P }

// positionString renders a position in the compact "<L:C>" form. No
// node String() method in this package calls it (the --dump-dt printer
// lives in its own package and does not use these String() methods).
func positionString(p position.Position) string {
	return fmt.Sprintf("<%d:%d>", p.Line, p.Column)
}

package ast

import (
	"strconv"
	"strings"

	"github.com/vela-lang/vela/pkg/position"
	"github.com/vela-lang/vela/pkg/token"
)

// Expr is any expression node. Ty holds the type the semantic analyzer
// stamped on the expression; it is the zero Type (Kind == KindBuiltin,
// Builtin == TInt is indistinguishable from a real int, so callers
// check Typed() before trusting Ty) until analysis runs.
type Expr interface {
	Node
	exprNode()
	String() string
}

// typed is embedded by expression nodes to carry the analyzer-assigned
// type alongside their position.
type typed struct {
	base
	Ty     Type
	hasTy  bool
}

func (t *typed) SetType(ty Type) { t.Ty = ty; t.hasTy = true }
func (t *typed) Typed() bool     { return t.hasTy }
func (t *typed) Type() Type      { return t.Ty }

// TypedExpr is satisfied by every expression node: it adds read access
// to the type the semantic analyzer stamped on it (via typed, embedded
// by every concrete node below) to the base Expr contract.
type TypedExpr interface {
	Expr
	Type() Type
	SetType(Type)
	Typed() bool
}

// IntLiteral is a parsed integer literal.
type IntLiteral struct {
	typed
	Value int32
}

func NewIntLiteral(pos position.Position, v int32) *IntLiteral {
	return &IntLiteral{typed: typed{base: base{pos}}, Value: v}
}
func (*IntLiteral) exprNode()        {}
func (n *IntLiteral) String() string { return strconv.FormatInt(int64(n.Value), 10) }

// FloatLiteral is a parsed float literal.
type FloatLiteral struct {
	typed
	Value float64
}

func NewFloatLiteral(pos position.Position, v float64) *FloatLiteral {
	return &FloatLiteral{typed: typed{base: base{pos}}, Value: v}
}
func (*FloatLiteral) exprNode()        {}
func (n *FloatLiteral) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// StringLiteral is a parsed string literal (escapes already processed).
type StringLiteral struct {
	typed
	Value string
}

func NewStringLiteral(pos position.Position, v string) *StringLiteral {
	return &StringLiteral{typed: typed{base: base{pos}}, Value: v}
}
func (*StringLiteral) exprNode() {}
func (n *StringLiteral) String() string {
	return strconv.Quote(n.Value)
}

// BoolLiteral is the `true`/`false` literal.
type BoolLiteral struct {
	typed
	Value bool
}

func NewBoolLiteral(pos position.Position, v bool) *BoolLiteral {
	return &BoolLiteral{typed: typed{base: base{pos}}, Value: v}
}
func (*BoolLiteral) exprNode() {}
func (n *BoolLiteral) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// VarRef is a bare identifier used as a value.
type VarRef struct {
	typed
	Name string
}

func NewVarRef(pos position.Position, name string) *VarRef {
	return &VarRef{typed: typed{base: base{pos}}, Name: name}
}
func (*VarRef) exprNode()        {}
func (n *VarRef) String() string { return n.Name }

// Binary is any of the 20+ binary operators from spec section 3/4.3.
type Binary struct {
	typed
	Op          token.Type
	Left, Right Expr
}

func NewBinary(pos position.Position, op token.Type, l, r Expr) *Binary {
	return &Binary{typed: typed{base: base{pos}}, Op: op, Left: l, Right: r}
}
func (*Binary) exprNode() {}
func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

// Unary is prefix `-` or `not`.
type Unary struct {
	typed
	Op      token.Type
	Operand Expr
}

func NewUnary(pos position.Position, op token.Type, operand Expr) *Unary {
	return &Unary{typed: typed{base: base{pos}}, Op: op, Operand: operand}
}
func (*Unary) exprNode() {}
func (n *Unary) String() string {
	if n.Op == token.NOT {
		return "(not " + n.Operand.String() + ")"
	}
	return "(-" + n.Operand.String() + ")"
}

// IsExpr is the postfix `operand is Type` variant-tag test.
type IsExpr struct {
	typed
	Operand Expr
	Target  Type
}

func NewIsExpr(pos position.Position, operand Expr, target Type) *IsExpr {
	return &IsExpr{typed: typed{base: base{pos}}, Operand: operand, Target: target}
}
func (*IsExpr) exprNode() {}
func (n *IsExpr) String() string {
	return "(" + n.Operand.String() + " is " + n.Target.String() + ")"
}

// CallExpr is `name(args...)`. Until semantic analysis resolves it, it
// may denote a function call, a struct construction, or a variant
// construction — all three share this one syntactic shape.
type CallExpr struct {
	typed
	Name string
	Args []Expr

	// Resolved is filled in by the analyzer: "function", "struct", or
	// "variant", disambiguating how the interpreter should evaluate it.
	Resolved string
}

func NewCallExpr(pos position.Position, name string, args []Expr) *CallExpr {
	return &CallExpr{typed: typed{base: base{pos}}, Name: name, Args: args}
}
func (*CallExpr) exprNode() {}
func (n *CallExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ", ") + ")"
}

// IndexExpr is the subscript `target[index]`.
type IndexExpr struct {
	typed
	Target, Index Expr
}

func NewIndexExpr(pos position.Position, target, index Expr) *IndexExpr {
	return &IndexExpr{typed: typed{base: base{pos}}, Target: target, Index: index}
}
func (*IndexExpr) exprNode() {}
func (n *IndexExpr) String() string {
	return n.Target.String() + "[" + n.Index.String() + "]"
}

// DotExpr is the field-access postfix `target.field`.
type DotExpr struct {
	typed
	Target Expr
	Field  string
}

func NewDotExpr(pos position.Position, target Expr, field string) *DotExpr {
	return &DotExpr{typed: typed{base: base{pos}}, Target: target, Field: field}
}
func (*DotExpr) exprNode() {}
func (n *DotExpr) String() string {
	return n.Target.String() + "." + n.Field
}

// InitListExpr is a struct/variant literal `{ e1, e2, ... }` prior to
// the analyzer binding it to a concrete struct or variant name.
type InitListExpr struct {
	typed
	Elements []Expr

	// ResolvedName is filled in by the analyzer once it determines
	// which struct or variant this literal constructs.
	ResolvedName string
}

func NewInitListExpr(pos position.Position, elems []Expr) *InitListExpr {
	return &InitListExpr{typed: typed{base: base{pos}}, Elements: elems}
}
func (*InitListExpr) exprNode() {}
func (n *InitListExpr) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CastExpr is never produced by the parser — the analyzer inserts it
// wherever an implicit or explicit conversion is required, per spec
// section 4.5's "make runtime evaluation type-monomorphic" rule.
type CastExpr struct {
	typed
	Target  Type
	Operand Expr
}

func NewCastExpr(pos position.Position, target Type, operand Expr) *CastExpr {
	c := &CastExpr{typed: typed{base: base{pos}}, Target: target, Operand: operand}
	c.SetType(target)
	return c
}
func (*CastExpr) exprNode() {}
func (n *CastExpr) String() string {
	return n.Target.String() + "(" + n.Operand.String() + ")"
}

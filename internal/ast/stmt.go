package ast

import (
	"strings"

	"github.com/vela-lang/vela/pkg/position"
)

// Stmt is any instruction (statement) node.
type Stmt interface {
	Node
	stmtNode()
	String() string
}

func blockString(body []Stmt) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range body {
		sb.WriteString(indent(s.String()))
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// Assignable is a dotted l-value chain `name.field.field...`.
type Assignable struct {
	base
	Name   string
	Fields []string
}

func NewAssignable(pos position.Position, name string, fields []string) *Assignable {
	return &Assignable{base: base{pos}, Name: name, Fields: fields}
}
func (a *Assignable) String() string {
	if len(a.Fields) == 0 {
		return a.Name
	}
	return a.Name + "." + strings.Join(a.Fields, ".")
}

// VarDecl declares a local variable, with an optional mutability flag
// and a mandatory initializer expression.
type VarDecl struct {
	base
	Type    Type
	Mutable bool
	Name    string
	Init    Expr
}

func NewVarDecl(pos position.Position, ty Type, mutable bool, name string, init Expr) *VarDecl {
	return &VarDecl{base: base{pos}, Type: ty, Mutable: mutable, Name: name, Init: init}
}

func (*VarDecl) stmtNode() {}
func (n *VarDecl) String() string {
	mut := ""
	if n.Mutable {
		mut = "$"
	}
	return n.Type.String() + " " + mut + n.Name + " = " + n.Init.String() + ";"
}

// Assign writes to a possibly-dotted l-value.
type Assign struct {
	base
	Target *Assignable
	Value  Expr
}

func NewAssign(pos position.Position, target *Assignable, value Expr) *Assign {
	return &Assign{base: base{pos}, Target: target, Value: value}
}

func (*Assign) stmtNode() {}
func (n *Assign) String() string {
	return n.Target.String() + " = " + n.Value.String() + ";"
}

// CallStmt is a function-call instruction (the call's result is
// discarded).
type CallStmt struct {
	base
	Call *CallExpr
}

func NewCallStmt(pos position.Position, call *CallExpr) *CallStmt {
	return &CallStmt{base: base{pos}, Call: call}
}

func (*CallStmt) stmtNode() {}
func (n *CallStmt) String() string { return n.Call.String() + ";" }

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	base
	Value Expr // nil when bare `return;`
}

func NewReturnStmt(pos position.Position, value Expr) *ReturnStmt {
	return &ReturnStmt{base: base{pos}, Value: value}
}

func (*ReturnStmt) stmtNode() {}
func (n *ReturnStmt) String() string {
	if n.Value == nil {
		return "return;"
	}
	return "return " + n.Value.String() + ";"
}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ base }

func NewContinueStmt(pos position.Position) *ContinueStmt { return &ContinueStmt{base{pos}} }

func (*ContinueStmt) stmtNode()        {}
func (n *ContinueStmt) String() string { return "continue;" }

// BreakStmt is `break;`.
type BreakStmt struct{ base }

func NewBreakStmt(pos position.Position) *BreakStmt { return &BreakStmt{base{pos}} }

func (*BreakStmt) stmtNode()        {}
func (n *BreakStmt) String() string { return "break;" }

// Cond is an `if`/`while` condition: either a plain boolean expression
// or a declaration-condition `Type name = expr` that narrows a variant.
type Cond struct {
	// Expr form.
	Expr Expr

	// Declaration-condition form (Expr is nil when this is set).
	IsDecl  bool
	Type    Type
	Mutable bool
	Name    string
	Value   Expr
}

func (c Cond) String() string {
	if c.IsDecl {
		mut := ""
		if c.Mutable {
			mut = "$"
		}
		return c.Type.String() + " " + mut + c.Name + " = " + c.Value.String()
	}
	return c.Expr.String()
}

// IfBranch is one `if`/`elif` arm.
type IfBranch struct {
	Cond Cond
	Body []Stmt
}

// IfStmt is the full `if { elif }* [else]` chain.
type IfStmt struct {
	base
	Branches []IfBranch
	Else     []Stmt // nil when there is no else block
}

func NewIfStmt(pos position.Position, branches []IfBranch, elseBody []Stmt) *IfStmt {
	return &IfStmt{base: base{pos}, Branches: branches, Else: elseBody}
}

func (*IfStmt) stmtNode() {}
func (n *IfStmt) String() string {
	var sb strings.Builder
	for i, br := range n.Branches {
		if i == 0 {
			sb.WriteString("if (")
		} else {
			sb.WriteString(" elif (")
		}
		sb.WriteString(br.Cond.String())
		sb.WriteString(") ")
		sb.WriteString(blockString(br.Body))
	}
	if n.Else != nil {
		sb.WriteString(" else ")
		sb.WriteString(blockString(n.Else))
	}
	return sb.String()
}

// WhileStmt is `while (cond) { ... }`.
type WhileStmt struct {
	base
	Cond Cond
	Body []Stmt
}

func NewWhileStmt(pos position.Position, cond Cond, body []Stmt) *WhileStmt {
	return &WhileStmt{base: base{pos}, Cond: cond, Body: body}
}

func (*WhileStmt) stmtNode() {}
func (n *WhileStmt) String() string {
	return "while (" + n.Cond.String() + ") " + blockString(n.Body)
}

// DoWhileStmt is `do { ... } while (expr);`.
type DoWhileStmt struct {
	base
	Body []Stmt
	Cond Expr
}

func NewDoWhileStmt(pos position.Position, body []Stmt, cond Expr) *DoWhileStmt {
	return &DoWhileStmt{base: base{pos}, Body: body, Cond: cond}
}

func (*DoWhileStmt) stmtNode() {}
func (n *DoWhileStmt) String() string {
	return "do " + blockString(n.Body) + " while (" + n.Cond.String() + ");"
}

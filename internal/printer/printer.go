// Package printer implements the --dump-dt document-tree dump from
// spec section 6: a stable, tested-byte-for-byte tree rendering of the
// merged, analyzed Program, using the same `|-`/`` `- `` connector
// style a directory-tree or compiler AST dumper would.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/pkg/position"
	"github.com/vela-lang/vela/pkg/token"
)

// Dump writes prog's document tree to w in the fixed section order
// Includes/Structs/Variants/Functions, omitting any section that is
// empty.
func Dump(prog *ast.Program, w io.Writer) {
	p := &printer{w: w}
	var sections []func()
	if len(prog.Includes) > 0 {
		sections = append(sections, func() { p.includes(prog.Includes) })
	}
	if len(prog.Structs) > 0 {
		sections = append(sections, func() { p.structs(prog.Structs) })
	}
	if len(prog.Variants) > 0 {
		sections = append(sections, func() { p.variants(prog.Variants) })
	}
	if len(prog.Functions) > 0 {
		sections = append(sections, func() { p.functions(prog.Functions) })
	}
	for i := range sections {
		sections[i]()
	}
}

// node is one line of the dump plus its children, built bottom-up by
// the per-kind rendering functions below before the printer walks it
// with connector prefixes.
type node struct {
	line     string
	children []node
}

type printer struct{ w io.Writer }

// walk prints n and recurses into its children, using `|-` for every
// sibling but the last and `` `- `` for the last, continuing the
// column with `|  ` or `   ` beneath it.
func (p *printer) walk(n node, prefix string, last bool) {
	connector := "|- "
	cont := "|  "
	if last {
		connector = "`- "
		cont = "   "
	}
	fmt.Fprintln(p.w, prefix+connector+n.line)
	for i, c := range n.children {
		p.walk(c, prefix+cont, i == len(n.children)-1)
	}
}

func (p *printer) section(title string, nodes []node) {
	fmt.Fprintln(p.w, title)
	for i, n := range nodes {
		p.walk(n, "", i == len(nodes)-1)
	}
}

func (p *printer) includes(incs []*ast.IncludeDecl) {
	nodes := make([]node, len(incs))
	for i, inc := range incs {
		nodes[i] = node{line: header("Include", inc.Pos(), "source="+inc.Path)}
	}
	p.section("Includes:", nodes)
}

func (p *printer) structs(structs []*ast.StructDecl) {
	nodes := make([]node, len(structs))
	for i, s := range structs {
		nodes[i] = node{line: header("Struct", s.Pos(), "name="+s.Name), children: fieldNodes(s.Fields)}
	}
	p.section("Structs:", nodes)
}

func (p *printer) variants(variants []*ast.VariantDecl) {
	nodes := make([]node, len(variants))
	for i, v := range variants {
		nodes[i] = node{line: header("Variant", v.Pos(), "name="+v.Name), children: fieldNodes(v.Fields)}
	}
	p.section("Variants:", nodes)
}

func fieldNodes(fields []ast.Field) []node {
	nodes := make([]node, len(fields))
	for i, f := range fields {
		nodes[i] = node{line: header("Field", f.Pos, "type="+f.Type.String(), "field="+f.Name)}
	}
	return nodes
}

func (p *printer) functions(funcs []*ast.FuncDecl) {
	nodes := make([]node, len(funcs))
	for i, f := range funcs {
		retType := "void"
		if f.ReturnType != nil {
			retType = f.ReturnType.String()
		}
		var children []node
		for _, param := range f.Params {
			children = append(children, node{line: header("Param", param.Pos,
				"type="+param.Type.String(), "name="+param.Name, "mutable="+boolAttr(param.Mutable))})
		}
		children = append(children, stmtNodes(f.Body)...)
		nodes[i] = node{line: header("Function", f.Pos(), "functionName="+f.Name, "type="+retType), children: children}
	}
	p.section("Functions:", nodes)
}

func stmtNodes(body []ast.Stmt) []node {
	nodes := make([]node, len(body))
	for i, s := range body {
		nodes[i] = stmtNode(s)
	}
	return nodes
}

func stmtNode(s ast.Stmt) node {
	switch n := s.(type) {
	case *ast.VarDecl:
		return node{
			line:     header("VarDecl", n.Pos(), "type="+n.Type.String(), "name="+n.Name, "mutable="+boolAttr(n.Mutable)),
			children: []node{exprNode(n.Init)},
		}
	case *ast.Assign:
		return node{line: header("Assign", n.Pos()), children: []node{assignableNode(n.Target), exprNode(n.Value)}}
	case *ast.CallStmt:
		return node{line: header("CallStmt", n.Pos()), children: []node{exprNode(n.Call)}}
	case *ast.ReturnStmt:
		var children []node
		if n.Value != nil {
			children = []node{exprNode(n.Value)}
		}
		return node{line: header("Return", n.Pos()), children: children}
	case *ast.ContinueStmt:
		return node{line: header("Continue", n.Pos())}
	case *ast.BreakStmt:
		return node{line: header("Break", n.Pos())}
	case *ast.IfStmt:
		return ifNode(n)
	case *ast.WhileStmt:
		children := append([]node{condNode(n.Cond)}, stmtNodes(n.Body)...)
		return node{line: header("While", n.Pos()), children: children}
	case *ast.DoWhileStmt:
		children := append(stmtNodes(n.Body), exprNode(n.Cond))
		return node{line: header("DoWhile", n.Pos()), children: children}
	}
	return node{line: fmt.Sprintf("Unknown<%T>", s)}
}

func ifNode(n *ast.IfStmt) node {
	var children []node
	for i, br := range n.Branches {
		label := "Branch"
		if i > 0 {
			label = "Elif"
		}
		brChildren := append([]node{condNode(br.Cond)}, stmtNodes(br.Body)...)
		children = append(children, node{line: label, children: brChildren})
	}
	if n.Else != nil {
		children = append(children, node{line: "Else", children: stmtNodes(n.Else)})
	}
	return node{line: header("If", n.Pos()), children: children}
}

// condNode renders an if/while condition: a plain expression, or a
// declaration-condition's narrowing shape.
func condNode(c ast.Cond) node {
	if !c.IsDecl {
		return exprNode(c.Expr)
	}
	return node{
		line:     header("Cond", c.Value.Pos(), "type="+c.Type.String(), "name="+c.Name, "mutable="+boolAttr(c.Mutable)),
		children: []node{exprNode(c.Value)},
	}
}

func exprNode(e ast.Expr) node {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return node{line: header("Literal", n.Pos(), "type=int", "value="+n.String())}
	case *ast.FloatLiteral:
		return node{line: header("Literal", n.Pos(), "type=float", "value="+n.String())}
	case *ast.StringLiteral:
		return node{line: header("Literal", n.Pos(), "type=str", "value="+n.String())}
	case *ast.BoolLiteral:
		return node{line: header("Literal", n.Pos(), "type=bool", "value="+n.String())}
	case *ast.VarRef:
		return node{line: header("VarRef", n.Pos(), "name="+n.Name)}
	case *ast.Binary:
		return node{line: header(binaryKind(n.Op), n.Pos()), children: []node{exprNode(n.Left), exprNode(n.Right)}}
	case *ast.Unary:
		return node{line: header(unaryKind(n.Op), n.Pos()), children: []node{exprNode(n.Operand)}}
	case *ast.IsExpr:
		return node{line: header("Is", n.Pos(), "type="+n.Target.String()), children: []node{exprNode(n.Operand)}}
	case *ast.CallExpr:
		children := make([]node, len(n.Args))
		for i, a := range n.Args {
			children[i] = exprNode(a)
		}
		return node{line: header("Call", n.Pos(), "functionName="+n.Name), children: children}
	case *ast.IndexExpr:
		return node{line: header("Index", n.Pos()), children: []node{exprNode(n.Target), exprNode(n.Index)}}
	case *ast.DotExpr:
		return node{line: header("Dot", n.Pos(), "field="+n.Field), children: []node{exprNode(n.Target)}}
	case *ast.InitListExpr:
		children := make([]node, len(n.Elements))
		for i, el := range n.Elements {
			children[i] = exprNode(el)
		}
		return node{line: header("InitList", n.Pos(), "name="+n.ResolvedName), children: children}
	case *ast.CastExpr:
		return node{line: header("Cast", n.Pos(), "type="+n.Target.String()), children: []node{exprNode(n.Operand)}}
	}
	return node{line: fmt.Sprintf("Unknown<%T>", e)}
}

// assignableNode renders a dotted l-value chain `name.field.field...` as
// the nested right= links the original document tree uses: the base
// name is the innermost node, and each further dotted segment wraps it
// as a parent carrying that segment's own right= attribute.
func assignableNode(target *ast.Assignable) node {
	n := node{line: header("Assignable", target.Pos(), "right="+target.Name)}
	for _, field := range target.Fields {
		n = node{line: header("Assignable", target.Pos(), "right="+field), children: []node{n}}
	}
	return n
}

// binaryKind names a Binary node the way the document tree names one
// expression class per operator, rather than carrying the operator as
// an attribute.
func binaryKind(op token.Type) string {
	switch op {
	case token.IS:
		return "IsExpression"
	case token.OR:
		return "OrExpression"
	case token.XOR:
		return "XorExpression"
	case token.AND:
		return "AndExpression"
	case token.EQ:
		return "EqualExpression"
	case token.NEQ:
		return "NotEqualExpression"
	case token.SAME:
		return "IdenticalExpression"
	case token.NSAME:
		return "NotIdenticalExpression"
	case token.BANG:
		return "ConcatExpression"
	case token.AT:
		return "StringMultiplyExpression"
	case token.GT:
		return "GreaterExpression"
	case token.LT:
		return "LesserExpression"
	case token.GE:
		return "GreaterEqualExpression"
	case token.LE:
		return "LesserEqualExpression"
	case token.PLUS:
		return "PlusExpression"
	case token.MINUS:
		return "MinusExpression"
	case token.STAR:
		return "MultiplyExpression"
	case token.SLASH:
		return "DivideExpression"
	case token.IDIV:
		return "FloorDivideExpression"
	case token.PCT:
		return "ModuloExpression"
	case token.POW:
		return "ExponentExpression"
	}
	return "BinaryExpression"
}

// unaryKind names a Unary node the way the document tree distinguishes
// UnaryMinusExpression from NotExpression.
func unaryKind(op token.Type) string {
	if op == token.NOT {
		return "NotExpression"
	}
	return "UnaryMinusExpression"
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func header(kind string, pos position.Position, attrs ...string) string {
	var sb strings.Builder
	sb.WriteString(kind)
	sb.WriteString(posTag(pos))
	for _, a := range attrs {
		sb.WriteString(" ")
		sb.WriteString(a)
	}
	return sb.String()
}

// posTag renders the `<line: L, col: C>` location tag spec section 6's
// document-tree contract fixes for every node.
func posTag(pos position.Position) string {
	return fmt.Sprintf("<line: %d, col: %d>", pos.Line, pos.Column)
}

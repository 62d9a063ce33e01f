package semantic

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/builtin"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/pkg/token"
)

// chainIndex places a builtin type on the BOOL < INT < FLOAT < STR
// promotion chain from spec 4.5 step 8.
func chainIndex(b ast.BuiltinType) int {
	switch b {
	case ast.TBool:
		return 0
	case ast.TInt:
		return 1
	case ast.TFloat:
		return 2
	default: // ast.TStr
		return 3
	}
}

// wider returns whichever of a, b sits further along the promotion
// chain.
func wider(a, b ast.Type) ast.Type {
	if chainIndex(a.Builtin) >= chainIndex(b.Builtin) {
		return a
	}
	return b
}

func exprType(e ast.Expr) ast.Type {
	return e.(ast.TypedExpr).Type()
}

// castTo wraps e in a CastExpr targeting t, unless e is already typed
// t — avoiding a no-op CastExpression in the tree.
func castTo(e ast.Expr, t ast.Type) ast.Expr {
	if exprType(e).Equal(t) {
		return e
	}
	return ast.NewCastExpr(e.Pos(), t, e)
}

// accepts reports whether an argument of type arg may occupy a
// parameter of type param, possibly via an implicit cast: any builtin
// accepts any builtin (every primitive is explicitly constructible
// from every other, per spec 4.5's conversion rules); a variant
// parameter accepts its own type, or a builtin that equals exactly one
// of its field types (the implicit-wrap rule).
func (a *Analyzer) accepts(param, arg ast.Type) bool {
	if param.Equal(arg) {
		return true
	}
	if param.IsBuiltin() && arg.IsBuiltin() {
		return true
	}
	if param.Kind == ast.KindNamed {
		if v := a.findVariant(param.Name); v != nil && arg.IsBuiltin() {
			return uniqueVariantField(v, arg) != nil
		}
	}
	return false
}

// distance scores how far arg is from param under the overload
// resolution metric of spec 4.5.9: 0 for identity, 1 for an
// identical-typed variant wrap, otherwise the promotion-chain
// separation between two builtins.
func (a *Analyzer) distance(param, arg ast.Type) int {
	if param.Equal(arg) {
		return 0
	}
	if param.Kind == ast.KindNamed {
		return 1 // variant-wrap match; accepts() already confirmed it's legal
	}
	return absInt(chainIndex(param.Builtin) - chainIndex(arg.Builtin))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// candidate unifies a user-declared function and a builtin signature
// behind one shape so overload resolution can rank them together.
type candidate struct {
	id     ast.FunctionID
	params []ast.Type
}

func candidatesFor(prog *ast.Program, name string) []candidate {
	var out []candidate
	for _, f := range prog.FindFunctionsByName(name) {
		out = append(out, candidate{id: f.ID(), params: f.ParamTypes()})
	}
	for _, s := range builtin.ByName(name) {
		out = append(out, candidate{id: s.ID(), params: s.Params})
	}
	return out
}

// resolveOverload implements spec 4.5 steps 7 (function call) and 9
// (ranking): filter to candidates whose arity matches and whose every
// parameter accepts the corresponding argument type, then pick the
// unique minimum-distance candidate.
func (a *Analyzer) resolveOverload(candidates []candidate, argTypes []ast.Type, pos ast.Node, name string) (candidate, error) {
	var best candidate
	bestScore := -1
	tie := false
	for _, c := range candidates {
		if len(c.params) != len(argTypes) {
			continue
		}
		ok := true
		score := 0
		for i, p := range c.params {
			if !a.accepts(p, argTypes[i]) {
				ok = false
				break
			}
			score += a.distance(p, argTypes[i])
		}
		if !ok {
			continue
		}
		switch {
		case bestScore == -1 || score < bestScore:
			best, bestScore, tie = c, score, false
		case score == bestScore:
			tie = true
		}
	}
	if bestScore == -1 {
		return candidate{}, diag.New(diag.InvalidFunctionCall, pos.Pos(), a.file, "No overload of %s accepts the given arguments", name)
	}
	if tie {
		return candidate{}, diag.New(diag.AmbiguousFunctionCall, pos.Pos(), a.file, "Call to %s is ambiguous", name)
	}
	return best, nil
}

// typeCall resolves a CallExpr's Name against functions/builtins,
// struct constructors, and variant constructors in that priority order
// (validateNamespace already forbids a name spanning more than one
// category, so at most one of the three ever applies).
func (a *Analyzer) typeCall(ctx *funcCtx, call *ast.CallExpr) (ast.Expr, error) {
	argTypes := make([]ast.Type, len(call.Args))
	for i, arg := range call.Args {
		typed, err := a.typeExpr(ctx, arg, nil)
		if err != nil {
			return nil, err
		}
		call.Args[i] = typed
		argTypes[i] = exprType(typed)
	}

	if cands := candidatesFor(a.prog, call.Name); len(cands) > 0 {
		won, err := a.resolveOverload(cands, argTypes, call, call.Name)
		if err != nil {
			return nil, err
		}
		for i, p := range won.params {
			call.Args[i] = castTo(call.Args[i], p)
		}
		call.Resolved = "function"
		if ret := a.returnTypeOf(won.id); ret != nil {
			call.SetType(*ret)
		}
		return call, nil
	}

	if s := a.findStruct(call.Name); s != nil {
		if len(s.Fields) != len(call.Args) {
			return nil, diag.New(diag.InvalidFunctionCall, call.Pos(), a.file, "Struct %s takes %d fields, got %d", s.Name, len(s.Fields), len(call.Args))
		}
		for i, f := range s.Fields {
			if !a.accepts(f.Type, argTypes[i]) {
				return nil, diag.New(diag.InvalidFunctionCall, call.Args[i].Pos(), a.file, "Field %s of struct %s expects %s, got %s", f.Name, s.Name, f.Type.String(), argTypes[i].String())
			}
			call.Args[i] = castTo(call.Args[i], f.Type)
		}
		call.Resolved = "struct"
		call.SetType(ast.Named(s.Name))
		return call, nil
	}

	if v := a.findVariant(call.Name); v != nil {
		if len(call.Args) != 1 {
			return nil, diag.New(diag.InvalidFunctionCall, call.Pos(), a.file, "Variant constructor %s takes exactly one argument", v.Name)
		}
		fieldTypes := make([]ast.Type, len(v.Fields))
		for i, f := range v.Fields {
			fieldTypes[i] = f.Type
		}
		cands := []candidate{}
		for _, ft := range fieldTypes {
			cands = append(cands, candidate{id: ast.NewFunctionID(v.Name, []ast.Type{ft}), params: []ast.Type{ft}})
		}
		won, err := a.resolveOverload(cands, argTypes, call, v.Name)
		if err != nil {
			return nil, err
		}
		call.Args[0] = castTo(call.Args[0], won.params[0])
		call.Resolved = "variant"
		call.SetType(ast.Named(v.Name))
		return call, nil
	}

	return nil, diag.New(diag.InvalidFunctionCall, call.Pos(), a.file, "%s is not a declared function, struct, or variant", call.Name)
}

// returnTypeOf looks up id's declared return type, preferring a user
// function over a builtin of the same identification. The include
// resolver's duplicate checks compare user declarations only, so a
// user function may share a builtin's identification; a call to it
// then ties in resolveOverload and is reported as ambiguous.
func (a *Analyzer) returnTypeOf(id ast.FunctionID) *ast.Type {
	if f := a.prog.FindFunction(id); f != nil {
		return f.ReturnType
	}
	if s, ok := builtin.Find(id); ok {
		return s.Return
	}
	return nil
}

// typeExpr stamps e (and every subexpression) with its analyzed type,
// inserting CastExpr nodes wherever spec 4.5 step 8's conversion rules
// require one. expected carries the target type of the surrounding
// context (a var-decl's declared type, a return statement's function
// return type, an assignment's target type) for the one expression
// shape that cannot type itself in isolation: InitListExpr.
func (a *Analyzer) typeExpr(ctx *funcCtx, e ast.Expr, expected *ast.Type) (ast.Expr, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		n.SetType(ast.Int)
		return n, nil
	case *ast.FloatLiteral:
		n.SetType(ast.Float)
		return n, nil
	case *ast.StringLiteral:
		n.SetType(ast.Str)
		return n, nil
	case *ast.BoolLiteral:
		n.SetType(ast.Bool)
		return n, nil
	case *ast.VarRef:
		b, ok := ctx.lookup(n.Name)
		if !ok {
			return nil, diag.New(diag.UnknownVariable, n.Pos(), a.file, "Unknown variable %s", n.Name)
		}
		n.SetType(b.typ)
		return n, nil
	case *ast.Unary:
		return a.typeUnary(ctx, n)
	case *ast.Binary:
		return a.typeBinary(ctx, n)
	case *ast.IsExpr:
		return a.typeIs(ctx, n)
	case *ast.IndexExpr:
		return a.typeIndex(ctx, n)
	case *ast.DotExpr:
		return a.typeDot(ctx, n)
	case *ast.CallExpr:
		return a.typeCall(ctx, n)
	case *ast.InitListExpr:
		return a.typeInitList(ctx, n, expected)
	case *ast.CastExpr:
		// Never produced by the parser; analysis does not re-visit its
		// own output.
		return n, nil
	default:
		return nil, diag.New(diag.SyntaxError, e.Pos(), a.file, "Unsupported expression")
	}
}

// equalityTarget picks the common type two operands of == / != cast
// to: the broader of the two along BOOL < INT < FLOAT < STR. When
// either side is a named type there is no widening: the target is the
// left operand's type, so the right operand is cast to it only when
// the two types differ.
func (a *Analyzer) equalityTarget(lt, rt ast.Type) ast.Type {
	if !lt.IsBuiltin() || !rt.IsBuiltin() {
		return lt
	}
	return wider(lt, rt)
}

// numericTarget picks the common type for an arithmetic or ordering
// operator's two operands: the wider of two numeric (BOOL/INT/FLOAT)
// operands, or — when one side is STR — whatever the other side's
// numeric type is (STR is parsed into it). Two STR operands default to
// INT; spec 4.5 step 8 does not otherwise say which numeric type two
// bare strings promote to.
func (a *Analyzer) numericTarget(lt, rt ast.Type) ast.Type {
	isNumeric := func(t ast.Type) bool { return t.IsBuiltin() && t.Builtin != ast.TStr }
	switch {
	case isNumeric(lt) && isNumeric(rt):
		return wider(lt, rt)
	case isNumeric(lt):
		return lt
	case isNumeric(rt):
		return rt
	default:
		return ast.Int
	}
}

func (a *Analyzer) typeBinary(ctx *funcCtx, n *ast.Binary) (ast.Expr, error) {
	left, err := a.typeExpr(ctx, n.Left, nil)
	if err != nil {
		return nil, err
	}
	right, err := a.typeExpr(ctx, n.Right, nil)
	if err != nil {
		return nil, err
	}
	lt, rt := exprType(left), exprType(right)

	switch n.Op {
	case token.OR, token.XOR, token.AND:
		n.Left = castTo(left, ast.Bool)
		n.Right = castTo(right, ast.Bool)
		n.SetType(ast.Bool)
		return n, nil
	case token.EQ, token.NEQ:
		target := a.equalityTarget(lt, rt)
		n.Left = castTo(left, target)
		n.Right = castTo(right, target)
		n.SetType(ast.Bool)
		return n, nil
	case token.SAME, token.NSAME:
		if !lt.Equal(rt) {
			return nil, diag.New(diag.InvalidOperatorArgs, n.Pos(), a.file, "=== and !== require operands of the same type, got %s and %s", lt.String(), rt.String())
		}
		n.Left, n.Right = left, right
		n.SetType(ast.Bool)
		return n, nil
	case token.GT, token.LT, token.GE, token.LE:
		if lt.IsBuiltin() && rt.IsBuiltin() && lt.Builtin == ast.TStr && rt.Builtin == ast.TStr {
			n.Left, n.Right = left, right
		} else {
			target := a.numericTarget(lt, rt)
			n.Left = castTo(left, target)
			n.Right = castTo(right, target)
		}
		n.SetType(ast.Bool)
		return n, nil
	case token.BANG:
		n.Left = castTo(left, ast.Str)
		n.Right = castTo(right, ast.Str)
		n.SetType(ast.Str)
		return n, nil
	case token.AT:
		n.Left = castTo(left, ast.Str)
		n.Right = castTo(right, ast.Int)
		n.SetType(ast.Str)
		return n, nil
	default: // + - * / // % **
		target := a.numericTarget(lt, rt)
		if target.Builtin == ast.TInt && (n.Op == token.SLASH || n.Op == token.POW) {
			target = ast.Float
		}
		n.Left = castTo(left, target)
		n.Right = castTo(right, target)
		n.SetType(target)
		return n, nil
	}
}

func (a *Analyzer) typeUnary(ctx *funcCtx, n *ast.Unary) (ast.Expr, error) {
	operand, err := a.typeExpr(ctx, n.Operand, nil)
	if err != nil {
		return nil, err
	}
	if n.Op == token.NOT {
		operand = castTo(operand, ast.Bool)
		n.Operand = operand
		n.SetType(ast.Bool)
		return n, nil
	}
	t := exprType(operand)
	if !t.IsBuiltin() || t.Builtin == ast.TStr {
		target := ast.Int
		if t.Builtin == ast.TFloat {
			target = ast.Float
		}
		operand = castTo(operand, target)
		t = target
	}
	n.Operand = operand
	n.SetType(t)
	return n, nil
}

func (a *Analyzer) typeIs(ctx *funcCtx, n *ast.IsExpr) (ast.Expr, error) {
	operand, err := a.typeExpr(ctx, n.Operand, nil)
	if err != nil {
		return nil, err
	}
	if exprType(operand).Kind != ast.KindNamed || a.findVariant(exprType(operand).Name) == nil {
		return nil, diag.New(diag.InvalidOperatorArgs, n.Pos(), a.file, "'is' requires a variant operand")
	}
	n.Operand = operand
	n.SetType(ast.Bool)
	return n, nil
}

func (a *Analyzer) typeIndex(ctx *funcCtx, n *ast.IndexExpr) (ast.Expr, error) {
	target, err := a.typeExpr(ctx, n.Target, nil)
	if err != nil {
		return nil, err
	}
	index, err := a.typeExpr(ctx, n.Index, nil)
	if err != nil {
		return nil, err
	}
	n.Target = castTo(target, ast.Str)
	n.Index = castTo(index, ast.Int)
	n.SetType(ast.Str)
	return n, nil
}

func (a *Analyzer) typeDot(ctx *funcCtx, n *ast.DotExpr) (ast.Expr, error) {
	target, err := a.typeExpr(ctx, n.Target, nil)
	if err != nil {
		return nil, err
	}
	n.Target = target
	tt := exprType(target)
	if tt.Kind != ast.KindNamed {
		return nil, diag.New(diag.FieldAccess, n.Pos(), a.file, "Cannot access field %s of a non-struct value", n.Field)
	}
	if s := a.findStruct(tt.Name); s != nil {
		for _, f := range s.Fields {
			if f.Name == n.Field {
				n.SetType(f.Type)
				return n, nil
			}
		}
		return nil, diag.New(diag.FieldAccess, n.Pos(), a.file, "Struct %s has no field %s", tt.Name, n.Field)
	}
	// A variant's field is never reached by dot access: its single
	// active field only becomes a plain, directly-typed binding through
	// declaration-condition narrowing (see analyzeCond).
	return nil, diag.New(diag.FieldAccess, n.Pos(), a.file, "Cannot access field %s of %s", n.Field, tt.String())
}

// typeInitList resolves a brace literal against the expected struct
// type from its surrounding context. A bare {…} with no surrounding
// target type, or one whose target is a variant (ambiguous — spec 4.5
// step 8 requires VariantName({…}) there instead), is rejected.
func (a *Analyzer) typeInitList(ctx *funcCtx, n *ast.InitListExpr, expected *ast.Type) (ast.Expr, error) {
	if expected == nil {
		return nil, diag.New(diag.InvalidInitList, n.Pos(), a.file, "Initializer list needs a known target type")
	}
	if expected.Kind == ast.KindNamed {
		if a.findVariant(expected.Name) != nil {
			return nil, diag.New(diag.InvalidInitList, n.Pos(), a.file, "Use %s({...}) to construct a variant, not a bare initializer list", expected.Name)
		}
	}
	s := a.findStruct(expected.Name)
	if expected.Kind != ast.KindNamed || s == nil {
		return nil, diag.New(diag.InvalidInitList, n.Pos(), a.file, "Initializer list target %s is not a struct", expected.String())
	}
	if len(s.Fields) != len(n.Elements) {
		return nil, diag.New(diag.InvalidInitList, n.Pos(), a.file, "Struct %s takes %d fields, got %d", s.Name, len(s.Fields), len(n.Elements))
	}
	for i, f := range s.Fields {
		el, err := a.typeExpr(ctx, n.Elements[i], &f.Type)
		if err != nil {
			return nil, err
		}
		if !a.accepts(f.Type, exprType(el)) {
			return nil, diag.New(diag.InvalidInitList, el.Pos(), a.file, "Field %s of struct %s expects %s, got %s", f.Name, s.Name, f.Type.String(), exprType(el).String())
		}
		n.Elements[i] = castTo(el, f.Type)
	}
	n.ResolvedName = s.Name
	n.SetType(ast.Named(s.Name))
	return n, nil
}

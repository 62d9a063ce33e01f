package semantic

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
)

// analyzeFunction types one function body top-to-bottom: it validates
// the signature, seeds a fresh scope with the parameters, and walks the
// body per spec section 4.5 step 7.
func (a *Analyzer) analyzeFunction(decl *ast.FuncDecl) error {
	for _, p := range decl.Params {
		if !a.typeExists(p.Type) {
			return diag.New(diag.UnknownFieldType, p.Pos, a.file, "Unknown type %s for parameter %s of function %s", p.Type.String(), p.Name, decl.Name)
		}
	}
	if decl.ReturnType != nil && !a.typeExists(*decl.ReturnType) {
		return diag.New(diag.UnknownFieldType, decl.Pos(), a.file, "Unknown return type %s for function %s", decl.ReturnType.String(), decl.Name)
	}

	ctx := newFuncCtx(decl)
	for _, p := range decl.Params {
		if ctx.declared(p.Name) {
			return diag.New(diag.VariableNameCollision, p.Pos, a.file, "Parameter %s of function %s is already declared", p.Name, decl.Name)
		}
		ctx.declare(p.Name, binding{typ: p.Type, mutable: p.Mutable})
	}
	return a.analyzeBlock(ctx, decl.Body)
}

func (a *Analyzer) analyzeBlock(ctx *funcCtx, body []ast.Stmt) error {
	for _, s := range body {
		if err := a.analyzeStmt(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// analyzeNestedBlock runs body in its own pushed-and-popped scope, for
// the bodies of if/else/while/do-while — anything declared inside is
// invisible once the block ends.
func (a *Analyzer) analyzeNestedBlock(ctx *funcCtx, body []ast.Stmt) error {
	ctx.push()
	defer ctx.pop()
	return a.analyzeBlock(ctx, body)
}

func (a *Analyzer) analyzeStmt(ctx *funcCtx, s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		return a.analyzeVarDecl(ctx, n)
	case *ast.Assign:
		return a.analyzeAssign(ctx, n)
	case *ast.CallStmt:
		typed, err := a.typeExpr(ctx, n.Call, nil)
		if err != nil {
			return err
		}
		n.Call = typed.(*ast.CallExpr)
		return nil
	case *ast.ReturnStmt:
		return a.analyzeReturn(ctx, n)
	case *ast.ContinueStmt:
		if ctx.loopDepth == 0 {
			return diag.New(diag.InvalidContinue, n.Pos(), a.file, "continue used outside of a loop")
		}
		return nil
	case *ast.BreakStmt:
		if ctx.loopDepth == 0 {
			return diag.New(diag.InvalidBreak, n.Pos(), a.file, "break used outside of a loop")
		}
		return nil
	case *ast.IfStmt:
		return a.analyzeIf(ctx, n)
	case *ast.WhileStmt:
		return a.analyzeWhile(ctx, n)
	case *ast.DoWhileStmt:
		return a.analyzeDoWhile(ctx, n)
	default:
		return diag.New(diag.SyntaxError, s.Pos(), a.file, "Unsupported instruction")
	}
}

func (a *Analyzer) analyzeVarDecl(ctx *funcCtx, n *ast.VarDecl) error {
	if !a.typeExists(n.Type) {
		return diag.New(diag.UnknownFieldType, n.Pos(), a.file, "Unknown type %s for variable %s", n.Type.String(), n.Name)
	}
	if ctx.declared(n.Name) {
		return diag.New(diag.VariableNameCollision, n.Pos(), a.file, "Variable %s is already declared in this scope", n.Name)
	}
	init, err := a.typeExpr(ctx, n.Init, &n.Type)
	if err != nil {
		return err
	}
	if !a.accepts(n.Type, exprType(init)) {
		return diag.New(diag.InvalidCast, n.Pos(), a.file, "Cannot initialize %s %s with a value of type %s", n.Type.String(), n.Name, exprType(init).String())
	}
	n.Init = castTo(init, n.Type)
	ctx.declare(n.Name, binding{typ: n.Type, mutable: n.Mutable})
	return nil
}

// analyzeAssign resolves the dotted l-value chain one struct field at a
// time. Only the base variable's own mutability gates the write: a
// field can never be declared mutable on its own, so writing through a
// struct always means "replace the base variable's value."
func (a *Analyzer) analyzeAssign(ctx *funcCtx, n *ast.Assign) error {
	b, ok := ctx.lookup(n.Target.Name)
	if !ok {
		return diag.New(diag.UnknownVariable, n.Pos(), a.file, "Unknown variable %s", n.Target.Name)
	}
	targetType := b.typ
	for _, field := range n.Target.Fields {
		if targetType.Kind != ast.KindNamed {
			return diag.New(diag.FieldAccess, n.Pos(), a.file, "Cannot access field %s of a value of type %s", field, targetType.String())
		}
		s := a.findStruct(targetType.Name)
		if s == nil {
			return diag.New(diag.FieldAccess, n.Pos(), a.file, "Cannot access field %s of %s", field, targetType.String())
		}
		next, found := (*ast.Type)(nil), false
		for i := range s.Fields {
			if s.Fields[i].Name == field {
				next = &s.Fields[i].Type
				found = true
				break
			}
		}
		if !found {
			return diag.New(diag.FieldAccess, n.Pos(), a.file, "Struct %s has no field %s", s.Name, field)
		}
		targetType = *next
	}
	if !b.mutable {
		return diag.New(diag.Immutable, n.Pos(), a.file, "Cannot assign to immutable variable %s", n.Target.Name)
	}
	value, err := a.typeExpr(ctx, n.Value, &targetType)
	if err != nil {
		return err
	}
	if !a.accepts(targetType, exprType(value)) {
		return diag.New(diag.InvalidCast, n.Pos(), a.file, "Cannot assign a value of type %s to %s", exprType(value).String(), targetType.String())
	}
	n.Value = castTo(value, targetType)
	return nil
}

func (a *Analyzer) analyzeReturn(ctx *funcCtx, n *ast.ReturnStmt) error {
	decl := ctx.decl
	if decl.ReturnType == nil {
		if n.Value != nil {
			return diag.New(diag.InvalidReturn, n.Pos(), a.file, "Function %s does not return a value", decl.Name)
		}
		return nil
	}
	if n.Value == nil {
		return diag.New(diag.InvalidReturn, n.Pos(), a.file, "Function %s must return a value of type %s", decl.Name, decl.ReturnType.String())
	}
	value, err := a.typeExpr(ctx, n.Value, decl.ReturnType)
	if err != nil {
		return err
	}
	if !a.accepts(*decl.ReturnType, exprType(value)) {
		return diag.New(diag.InvalidReturn, n.Pos(), a.file, "Function %s declared to return %s cannot return %s", decl.Name, decl.ReturnType.String(), exprType(value).String())
	}
	n.Value = castTo(value, *decl.ReturnType)
	return nil
}

// narrowedVar is the single binding a declaration-condition introduces,
// visible only inside the guarded branch's scope.
type narrowedVar struct {
	name    string
	binding binding
}

// analyzeCond types an if/while condition. A plain expression-condition
// must type to bool. A declaration-condition either tests bool
// truthiness directly, or narrows a variant: Value must be a declared
// variant and Type must match exactly one of its field types, and the
// returned narrowedVar binds Name to that field's type for the
// caller to declare in the guarded branch's scope only.
func (a *Analyzer) analyzeCond(ctx *funcCtx, c *ast.Cond) (*narrowedVar, error) {
	if !c.IsDecl {
		expr, err := a.typeExpr(ctx, c.Expr, &ast.Bool)
		if err != nil {
			return nil, err
		}
		if !a.accepts(ast.Bool, exprType(expr)) {
			return nil, diag.New(diag.InvalidIfCondition, c.Expr.Pos(), a.file, "Condition must be a bool, got %s", exprType(expr).String())
		}
		c.Expr = castTo(expr, ast.Bool)
		return nil, nil
	}

	value, err := a.typeExpr(ctx, c.Value, &c.Type)
	if err != nil {
		return nil, err
	}
	vt := exprType(value)

	if c.Type.Equal(ast.Bool) {
		if !a.accepts(ast.Bool, vt) {
			return nil, diag.New(diag.InvalidIfCondition, c.Value.Pos(), a.file, "Condition must be a bool, got %s", vt.String())
		}
		c.Value = castTo(value, ast.Bool)
		return &narrowedVar{name: c.Name, binding: binding{typ: ast.Bool, mutable: c.Mutable}}, nil
	}

	if vt.Kind != ast.KindNamed {
		return nil, diag.New(diag.InvalidIfCondition, c.Value.Pos(), a.file, "Declaration-condition value must be a variant, got %s", vt.String())
	}
	v := a.findVariant(vt.Name)
	if v == nil {
		return nil, diag.New(diag.InvalidIfCondition, c.Value.Pos(), a.file, "%s is not a variant", vt.Name)
	}
	if uniqueVariantField(v, c.Type) == nil {
		return nil, diag.New(diag.InvalidIfCondition, c.Value.Pos(), a.file, "Variant %s has no field of type %s", v.Name, c.Type.String())
	}
	c.Value = value
	return &narrowedVar{name: c.Name, binding: binding{typ: c.Type, mutable: c.Mutable}}, nil
}

func (a *Analyzer) analyzeIf(ctx *funcCtx, n *ast.IfStmt) error {
	for i := range n.Branches {
		br := &n.Branches[i]
		narrow, err := a.analyzeCond(ctx, &br.Cond)
		if err != nil {
			return err
		}
		ctx.push()
		if narrow != nil {
			ctx.declare(narrow.name, narrow.binding)
		}
		err = a.analyzeBlock(ctx, br.Body)
		ctx.pop()
		if err != nil {
			return err
		}
	}
	if n.Else != nil {
		if err := a.analyzeNestedBlock(ctx, n.Else); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeWhile(ctx *funcCtx, n *ast.WhileStmt) error {
	narrow, err := a.analyzeCond(ctx, &n.Cond)
	if err != nil {
		return err
	}
	ctx.push()
	if narrow != nil {
		ctx.declare(narrow.name, narrow.binding)
	}
	ctx.loopDepth++
	err = a.analyzeBlock(ctx, n.Body)
	ctx.loopDepth--
	ctx.pop()
	return err
}

// analyzeDoWhile checks the condition after the body: do-while has no
// declaration-condition form, only a plain trailing boolean expression.
func (a *Analyzer) analyzeDoWhile(ctx *funcCtx, n *ast.DoWhileStmt) error {
	ctx.push()
	ctx.loopDepth++
	err := a.analyzeBlock(ctx, n.Body)
	ctx.loopDepth--
	ctx.pop()
	if err != nil {
		return err
	}
	cond, err := a.typeExpr(ctx, n.Cond, &ast.Bool)
	if err != nil {
		return err
	}
	if !a.accepts(ast.Bool, exprType(cond)) {
		return diag.New(diag.InvalidIfCondition, n.Cond.Pos(), a.file, "do-while condition must be a bool, got %s", exprType(cond).String())
	}
	n.Cond = castTo(cond, ast.Bool)
	return nil
}

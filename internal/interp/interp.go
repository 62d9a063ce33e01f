// Package interp implements the tree-walking evaluator from spec
// section 4.7: it locates main(), drives statement execution through
// an explicit control-flow signal (return/break/continue) rather than
// the teacher's mutable exit/break/continue flags, and dispatches
// expression evaluation by node kind the same way the semantic
// analyzer's typeExpr does.
package interp

import (
	"bufio"
	"io"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/pkg/position"
)

// signal reports what, if anything, interrupted normal statement
// sequencing within the block currently executing.
type signal int

const (
	sigNone signal = iota
	sigBreak
	sigContinue
	sigReturn
)

// Interpreter holds the one merged program it executes and the state
// a running activation needs: the I/O sink pair, the program's
// argument vector, and the recursion-depth counter spec section 4.6's
// "Call stack: bounded" describes.
type Interpreter struct {
	prog     *ast.Program
	file     string
	out      io.Writer
	in       *bufio.Reader
	args     []string
	maxDepth int
	depth    int
}

// New builds an Interpreter over a merged, analyzed program. maxDepth
// is the configurable recursion limit from spec section 5 ("on the
// order of 10^3 frames" by default — callers typically pass that
// default from the CLI's --max-recursion flag).
func New(prog *ast.Program, file string, out io.Writer, in io.Reader, args []string, maxDepth int) *Interpreter {
	return &Interpreter{
		prog:     prog,
		file:     file,
		out:      out,
		in:       bufio.NewReader(in),
		args:     args,
		maxDepth: maxDepth,
	}
}

// Run locates main() and executes it with an empty argument list.
func (ip *Interpreter) Run() error {
	main := ip.prog.FindFunction(ast.NewFunctionID("main", nil))
	if main == nil {
		return diag.NewRuntime(diag.MainNotFound, position.Start, ip.file, "No main() function was found")
	}
	if main.ReturnType != nil {
		return diag.NewRuntime(diag.MainReturnType, main.Pos(), ip.file, "main() must not declare a return type")
	}
	_, err := ip.call(main, nil)
	return err
}

// argBinding is one already-resolved call argument: either a plain
// value, or — for a mutable parameter bound to an l-value argument —
// a reference into the caller's own storage.
type argBinding struct {
	value Value
	ref   addr
}

// call pushes a fresh activation, binds params, executes the body, and
// unwinds with its return value (spec section 4.6's "Activation
// record" / "Call stack").
func (ip *Interpreter) call(decl *ast.FuncDecl, args []argBinding) (Value, error) {
	ip.depth++
	if ip.depth > ip.maxDepth {
		ip.depth--
		return nil, diag.NewRuntime(diag.StackOverflow, decl.Pos(), ip.file, "Recursion limit exceeded")
	}
	defer func() { ip.depth-- }()

	e := newEnv()
	for i, p := range decl.Params {
		b := &binding{mutable: p.Mutable}
		if i < len(args) {
			if args[i].ref != nil {
				b.ref = args[i].ref
			} else {
				b.value = args[i].value
			}
		}
		e.frames[0][p.Name] = b
	}
	sig, ret, err := ip.execBlock(e, decl.Body)
	if err != nil {
		return nil, err
	}
	if sig == sigReturn {
		return ret, nil
	}
	return nil, nil
}

// evalArgs resolves each call argument: a reference when the matching
// parameter is mutable and the argument is an l-value, a value
// otherwise.
func (ip *Interpreter) evalArgs(e *env, exprs []ast.Expr, params []ast.Param) ([]argBinding, error) {
	out := make([]argBinding, len(exprs))
	for i, a := range exprs {
		if i < len(params) && params[i].Mutable {
			if ad, ok := resolveAddr(e, a); ok {
				out[i] = argBinding{ref: ad}
				continue
			}
		}
		v, err := ip.eval(e, a)
		if err != nil {
			return nil, err
		}
		out[i] = argBinding{value: v}
	}
	return out, nil
}

func (ip *Interpreter) execBlock(e *env, body []ast.Stmt) (signal, Value, error) {
	for _, s := range body {
		sig, v, err := ip.exec(e, s)
		if err != nil {
			return sigNone, nil, err
		}
		if sig != sigNone {
			return sig, v, nil
		}
	}
	return sigNone, nil, nil
}

// execScoped runs body in its own pushed-and-popped frame — the block
// scope every if/else/while/do-while body gets, mirroring the
// semantic analyzer's analyzeNestedBlock.
func (ip *Interpreter) execScoped(e *env, body []ast.Stmt) (signal, Value, error) {
	e.push()
	defer e.pop()
	return ip.execBlock(e, body)
}

func (ip *Interpreter) exec(e *env, s ast.Stmt) (signal, Value, error) {
	switch n := s.(type) {
	case *ast.VarDecl:
		v, err := ip.eval(e, n.Init)
		if err != nil {
			return sigNone, nil, err
		}
		e.declare(n.Name, v, n.Mutable)
		return sigNone, nil, nil

	case *ast.Assign:
		v, err := ip.eval(e, n.Value)
		if err != nil {
			return sigNone, nil, err
		}
		resolveAssignable(e, n.Target).set(v)
		return sigNone, nil, nil

	case *ast.CallStmt:
		_, err := ip.eval(e, n.Call)
		return sigNone, nil, err

	case *ast.ReturnStmt:
		if n.Value == nil {
			return sigReturn, nil, nil
		}
		v, err := ip.eval(e, n.Value)
		if err != nil {
			return sigNone, nil, err
		}
		return sigReturn, v, nil

	case *ast.ContinueStmt:
		return sigContinue, nil, nil

	case *ast.BreakStmt:
		return sigBreak, nil, nil

	case *ast.IfStmt:
		return ip.execIf(e, n)

	case *ast.WhileStmt:
		return ip.execWhile(e, n)

	case *ast.DoWhileStmt:
		return ip.execDoWhile(e, n)
	}
	return sigNone, nil, diag.NewRuntime(diag.OperatorArgument, s.Pos(), ip.file, "Unsupported instruction")
}

// evalCond evaluates an if/while condition, reporting whether the
// guarded block should run and, for a declaration-condition, the name
// and value to bind inside it (spec section 4.5 step 7 / section 9's
// narrowing note).
func (ip *Interpreter) evalCond(e *env, c ast.Cond) (bool, string, Value, error) {
	if !c.IsDecl {
		v, err := ip.eval(e, c.Expr)
		if err != nil {
			return false, "", nil, err
		}
		return bool(v.(BoolValue)), "", nil, nil
	}
	v, err := ip.eval(e, c.Value)
	if err != nil {
		return false, "", nil, err
	}
	if c.Type.Equal(ast.Bool) {
		return bool(v.(BoolValue)), c.Name, v, nil
	}
	vv := v.(VariantValue)
	if !vv.FieldType.Equal(c.Type) {
		return false, "", nil, nil
	}
	return true, c.Name, vv.Inner, nil
}

func (ip *Interpreter) execIf(e *env, n *ast.IfStmt) (signal, Value, error) {
	for _, br := range n.Branches {
		ok, name, val, err := ip.evalCond(e, br.Cond)
		if err != nil {
			return sigNone, nil, err
		}
		if !ok {
			continue
		}
		e.push()
		if name != "" {
			e.declare(name, val, br.Cond.Mutable)
		}
		sig, v, err := ip.execBlock(e, br.Body)
		e.pop()
		return sig, v, err
	}
	if n.Else != nil {
		return ip.execScoped(e, n.Else)
	}
	return sigNone, nil, nil
}

func (ip *Interpreter) execWhile(e *env, n *ast.WhileStmt) (signal, Value, error) {
	for {
		ok, name, val, err := ip.evalCond(e, n.Cond)
		if err != nil {
			return sigNone, nil, err
		}
		if !ok {
			return sigNone, nil, nil
		}
		e.push()
		if name != "" {
			e.declare(name, val, n.Cond.Mutable)
		}
		sig, v, err := ip.execBlock(e, n.Body)
		e.pop()
		if err != nil {
			return sigNone, nil, err
		}
		switch sig {
		case sigReturn:
			return sig, v, nil
		case sigBreak:
			return sigNone, nil, nil
		}
	}
}

func (ip *Interpreter) execDoWhile(e *env, n *ast.DoWhileStmt) (signal, Value, error) {
	for {
		sig, v, err := ip.execScoped(e, n.Body)
		if err != nil {
			return sigNone, nil, err
		}
		if sig == sigReturn {
			return sig, v, nil
		}
		if sig == sigBreak {
			return sigNone, nil, nil
		}
		cond, err := ip.eval(e, n.Cond)
		if err != nil {
			return sigNone, nil, err
		}
		if !bool(cond.(BoolValue)) {
			return sigNone, nil, nil
		}
	}
}

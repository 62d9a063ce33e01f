package interp

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/builtin"
	"github.com/vela-lang/vela/internal/diag"
)

func (ip *Interpreter) eval(e *env, expr ast.Expr) (Value, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return IntValue(n.Value), nil
	case *ast.FloatLiteral:
		return FloatValue(n.Value), nil
	case *ast.StringLiteral:
		return StrValue(n.Value), nil
	case *ast.BoolLiteral:
		return BoolValue(n.Value), nil
	case *ast.VarRef:
		b, _ := e.lookup(n.Name)
		return b.get(), nil
	case *ast.Unary:
		return ip.evalUnary(e, n)
	case *ast.Binary:
		return ip.evalBinary(e, n)
	case *ast.IsExpr:
		return ip.evalIs(e, n)
	case *ast.IndexExpr:
		return ip.evalIndex(e, n)
	case *ast.DotExpr:
		return ip.evalDot(e, n)
	case *ast.CallExpr:
		return ip.evalCall(e, n)
	case *ast.InitListExpr:
		return ip.evalInitList(e, n)
	case *ast.CastExpr:
		return ip.evalCast(e, n)
	}
	return nil, diag.NewRuntime(diag.OperatorArgument, expr.Pos(), ip.file, "Unsupported expression")
}

func (ip *Interpreter) evalIs(e *env, n *ast.IsExpr) (Value, error) {
	v, err := ip.eval(e, n.Operand)
	if err != nil {
		return nil, err
	}
	vv := v.(VariantValue)
	return BoolValue(vv.FieldType.Equal(n.Target)), nil
}

func (ip *Interpreter) evalIndex(e *env, n *ast.IndexExpr) (Value, error) {
	target, err := ip.eval(e, n.Target)
	if err != nil {
		return nil, err
	}
	index, err := ip.eval(e, n.Index)
	if err != nil {
		return nil, err
	}
	runes := []rune(string(target.(StrValue)))
	i := int(index.(IntValue))
	if i < 0 || i >= len(runes) {
		return nil, diag.NewRuntime(diag.OperatorArgument, n.Pos(), ip.file, "Index %d out of range for a string of length %d", i, len(runes))
	}
	return StrValue(string(runes[i])), nil
}

func (ip *Interpreter) evalDot(e *env, n *ast.DotExpr) (Value, error) {
	target, err := ip.eval(e, n.Target)
	if err != nil {
		return nil, err
	}
	v, _ := target.(StructValue).Get(n.Field)
	return v, nil
}

func (ip *Interpreter) evalInitList(e *env, n *ast.InitListExpr) (Value, error) {
	s := ip.prog.FindStruct(n.ResolvedName)
	values := make([]Value, len(n.Elements))
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.Name
	}
	for i, el := range n.Elements {
		v, err := ip.eval(e, el)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return StructValue{Name: s.Name, Fields: fields, Values: values}, nil
}

// evalCall dispatches a fully resolved CallExpr to a user function, a
// builtin, or a struct/variant constructor, per the three-way tag the
// analyzer stamped on Resolved.
func (ip *Interpreter) evalCall(e *env, call *ast.CallExpr) (Value, error) {
	switch call.Resolved {
	case "function":
		return ip.evalFunctionCall(e, call)
	case "struct":
		values := make([]Value, len(call.Args))
		for i, a := range call.Args {
			v, err := ip.eval(e, a)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		s := ip.prog.FindStruct(call.Name)
		fields := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = f.Name
		}
		return StructValue{Name: s.Name, Fields: fields, Values: values}, nil
	case "variant":
		v, err := ip.eval(e, call.Args[0])
		if err != nil {
			return nil, err
		}
		fieldType := call.Args[0].(ast.TypedExpr).Type()
		return VariantValue{Name: call.Name, FieldType: fieldType, Inner: v}, nil
	}
	return nil, diag.NewRuntime(diag.OperatorArgument, call.Pos(), ip.file, "Unresolved call to %s", call.Name)
}

// evalFunctionCall recomputes the winning FunctionID from each
// argument's final, already-cast static type — the same ID the
// analyzer's overload resolution settled on, since every argument was
// cast to its winning parameter's exact type during analysis. This
// lets the interpreter skip re-running overload resolution at runtime.
func (ip *Interpreter) evalFunctionCall(e *env, call *ast.CallExpr) (Value, error) {
	argTypes := make([]ast.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = a.(ast.TypedExpr).Type()
	}
	id := ast.NewFunctionID(call.Name, argTypes)

	if decl := ip.prog.FindFunction(id); decl != nil {
		args, err := ip.evalArgs(e, call.Args, decl.Params)
		if err != nil {
			return nil, err
		}
		return ip.call(decl, args)
	}

	sig, ok := builtin.Find(id)
	if !ok {
		return nil, diag.NewRuntime(diag.OperatorArgument, call.Pos(), ip.file, "No function or builtin matches %s", id.String())
	}
	values := make([]Value, len(call.Args))
	for i, a := range call.Args {
		v, err := ip.eval(e, a)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return ip.callBuiltin(call, sig, values)
}

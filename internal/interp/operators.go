package interp

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/pkg/token"
)

// valuesEqual implements both == / != (after the analyzer's common-type
// cast) and === / !== (same static type, no cast): deep structural
// equality over the closed value set.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case FloatValue:
		bv, ok := b.(FloatValue)
		return ok && av == bv
	case StrValue:
		bv, ok := b.(StrValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case StructValue:
		bv, ok := b.(StructValue)
		if !ok || av.Name != bv.Name || len(av.Values) != len(bv.Values) {
			return false
		}
		for i := range av.Values {
			if !valuesEqual(av.Values[i], bv.Values[i]) {
				return false
			}
		}
		return true
	case VariantValue:
		bv, ok := b.(VariantValue)
		return ok && av.Name == bv.Name && av.FieldType.Equal(bv.FieldType) && valuesEqual(av.Inner, bv.Inner)
	}
	return false
}

func compareOrdered(op token.Type, left, right Value) (Value, error) {
	if ls, ok := left.(StrValue); ok {
		rs := right.(StrValue)
		c := strings.Compare(string(ls), string(rs))
		return BoolValue(orderResult(op, c)), nil
	}
	var l, r float64
	switch lv := left.(type) {
	case IntValue:
		l = float64(lv)
	case FloatValue:
		l = float64(lv)
	}
	switch rv := right.(type) {
	case IntValue:
		r = float64(rv)
	case FloatValue:
		r = float64(rv)
	}
	c := 0
	switch {
	case l < r:
		c = -1
	case l > r:
		c = 1
	}
	return BoolValue(orderResult(op, c)), nil
}

func orderResult(op token.Type, c int) bool {
	switch op {
	case token.GT:
		return c > 0
	case token.LT:
		return c < 0
	case token.GE:
		return c >= 0
	default: // token.LE
		return c <= 0
	}
}

// evalBinary evaluates a fully typed Binary node. Every operand already
// carries the concrete type the analyzer cast it to, so no runtime
// coercion is needed — only the operator's own effect.
func (ip *Interpreter) evalBinary(e *env, n *ast.Binary) (Value, error) {
	left, err := ip.eval(e, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ip.eval(e, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.OR:
		return BoolValue(bool(left.(BoolValue)) || bool(right.(BoolValue))), nil
	case token.XOR:
		return BoolValue(bool(left.(BoolValue)) != bool(right.(BoolValue))), nil
	case token.AND:
		return BoolValue(bool(left.(BoolValue)) && bool(right.(BoolValue))), nil
	case token.EQ:
		return BoolValue(valuesEqual(left, right)), nil
	case token.NEQ:
		return BoolValue(!valuesEqual(left, right)), nil
	case token.SAME:
		return BoolValue(valuesEqual(left, right)), nil
	case token.NSAME:
		return BoolValue(!valuesEqual(left, right)), nil
	case token.GT, token.LT, token.GE, token.LE:
		return compareOrdered(n.Op, left, right)
	case token.BANG:
		return StrValue(string(left.(StrValue)) + string(right.(StrValue))), nil
	case token.AT:
		count := int(right.(IntValue))
		if count < 0 {
			count = 0
		}
		return StrValue(strings.Repeat(string(left.(StrValue)), count)), nil
	default:
		return ip.evalArithmetic(n, left, right)
	}
}

// evalArithmetic handles + - * / // % ** once both operands share a
// concrete numeric type (the analyzer already forced FLOAT for / and
// **, so INT/INT never reaches this function for those two ops).
func (ip *Interpreter) evalArithmetic(n *ast.Binary, left, right Value) (Value, error) {
	if lf, ok := left.(FloatValue); ok {
		rf := right.(FloatValue)
		switch n.Op {
		case token.PLUS:
			return lf + rf, nil
		case token.MINUS:
			return lf - rf, nil
		case token.STAR:
			return lf * rf, nil
		case token.SLASH:
			return lf / rf, nil
		case token.POW:
			return FloatValue(math.Pow(float64(lf), float64(rf))), nil
		}
	}
	li := left.(IntValue)
	ri := right.(IntValue)
	switch n.Op {
	case token.PLUS:
		return ip.intOverflowCheck(n, int64(li)+int64(ri))
	case token.MINUS:
		return ip.intOverflowCheck(n, int64(li)-int64(ri))
	case token.STAR:
		return ip.intOverflowCheck(n, int64(li)*int64(ri))
	case token.IDIV:
		if ri == 0 {
			return nil, diag.NewRuntime(diag.ZeroDivision, n.Pos(), ip.file, "Division by zero")
		}
		return IntValue(floorDiv(int64(li), int64(ri))), nil
	case token.PCT:
		if ri == 0 {
			return nil, diag.NewRuntime(diag.ZeroDivision, n.Pos(), ip.file, "Division by zero")
		}
		return IntValue(floorMod(int64(li), int64(ri))), nil
	}
	return nil, diag.NewRuntime(diag.OperatorArgument, n.Pos(), ip.file, "Unsupported operator %s", n.Op.String())
}

// floorDiv/floorMod implement truncation toward negative infinity, the
// choice recorded for the source's ambiguous // semantics on negative
// operands.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func (ip *Interpreter) intOverflowCheck(n *ast.Binary, v int64) (Value, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return nil, diag.NewRuntime(diag.IntegerRange, n.Pos(), ip.file, "Integer result %d out of 32-bit range", v)
	}
	return IntValue(v), nil
}

func (ip *Interpreter) evalUnary(e *env, n *ast.Unary) (Value, error) {
	operand, err := ip.eval(e, n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Op == token.NOT {
		return BoolValue(!bool(operand.(BoolValue))), nil
	}
	switch v := operand.(type) {
	case IntValue:
		if v == math.MinInt32 {
			return nil, diag.NewRuntime(diag.IntegerRange, n.Pos(), ip.file, "Negating %d overflows a 32-bit integer", v)
		}
		return -v, nil
	case FloatValue:
		return -v, nil
	}
	return nil, diag.NewRuntime(diag.OperatorArgument, n.Pos(), ip.file, "Unary - requires a numeric operand")
}

// evalCast performs the conversion an analyzer-inserted CastExpr names.
// Named-type casts only ever arise from variant construction (the
// analyzer never inserts a struct-to-struct or variant-to-variant
// cast).
func (ip *Interpreter) evalCast(e *env, n *ast.CastExpr) (Value, error) {
	operand, err := ip.eval(e, n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Target.Kind == ast.KindNamed {
		return VariantValue{Name: n.Target.Name, FieldType: n.Operand.(ast.TypedExpr).Type(), Inner: operand}, nil
	}
	switch n.Target.Builtin {
	case ast.TInt:
		return ip.castToInt(n, operand)
	case ast.TFloat:
		return ip.castToFloat(n, operand)
	case ast.TStr:
		return StrValue(operand.String()), nil
	case ast.TBool:
		return castToBool(operand), nil
	}
	return nil, diag.NewRuntime(diag.CastImpossible, n.Pos(), ip.file, "Cannot cast to %s", n.Target.String())
}

func (ip *Interpreter) castToInt(n *ast.CastExpr, v Value) (Value, error) {
	switch t := v.(type) {
	case IntValue:
		return t, nil
	case FloatValue:
		return IntValue(int32(t)), nil
	case BoolValue:
		if t {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case StrValue:
		i, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 32)
		if err != nil {
			return nil, diag.NewRuntime(diag.CastImpossible, n.Pos(), ip.file, "Cannot parse %q as int", string(t))
		}
		return IntValue(i), nil
	}
	return nil, diag.NewRuntime(diag.CastImpossible, n.Pos(), ip.file, "Cannot cast to int")
}

func (ip *Interpreter) castToFloat(n *ast.CastExpr, v Value) (Value, error) {
	switch t := v.(type) {
	case FloatValue:
		return t, nil
	case IntValue:
		return FloatValue(t), nil
	case BoolValue:
		if t {
			return FloatValue(1), nil
		}
		return FloatValue(0), nil
	case StrValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		if err != nil {
			return nil, diag.NewRuntime(diag.CastImpossible, n.Pos(), ip.file, "Cannot parse %q as float", string(t))
		}
		return FloatValue(f), nil
	}
	return nil, diag.NewRuntime(diag.CastImpossible, n.Pos(), ip.file, "Cannot cast to float")
}

func castToBool(v Value) Value {
	switch t := v.(type) {
	case BoolValue:
		return t
	case IntValue:
		return BoolValue(t != 0)
	case FloatValue:
		return BoolValue(t != 0)
	case StrValue:
		return BoolValue(t != "")
	}
	return BoolValue(false)
}

// runeLen counts len(str)'s characters, not bytes — str is a
// wide-character string per spec section 3.
func runeLen(s string) int { return utf8.RuneCountInString(s) }

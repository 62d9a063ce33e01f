package interp

import (
	"errors"
	"io"
	"math"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/builtin"
	"github.com/vela-lang/vela/internal/diag"
)

// callBuiltin dispatches one resolved builtin.Signature to its native
// Go implementation. Each overload is keyed by name and arity, the
// same way spec section 4.7's table lists them.
func (ip *Interpreter) callBuiltin(call *ast.CallExpr, sig builtin.Signature, args []Value) (Value, error) {
	switch sig.Name {
	case "no_arguments":
		return IntValue(len(ip.args)), nil

	case "argument":
		i := int(args[0].(IntValue))
		if i < 0 || i >= len(ip.args) {
			return nil, diag.NewRuntime(diag.BuiltinFunctionArgument, call.Pos(), ip.file, "argument index %d out of range (%d arguments given)", i, len(ip.args))
		}
		return StrValue(ip.args[i]), nil

	case "print":
		if _, err := io.WriteString(ip.out, string(args[0].(StrValue))); err != nil {
			return nil, diag.NewRuntime(diag.StandardOutput, call.Pos(), ip.file, "Cannot write to standard output: %s", err)
		}
		return nil, nil

	case "println":
		if _, err := io.WriteString(ip.out, string(args[0].(StrValue))+"\n"); err != nil {
			return nil, diag.NewRuntime(diag.StandardOutput, call.Pos(), ip.file, "Cannot write to standard output: %s", err)
		}
		return nil, nil

	case "input":
		if len(sig.Params) == 0 {
			return ip.readLine(call)
		}
		n := int(args[0].(IntValue))
		if n < 0 {
			return nil, diag.NewRuntime(diag.BuiltinFunctionArgument, call.Pos(), ip.file, "input() count must not be negative, got %d", n)
		}
		return ip.readN(call, n)

	case "len":
		return IntValue(runeLen(string(args[0].(StrValue)))), nil

	case "abs":
		switch v := args[0].(type) {
		case IntValue:
			if v == math.MinInt32 {
				return nil, diag.NewRuntime(diag.IntegerRange, call.Pos(), ip.file, "abs(%d) overflows a 32-bit integer", v)
			}
			if v < 0 {
				return -v, nil
			}
			return v, nil
		case FloatValue:
			return FloatValue(math.Abs(float64(v))), nil
		}

	case "min":
		return ip.minMax(args, true), nil

	case "max":
		return ip.minMax(args, false), nil
	}
	return nil, diag.NewRuntime(diag.OperatorArgument, call.Pos(), ip.file, "Unimplemented builtin %s", sig.Name)
}

func (ip *Interpreter) minMax(args []Value, wantMin bool) Value {
	if ai, ok := args[0].(IntValue); ok {
		bi := args[1].(IntValue)
		if (ai < bi) == wantMin {
			return ai
		}
		return bi
	}
	af := args[0].(FloatValue)
	bf := args[1].(FloatValue)
	if (af < bf) == wantMin {
		return af
	}
	return bf
}

func (ip *Interpreter) readLine(call *ast.CallExpr) (Value, error) {
	line, err := ip.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, diag.NewRuntime(diag.StandardInput, call.Pos(), ip.file, "Cannot read from standard input: %s", err)
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return StrValue(line), nil
}

func (ip *Interpreter) readN(call *ast.CallExpr, n int) (Value, error) {
	runes := make([]rune, 0, n)
	for len(runes) < n {
		r, _, err := ip.in.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, diag.NewRuntime(diag.StandardInput, call.Pos(), ip.file, "Cannot read from standard input: %s", err)
		}
		runes = append(runes, r)
	}
	return StrValue(string(runes)), nil
}

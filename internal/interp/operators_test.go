package interp

import (
	"math"
	"testing"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/pkg/position"
	"github.com/vela-lang/vela/pkg/token"
)

func TestFloorDivTruncatesTowardNegativeInfinity(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{6, 3, 2},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestFloorModMatchesFloorDivIdentity(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{7, 2, 1},
		{-7, 2, 1},
		{7, -2, -1},
		{-7, -2, -1},
	}
	for _, c := range cases {
		if got := floorMod(c.a, c.b); got != c.want {
			t.Errorf("floorMod(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestIntOverflowCheckRejectsOutOfRange(t *testing.T) {
	ip := &Interpreter{file: "t.vela"}
	n := ast.NewBinary(position.Start, token.PLUS, ast.NewIntLiteral(position.Start, 0), ast.NewIntLiteral(position.Start, 0))

	if _, err := ip.intOverflowCheck(n, int64(math.MaxInt32)+1); err == nil {
		t.Fatal("expected overflow error for MaxInt32+1")
	}
	v, err := ip.intOverflowCheck(n, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(IntValue) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestEvalUnaryNegateOverflow(t *testing.T) {
	ip := &Interpreter{file: "t.vela"}
	e := newEnv()
	n := ast.NewUnary(position.Start, token.MINUS, ast.NewIntLiteral(position.Start, math.MinInt32))
	_, err := ip.evalUnary(e, n)
	if err == nil {
		t.Fatal("expected an overflow error negating MinInt32")
	}
}

func TestValuesEqualStruct(t *testing.T) {
	a := StructValue{Name: "P", Fields: []string{"x"}, Values: []Value{IntValue(1)}}
	b := StructValue{Name: "P", Fields: []string{"x"}, Values: []Value{IntValue(1)}}
	c := StructValue{Name: "P", Fields: []string{"x"}, Values: []Value{IntValue(2)}}

	if !valuesEqual(a, b) {
		t.Fatal("identical structs should compare equal")
	}
	if valuesEqual(a, c) {
		t.Fatal("structs differing in a field value should not compare equal")
	}
}

func TestCastToBool(t *testing.T) {
	cases := []struct {
		in   Value
		want bool
	}{
		{IntValue(0), false},
		{IntValue(5), true},
		{FloatValue(0), false},
		{StrValue(""), false},
		{StrValue("x"), true},
		{BoolValue(true), true},
	}
	for _, c := range cases {
		if got := castToBool(c.in).(BoolValue); bool(got) != c.want {
			t.Errorf("castToBool(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRuneLenCountsCharactersNotBytes(t *testing.T) {
	if got := runeLen("héllo"); got != 5 {
		t.Fatalf("runeLen(héllo) = %d, want 5", got)
	}
}

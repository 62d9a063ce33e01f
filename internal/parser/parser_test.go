package parser

import (
	"strings"
	"testing"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/lexer"
	"github.com/vela-lang/vela/internal/reader"
	"github.com/vela-lang/vela/pkg/token"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	lx := lexer.New(reader.New(strings.NewReader(src), "t.vela"), "t.vela")
	p, err := New(lx, "t.vela")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	return prog
}

func TestParseStructAndVariant(t *testing.T) {
	prog := parseSrc(t, `
struct Point {
  int x;
  int y;
}
variant Shape {
  Point point;
  int radius;
}
`)
	if len(prog.Structs) != 1 || prog.Structs[0].Name != "Point" {
		t.Fatalf("got structs %+v", prog.Structs)
	}
	if len(prog.Structs[0].Fields) != 2 || prog.Structs[0].Fields[1].Name != "y" {
		t.Fatalf("got fields %+v", prog.Structs[0].Fields)
	}
	if len(prog.Variants) != 1 || prog.Variants[0].Name != "Shape" {
		t.Fatalf("got variants %+v", prog.Variants)
	}
}

func TestParseFunctionBodyAndControlFlow(t *testing.T) {
	prog := parseSrc(t, `
func fact(int n) -> int {
  int result = 1;
  while (n > 1) {
    result = result * n;
    n = n - 1;
  }
  return result;
}
`)
	if len(prog.Functions) != 1 {
		t.Fatalf("got functions %+v", prog.Functions)
	}
	fn := prog.Functions[0]
	if fn.Name != "fact" || len(fn.Params) != 1 || fn.Params[0].Name != "n" {
		t.Fatalf("got fn %+v", fn)
	}
	if fn.ReturnType == nil || fn.ReturnType.String() != "int" {
		t.Fatalf("got return type %+v", fn.ReturnType)
	}
	if len(fn.Body) != 3 {
		t.Fatalf("got %d statements in body, want 3: %+v", len(fn.Body), fn.Body)
	}
	if _, ok := fn.Body[1].(*ast.WhileStmt); !ok {
		t.Fatalf("body[1] = %T, want *ast.WhileStmt", fn.Body[1])
	}
	if _, ok := fn.Body[2].(*ast.ReturnStmt); !ok {
		t.Fatalf("body[2] = %T, want *ast.ReturnStmt", fn.Body[2])
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog := parseSrc(t, `
func f() {
  int x = 1 + 2 * 3;
}
`)
	decl := prog.Functions[0].Body[0].(*ast.VarDecl)
	bin, ok := decl.Init.(*ast.Binary)
	if !ok || bin.Op != token.PLUS {
		t.Fatalf("got init %+v, want top-level '+'", decl.Init)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != token.STAR {
		t.Fatalf("got rhs %+v, want nested '*'", bin.Right)
	}
}

func TestParseExponentIsRightAssociative(t *testing.T) {
	prog := parseSrc(t, `
func f() {
  int x = 2 ** 3 ** 2;
}
`)
	decl := prog.Functions[0].Body[0].(*ast.VarDecl)
	top, ok := decl.Init.(*ast.Binary)
	if !ok || top.Op != token.POW {
		t.Fatalf("got init %+v, want top-level '**'", decl.Init)
	}
	if _, ok := top.Left.(*ast.IntLiteral); !ok {
		t.Fatalf("left of top '**' should be a literal, got %T", top.Left)
	}
	if _, ok := top.Right.(*ast.Binary); !ok {
		t.Fatalf("right of top '**' should be nested '**', got %T", top.Right)
	}
}

func TestParseDottedAssignAndIsExpr(t *testing.T) {
	prog := parseSrc(t, `
func f(Point $p) {
  p.x = 5;
  if (p is Point) {
    return;
  }
}
`)
	assign, ok := prog.Functions[0].Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Assign", prog.Functions[0].Body[0])
	}
	if assign.Target.Name != "p" || len(assign.Target.Fields) != 1 || assign.Target.Fields[0] != "x" {
		t.Fatalf("got target %+v", assign.Target)
	}

	ifStmt, ok := prog.Functions[0].Body[1].(*ast.IfStmt)
	if !ok {
		t.Fatalf("body[1] = %T, want *ast.IfStmt", prog.Functions[0].Body[1])
	}
	if _, ok := ifStmt.Branches[0].Cond.Expr.(*ast.IsExpr); !ok {
		t.Fatalf("condition = %+v, want *ast.IsExpr", ifStmt.Branches[0].Cond)
	}
}

func TestParseSyntaxError(t *testing.T) {
	lx := lexer.New(reader.New(strings.NewReader("struct {}"), "t.vela"), "t.vela")
	p, err := New(lx, "t.vela")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.ParseProgram()
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	de, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected *diag.Error, got %T", err)
	}
	if de.Kind != diag.SyntaxError {
		t.Fatalf("got kind %v, want SyntaxError", de.Kind)
	}
}

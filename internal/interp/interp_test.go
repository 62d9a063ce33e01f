package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/lexer"
	"github.com/vela-lang/vela/internal/parser"
	"github.com/vela-lang/vela/internal/reader"
	"github.com/vela-lang/vela/internal/semantic"
)

func run(t *testing.T, src string, programArgs []string, stdin string) (string, error) {
	t.Helper()
	lx := lexer.New(reader.New(strings.NewReader(src), "t.vela"), "t.vela")
	p, err := parser.New(lx, "t.vela")
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if err := semantic.Analyze(prog, "t.vela"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var out bytes.Buffer
	ip := New(prog, "t.vela", &out, strings.NewReader(stdin), programArgs, 1000)
	return out.String(), ip.Run()
}

func TestRunHelloWorld(t *testing.T) {
	out, err := run(t, `
func main() {
  println("hello, world");
}
`, nil, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "hello, world\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunWhileLoopAccumulates(t *testing.T) {
	out, err := run(t, `
func main() {
  int $i = 0;
  int $sum = 0;
  while (i < 5) {
    sum = sum + i;
    i = i + 1;
  }
  println(sum @ 1);
}
`, nil, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "10\n" {
		t.Fatalf("got %q, want %q", out, "10\n")
	}
}

func TestRunStructFieldAssignThroughMutableParam(t *testing.T) {
	out, err := run(t, `
struct Point {
  int x;
  int y;
}

func bump(Point $p) {
  p.x = p.x + 1;
}

func main() {
  Point $a = {1, 2};
  bump(a);
  println(a.x);
}
`, nil, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "2\n" {
		t.Fatalf("got %q, want mutation through the mutable reference parameter to be visible: 2", out)
	}
}

func TestRunRecursionRespectsMaxDepth(t *testing.T) {
	lx := lexer.New(reader.New(strings.NewReader(`
func loop(int n) -> int {
  return loop(n + 1);
}
func main() {
  loop(0);
}
`), "t.vela"), "t.vela")
	p, err := parser.New(lx, "t.vela")
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if err := semantic.Analyze(prog, "t.vela"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var out bytes.Buffer
	ip := New(prog, "t.vela", &out, strings.NewReader(""), nil, 10)
	err = ip.Run()
	if err == nil {
		t.Fatal("expected a stack-overflow runtime error")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.StackOverflow {
		t.Fatalf("got %v, want diag.StackOverflow", err)
	}
	if !de.Runtime {
		t.Fatal("expected a runtime-flagged error")
	}
}

func TestRunDivisionByZero(t *testing.T) {
	_, err := run(t, `
func main() {
  int x = 1 // 0;
}
`, nil, "")
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.ZeroDivision {
		t.Fatalf("got %v, want diag.ZeroDivision", err)
	}
}

func TestRunMainMissingFails(t *testing.T) {
	_, err := run(t, `
func notMain() {}
`, nil, "")
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.MainNotFound {
		t.Fatalf("got %v, want diag.MainNotFound", err)
	}
}

func TestRunProgramArguments(t *testing.T) {
	out, err := run(t, `
func main() {
  int n = no_arguments();
  println(n @ 1);
  println(argument(0));
}
`, []string{"hi"}, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "1\nhi\n" {
		t.Fatalf("got %q", out)
	}
}

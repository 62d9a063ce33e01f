package semantic

import (
	"strings"
	"testing"

	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/lexer"
	"github.com/vela-lang/vela/internal/parser"
	"github.com/vela-lang/vela/internal/reader"
)

func analyzeSrc(t *testing.T, src string) error {
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
	return Analyze(prog, "t.vela")
}

func TestAnalyzeValidProgram(t *testing.T) {
	err := analyzeSrc(t, `
struct Point {
  int x;
  int y;
}

func dist(Point a, Point b) -> int {
  int dx = a.x - b.x;
  int dy = a.y - b.y;
  return dx * dx + dy * dy;
}

func main() {
  Point p = {1, 2};
  Point q = {4, 6};
  int d = dist(p, q);
}
`)
	if err != nil {
		t.Fatalf("expected a clean analysis, got: %v", err)
	}
}

func TestAnalyzeUnknownFieldType(t *testing.T) {
	err := analyzeSrc(t, `
struct Box {
  Missing m;
}
func main() {}
`)
	assertDiagKind(t, err, diag.UnknownFieldType)
}

func TestAnalyzeRecursiveStructFails(t *testing.T) {
	err := analyzeSrc(t, `
struct Node {
  Node next;
}
func main() {}
`)
	assertDiagKind(t, err, diag.FieldTypeRecursion)
}

func TestAnalyzeUnknownVariableFails(t *testing.T) {
	err := analyzeSrc(t, `
func main() {
  int x = y;
}
`)
	assertDiagKind(t, err, diag.UnknownVariable)
}

func TestAnalyzeImmutableAssignFails(t *testing.T) {
	err := analyzeSrc(t, `
func main() {
  int x = 1;
  x = 2;
}
`)
	assertDiagKind(t, err, diag.Immutable)
}

func TestAnalyzeMutableAssignSucceeds(t *testing.T) {
	err := analyzeSrc(t, `
func main() {
  int $x = 1;
  x = 2;
}
`)
	if err != nil {
		t.Fatalf("expected mutable reassignment to pass analysis, got: %v", err)
	}
}

func TestAnalyzeVariantFieldTypeCollisionFails(t *testing.T) {
	err := analyzeSrc(t, `
variant V {
  int a;
  int b;
}
func main() {}
`)
	assertDiagKind(t, err, diag.FieldTypeCollision)
}

func TestAnalyzeAmbiguousCallFails(t *testing.T) {
	err := analyzeSrc(t, `
func f(bool a) {}
func f(float a) {}
func main() {
  f(1);
}
`)
	assertDiagKind(t, err, diag.AmbiguousFunctionCall)
}

func assertDiagKind(t *testing.T, err error, want diag.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", want)
	}
	de, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected *diag.Error, got %T: %v", err, err)
	}
	if de.Kind != want {
		t.Fatalf("got diag kind %v, want %v", de.Kind, want)
	}
}

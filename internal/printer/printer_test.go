package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/vela-lang/vela/internal/lexer"
	"github.com/vela-lang/vela/internal/parser"
	"github.com/vela-lang/vela/internal/reader"
	"github.com/vela-lang/vela/internal/semantic"
)

func dumpSrc(t *testing.T, src string) string {
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
	Dump(prog, &out)
	return out.String()
}

func TestDumpStructAndFunction(t *testing.T) {
	out := dumpSrc(t, `
struct Point {
  int x;
  int y;
}

func main() {
  Point $p = {1, 2};
  p.x = p.y;
  println(p.x @ 1);
}
`)
	snaps.MatchSnapshot(t, out)
}

func TestDumpControlFlow(t *testing.T) {
	out := dumpSrc(t, `
func classify(int n) -> int {
  if (n < 0) {
    return -1;
  } elif (n == 0) {
    return 0;
  } else {
    return 1;
  }
}

func main() {
  int $i = 0;
  while (i < 3) {
    i = i + 1;
  }
}
`)
	snaps.MatchSnapshot(t, out)
}

package include

import (
	"fmt"
	"testing"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/pkg/position"
)

func fakeLoader(files map[string]*ast.Program) Loader {
	return func(path string) (*ast.Program, error) {
		prog, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such fake file: %s", path)
		}
		return prog, nil
	}
}

func structProg(includes []string, structNames ...string) *ast.Program {
	prog := &ast.Program{}
	for _, inc := range includes {
		prog.Includes = append(prog.Includes, ast.NewIncludeDecl(position.Start, inc))
	}
	for _, name := range structNames {
		prog.Structs = append(prog.Structs, ast.NewStructDecl(position.Start, name, nil))
	}
	return prog
}

func TestLoadResolvesTransitiveIncludes(t *testing.T) {
	files := map[string]*ast.Program{
		"main.vela": structProg([]string{"a.vela"}, "Main"),
		"a.vela":    structProg([]string{"b.vela"}, "A"),
		"b.vela":    structProg(nil, "B"),
	}

	prog, err := Load("main.vela", fakeLoader(files))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(prog.Includes) != 0 {
		t.Fatalf("Includes should be emptied after resolution, got %+v", prog.Includes)
	}
	names := map[string]bool{}
	for _, s := range prog.Structs {
		names[s.Name] = true
	}
	for _, want := range []string{"Main", "A", "B"} {
		if !names[want] {
			t.Fatalf("missing struct %s in merged program: %+v", want, prog.Structs)
		}
	}
}

func TestLoadSkipsAlreadyLoadedInclude(t *testing.T) {
	files := map[string]*ast.Program{
		"main.vela": structProg([]string{"shared.vela", "mid.vela"}, "Main"),
		"mid.vela":  structProg([]string{"shared.vela"}, "Mid"),
		"shared.vela": structProg(nil, "Shared"),
	}

	prog, err := Load("main.vela", fakeLoader(files))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	count := 0
	for _, s := range prog.Structs {
		if s.Name == "Shared" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Shared should be merged exactly once, got %d", count)
	}
}

func TestLoadDuplicateStructAcrossIncludesFails(t *testing.T) {
	files := map[string]*ast.Program{
		"main.vela": structProg([]string{"a.vela", "b.vela"}, "Main"),
		"a.vela":    structProg(nil, "Dup"),
		"b.vela":    structProg(nil, "Dup"),
	}

	_, err := Load("main.vela", fakeLoader(files))
	assertDiagKind(t, err, diag.DuplicateStruct)
}

func TestLoadDuplicateStructWithinOneFileFails(t *testing.T) {
	files := map[string]*ast.Program{
		"main.vela": structProg(nil, "Dup", "Dup"),
	}
	_, err := Load("main.vela", fakeLoader(files))
	assertDiagKind(t, err, diag.DuplicateStruct)
}

func TestLoadAllMergesMultipleRootFiles(t *testing.T) {
	files := map[string]*ast.Program{
		"a.vela": structProg(nil, "A"),
		"b.vela": structProg(nil, "B"),
	}
	prog, err := LoadAll([]string{"a.vela", "b.vela"}, fakeLoader(files))
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(prog.Structs) != 2 {
		t.Fatalf("got %d structs, want 2: %+v", len(prog.Structs), prog.Structs)
	}
}

func TestLoadAllDuplicateAcrossRootFilesFails(t *testing.T) {
	files := map[string]*ast.Program{
		"a.vela": structProg(nil, "Dup"),
		"b.vela": structProg(nil, "Dup"),
	}
	_, err := LoadAll([]string{"a.vela", "b.vela"}, fakeLoader(files))
	assertDiagKind(t, err, diag.DuplicateStruct)
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

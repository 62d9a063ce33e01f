// Package include implements the recursive include resolver from spec
// section 4.4: it flattens a document tree's `include` directives into
// one merged Program, guarding against re-parsing a file more than
// once.
package include

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
)

// Loader parses one source file into a Program. The CLI front end
// supplies the concrete implementation (read file, run lexer+parser);
// this package only drives the recursion and the merge.
type Loader func(path string) (*ast.Program, error)

// Load parses file, recursively resolves its own and every
// transitively included file's includes, and returns the one merged
// Program. LoadAll is the multi-file counterpart.
func Load(file string, load Loader) (*ast.Program, error) {
	root, err := load(file)
	if err != nil {
		return nil, err
	}
	if err := checkSelfDuplicates(root, file); err != nil {
		return nil, err
	}
	loaded := map[string]bool{file: true}
	if err := resolve(root, loaded, load); err != nil {
		return nil, err
	}
	return root, nil
}

// LoadAll is Load generalized to the CLI's multiple-positional-file
// form: every file in files is parsed and include-resolved against one
// shared loaded set, then merged together into a single Program. An
// include already in the loaded set is skipped, so a file reached by
// several roots is merged once; a name declared by two different root
// files is caught by the same DuplicateStruct/DuplicateVariant/
// DuplicateFunction checks that guard a single file's own includes.
func LoadAll(files []string, load Loader) (*ast.Program, error) {
	merged := &ast.Program{}
	loaded := map[string]bool{}
	for _, file := range files {
		prog, err := load(file)
		if err != nil {
			return nil, err
		}
		if err := checkSelfDuplicates(prog, file); err != nil {
			return nil, err
		}
		loaded[file] = true
		if err := resolve(prog, loaded, load); err != nil {
			return nil, err
		}
		if err := merge(merged, prog, file); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// resolve walks prog's Includes (recursing into each donor's own
// includes before merging it), appending every path it touches to
// loaded. An include whose path is already in loaded is skipped
// outright — never re-parsed, never re-merged. Includes is emptied
// once resolution finishes, per spec section 4.4 step 3.
func resolve(prog *ast.Program, loaded map[string]bool, load Loader) error {
	includes := prog.Includes
	prog.Includes = nil
	for _, inc := range includes {
		if loaded[inc.Path] {
			continue
		}
		loaded[inc.Path] = true
		donor, err := load(inc.Path)
		if err != nil {
			return err
		}
		if err := checkSelfDuplicates(donor, inc.Path); err != nil {
			return err
		}
		if err := resolve(donor, loaded, load); err != nil {
			return err
		}
		if err := merge(prog, donor, inc.Path); err != nil {
			return err
		}
	}
	return nil
}

// merge moves donor's structs, variants, and functions into receiver.
// file identifies the donor in the diagnostic raised on a name
// collision; the position reported is the colliding declaration's own.
func merge(receiver, donor *ast.Program, file string) error {
	for _, s := range donor.Structs {
		if receiver.FindStruct(s.Name) != nil {
			return diag.New(diag.DuplicateStruct, s.Pos(), file, "Duplicate struct %s", s.Name)
		}
		receiver.Structs = append(receiver.Structs, s)
	}
	for _, v := range donor.Variants {
		if receiver.FindVariant(v.Name) != nil {
			return diag.New(diag.DuplicateVariant, v.Pos(), file, "Duplicate variant %s", v.Name)
		}
		receiver.Variants = append(receiver.Variants, v)
	}
	for _, f := range donor.Functions {
		id := f.ID()
		if receiver.FindFunction(id) != nil {
			return diag.New(diag.DuplicateFunction, f.Pos(), file, "Duplicate function with signature %s", id.String())
		}
		receiver.Functions = append(receiver.Functions, f)
	}
	return nil
}

// checkSelfDuplicates flags repeated top-level names within a single,
// not-yet-merged file — the same collision kinds the merge step
// raises across files, so one file declaring `struct Foo` twice fails
// exactly like two included files each declaring it once.
func checkSelfDuplicates(prog *ast.Program, file string) error {
	structs := map[string]bool{}
	for _, s := range prog.Structs {
		if structs[s.Name] {
			return diag.New(diag.DuplicateStruct, s.Pos(), file, "Duplicate struct %s", s.Name)
		}
		structs[s.Name] = true
	}
	variants := map[string]bool{}
	for _, v := range prog.Variants {
		if variants[v.Name] {
			return diag.New(diag.DuplicateVariant, v.Pos(), file, "Duplicate variant %s", v.Name)
		}
		variants[v.Name] = true
	}
	funcs := map[ast.FunctionID]bool{}
	for _, f := range prog.Functions {
		id := f.ID()
		if funcs[id] {
			return diag.New(diag.DuplicateFunction, f.Pos(), file, "Duplicate function with signature %s", id.String())
		}
		funcs[id] = true
	}
	return nil
}

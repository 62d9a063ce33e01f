package semantic

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
)

// validateTypeTable checks every struct/variant field type resolves to
// a builtin or a declared struct/variant name (spec 4.5 step 1).
func (a *Analyzer) validateTypeTable() error {
	for _, s := range a.prog.Structs {
		for _, f := range s.Fields {
			if !a.typeExists(f.Type) {
				return diag.New(diag.UnknownFieldType, f.Pos, a.file, "Unknown type %s for field %s of struct %s", f.Type.String(), f.Name, s.Name)
			}
		}
	}
	for _, v := range a.prog.Variants {
		for _, f := range v.Fields {
			if !a.typeExists(f.Type) {
				return diag.New(diag.UnknownFieldType, f.Pos, a.file, "Unknown type %s for field %s of variant %s", f.Type.String(), f.Name, v.Name)
			}
		}
	}
	return nil
}

// declNode is one struct/variant declaration as a node in the
// field-type dependency graph used by detectRecursion.
type declNode struct {
	name   string
	fields []ast.Field
	decl   ast.Node
}

const (
	white = iota
	gray
	black
)

// detectRecursion walks the struct/variant field-type graph (an edge
// from T to U whenever T has a field of type U) looking for a cycle of
// any length, including a direct self-reference (spec 4.5 step 2).
func (a *Analyzer) detectRecursion() error {
	nodes := map[string]*declNode{}
	for _, s := range a.prog.Structs {
		nodes[s.Name] = &declNode{name: s.Name, fields: s.Fields, decl: s}
	}
	for _, v := range a.prog.Variants {
		nodes[v.Name] = &declNode{name: v.Name, fields: v.Fields, decl: v}
	}
	state := map[string]int{}
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case black:
			return nil
		case gray:
			n := nodes[name]
			return diag.New(diag.FieldTypeRecursion, n.decl.Pos(), a.file, "Type %s is recursively defined", name)
		}
		state[name] = gray
		n := nodes[name]
		for _, f := range n.fields {
			if f.Type.Kind != ast.KindNamed {
				continue
			}
			if _, ok := nodes[f.Type.Name]; !ok {
				continue
			}
			if err := visit(f.Type.Name); err != nil {
				return err
			}
		}
		state[name] = black
		return nil
	}
	for name := range nodes {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// validateNamespace forbids a struct, variant, or function from
// sharing a name across categories (spec 4.5 step 3). Functions may
// repeat a name among themselves (overloading); structs and variants
// may not, but that case is already rejected earlier by the include
// resolver's duplicate checks, so it is never reached here.
func (a *Analyzer) validateNamespace() error {
	kindOf := map[string]string{}
	posOf := map[string]ast.Node{}
	claim := func(name, kind string, node ast.Node) error {
		if existing, ok := kindOf[name]; ok && existing != kind {
			return diag.New(diag.NameCollision, node.Pos(), a.file, "Name %s is already declared as a %s", name, existing)
		}
		if _, ok := kindOf[name]; !ok {
			kindOf[name] = kind
			posOf[name] = node
		}
		return nil
	}
	for _, s := range a.prog.Structs {
		if err := claim(s.Name, "struct", s); err != nil {
			return err
		}
	}
	for _, v := range a.prog.Variants {
		if err := claim(v.Name, "variant", v); err != nil {
			return err
		}
	}
	for _, f := range a.prog.Functions {
		if err := claim(f.Name, "function", f); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldNames forbids a struct or variant from declaring the
// same field name twice.
func (a *Analyzer) validateFieldNames() error {
	check := func(kind, name string, fields []ast.Field) error {
		seen := map[string]bool{}
		for _, f := range fields {
			if seen[f.Name] {
				return diag.New(diag.FieldNameCollision, f.Pos, a.file, "%s %s already has a field named %s", kind, name, f.Name)
			}
			seen[f.Name] = true
		}
		return nil
	}
	for _, s := range a.prog.Structs {
		if err := check("Struct", s.Name, s.Fields); err != nil {
			return err
		}
	}
	for _, v := range a.prog.Variants {
		if err := check("Variant", v.Name, v.Fields); err != nil {
			return err
		}
	}
	return nil
}

// validateVariantFieldTypes requires a variant's field types be
// pairwise distinct, so that narrowing by type is unambiguous (spec
// 4.5 step 4).
func (a *Analyzer) validateVariantFieldTypes() error {
	for _, v := range a.prog.Variants {
		seen := map[string]ast.Field{}
		for _, f := range v.Fields {
			key := f.Type.String()
			if _, ok := seen[key]; ok {
				return diag.New(diag.FieldTypeCollision, f.Pos, a.file, "Variant %s has more than one field of type %s", v.Name, f.Type.String())
			}
			seen[key] = f
		}
	}
	return nil
}

// uniqueVariantField returns the sole field of v whose type equals t,
// or nil if none does. validateVariantFieldTypes already guarantees at
// most one field can match, so this never needs to report ambiguity.
func uniqueVariantField(v *ast.VariantDecl, t ast.Type) *ast.Field {
	for i := range v.Fields {
		if v.Fields[i].Type.Equal(t) {
			return &v.Fields[i]
		}
	}
	return nil
}

package ast

import "strings"

// Program is the merged document tree: four top-level collections, per
// spec section 3. Includes is consumed (emptied) by the include
// resolver; the remaining three stay ordered the way they were first
// declared, so the --dump-dt output and diagnostics are deterministic.
type Program struct {
	Includes  []*IncludeDecl
	Structs   []*StructDecl
	Variants  []*VariantDecl
	Functions []*FuncDecl
}

// FindStruct returns the struct declared under name, if any.
func (p *Program) FindStruct(name string) *StructDecl {
	for _, s := range p.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindVariant returns the variant declared under name, if any.
func (p *Program) FindVariant(name string) *VariantDecl {
	for _, v := range p.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// FindFunctionsByName returns every overload sharing name, in
// declaration order.
func (p *Program) FindFunctionsByName(name string) []*FuncDecl {
	var out []*FuncDecl
	for _, f := range p.Functions {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// FindFunction returns the function with the exact FunctionIdentification.
func (p *Program) FindFunction(id FunctionID) *FuncDecl {
	for _, f := range p.Functions {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// String renders the program as source text in fixed section order
// (includes, structs, variants, functions). This is NOT the --dump-dt format (see
// package printer for that stable, separately-tested contract).
func (p *Program) String() string {
	var sb strings.Builder
	for _, inc := range p.Includes {
		sb.WriteString(inc.String())
		sb.WriteString("\n")
	}
	for _, s := range p.Structs {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	for _, v := range p.Variants {
		sb.WriteString(v.String())
		sb.WriteString("\n")
	}
	for _, f := range p.Functions {
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

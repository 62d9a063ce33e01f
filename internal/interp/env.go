package interp

import "github.com/vela-lang/vela/internal/ast"

// addr is a settable location: a bare variable or a dotted chain of
// struct-field writes through it. Resolving one lets a mutable ($)
// parameter alias the caller's storage instead of copying a value in.
type addr interface {
	get() Value
	set(Value)
}

// binding is one variable slot. ref is non-nil when this slot is a
// reference parameter: reads/writes are delegated to the caller's own
// storage instead of holding a local copy.
type binding struct {
	value   Value
	mutable bool
	ref     addr
}

func (b *binding) get() Value {
	if b.ref != nil {
		return b.ref.get()
	}
	return b.value
}

func (b *binding) set(v Value) {
	if b.ref != nil {
		b.ref.set(v)
		return
	}
	b.value = v
}

// varAddr is a plain variable slot used as an addr.
type varAddr struct{ b *binding }

func (a varAddr) get() Value  { return a.b.get() }
func (a varAddr) set(v Value) { a.b.set(v) }

// fieldAddr is one more dot-step into a struct value held at parent.
// Writing through it reads the whole struct, replaces one field, and
// writes the replacement back — structs have no addressable interior,
// only deep-copy-on-write (spec section 3).
type fieldAddr struct {
	parent addr
	field  string
}

func (a fieldAddr) get() Value {
	v, _ := a.parent.get().(StructValue).Get(a.field)
	return v
}

func (a fieldAddr) set(v Value) {
	sv := a.parent.get().(StructValue)
	a.parent.set(sv.With(a.field, v))
}

// resolveAddr builds an addr for expr when it is a bare variable or a
// dotted chain of those, i.e. when it denotes an l-value. Anything else
// (including any CastExpr-wrapped expression — casts never wrap a
// mutable-parameter argument unless a conversion was actually needed,
// in which case it is no longer the same storage) reports false.
func resolveAddr(e *env, expr ast.Expr) (addr, bool) {
	switch n := expr.(type) {
	case *ast.VarRef:
		b, ok := e.lookup(n.Name)
		if !ok {
			return nil, false
		}
		return varAddr{b}, true
	case *ast.DotExpr:
		parent, ok := resolveAddr(e, n.Target)
		if !ok {
			return nil, false
		}
		return fieldAddr{parent: parent, field: n.Field}, true
	default:
		return nil, false
	}
}

// resolveAssignable builds the addr for an assignment statement's
// target — the same dotted-chain shape, but rooted in the parser's
// Assignable rather than an expression tree.
func resolveAssignable(e *env, t *ast.Assignable) addr {
	b, _ := e.lookup(t.Name)
	var a addr = varAddr{b}
	for _, f := range t.Fields {
		a = fieldAddr{parent: a, field: f}
	}
	return a
}

// env is one function activation's lexical scope stack: a fresh env is
// created per call (spec section 4.6) — functions never capture an
// enclosing scope.
type env struct {
	frames []map[string]*binding
}

func newEnv() *env { return &env{frames: []map[string]*binding{{}}} }

func (e *env) push() { e.frames = append(e.frames, map[string]*binding{}) }
func (e *env) pop()  { e.frames = e.frames[:len(e.frames)-1] }

func (e *env) declare(name string, v Value, mutable bool) {
	e.frames[len(e.frames)-1][name] = &binding{value: v, mutable: mutable}
}

func (e *env) lookup(name string) (*binding, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if b, ok := e.frames[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}

package semantic

import "github.com/vela-lang/vela/internal/ast"

// binding is one visible name: its static type and whether it may be
// assigned to.
type binding struct {
	typ     ast.Type
	mutable bool
}

// funcCtx is the per-function analysis state: the lexical scope stack
// (entering a block pushes, leaving pops, per spec 4.5 step 7) and the
// loop nesting depth break/continue validity depends on.
type funcCtx struct {
	decl      *ast.FuncDecl
	scopes    []map[string]binding
	loopDepth int
}

func newFuncCtx(decl *ast.FuncDecl) *funcCtx {
	return &funcCtx{decl: decl, scopes: []map[string]binding{{}}}
}

func (c *funcCtx) push() { c.scopes = append(c.scopes, map[string]binding{}) }
func (c *funcCtx) pop()  { c.scopes = c.scopes[:len(c.scopes)-1] }

// lookup walks every currently visible scope, innermost first.
func (c *funcCtx) lookup(name string) (binding, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if b, ok := c.scopes[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// declared reports whether name is visible in any currently pushed
// scope — re-declaring it anywhere visible is a VariableNameCollision,
// not just shadowing the innermost scope.
func (c *funcCtx) declared(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// declare binds name in the innermost scope. Callers must check
// declared(name) first.
func (c *funcCtx) declare(name string, b binding) {
	c.scopes[len(c.scopes)-1][name] = b
}

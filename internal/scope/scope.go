// Package scope is a minimal scope analyzer: a binding query plus a
// declared(name, recursive) query at global scope, the only surface either
// rewrite pass needs from identifier resolution. A production pipeline could
// swap it for a fuller scope analyzer running ahead of these passes without
// changing a line of amd/cjs code, since both only ever touch the small
// surface below.
//
// Grounded in esbuild's internal/js_ast scope tree (Scope.Parent,
// Scope.Members, function scopes stopping var-hoisting) but trimmed to the
// one thing JavaScript's sloppy-mode var semantics requires for this grammar
// slice: only function bodies introduce a new scope, and "var" always
// hoists to the nearest enclosing function (or the script) regardless of
// how many if/block statements it's nested under.
package scope

import "github.com/modnorm/modnorm/internal/jsast"

// Scope is one lexical scope: the script itself (the global scope) or a
// single function body.
type Scope struct {
	parent   *Scope
	declared map[string]bool
	children []*Scope
}

// Declared reports whether name is bound directly in this scope. When
// recursive is true it also reports a match found in any descendant scope —
// used to check whether a name would clash with anything already meaningful
// in this script, not just the script's own top-level bindings.
func (s *Scope) Declared(name string, recursive bool) bool {
	if s.declared[name] {
		return true
	}
	if !recursive {
		return false
	}
	for _, child := range s.children {
		if child.Declared(name, true) {
			return true
		}
	}
	return false
}

// Resolve walks from this scope up to the global scope looking for name.
// isGlobal is true only when the match is in the outermost (script) scope;
// resolved is false when no enclosing scope declares name at all, which
// callers treat the same as "leave it alone" (it's some ambient global like
// "console" or "Math", not a file-scope declaration to suffix).
func (s *Scope) Resolve(name string) (isGlobal bool, resolved bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.declared[name] {
			return cur.parent == nil, true
		}
	}
	return false, false
}

// Global builds the script-level scope: every top-level "var" declaration
// is a global binding. It does not descend into nested function bodies —
// those get their own scope from ForFunction when a walker reaches them.
func Global(script *jsast.Script) *Scope {
	g := &Scope{declared: map[string]bool{}}
	collectVarsInto(g, script.Stmts)
	return g
}

// ForFunction builds the scope for a function body: its parameters plus any
// top-level "var" declarations inside the body (again without descending
// into further-nested functions), parented to the enclosing scope. The
// built scope is also registered as a child of parent so a recursive
// Declared(name, true) query from an ancestor scope finds it.
func ForFunction(parent *Scope, fn *jsast.EFunction) *Scope {
	s := &Scope{parent: parent, declared: map[string]bool{}}
	for _, p := range fn.Params {
		s.declared[p] = true
	}
	collectVarsInto(s, fn.Body)
	parent.children = append(parent.children, s)
	return s
}

// collectVarsInto records every "var" declared directly in stmts (descending
// through if/block statements, which don't introduce scope in sloppy-mode
// JavaScript, but not through function expressions, which do).
func collectVarsInto(s *Scope, stmts []jsast.Stmt) {
	for _, stmt := range stmts {
		switch d := stmt.Data.(type) {
		case *jsast.SVar:
			s.declared[d.Name] = true
		case *jsast.SIf:
			collectVarsInto(s, d.Then)
		case *jsast.SBlock:
			collectVarsInto(s, d.Stmts)
		}
	}
}

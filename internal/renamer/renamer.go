// Package renamer is an alias-collision renamer: given a name that would
// shadow something already meaningful in scope, it picks a fresh name and
// rewrites every occurrence of the original within a single subtree. It's
// almost scope-unaware (a plain rename over every EName node matching the
// target string) because its one caller — the AMD rewriter renaming inside
// a factory body before binding a "var" at script scope — never has to
// worry about the factory redeclaring its own parameter as something it
// renamed. The one scope rule it applies: a nested function that declares
// a parameter with the target name is left untouched.
//
// Modeled on esbuild's internal/renamer in spirit (a pass-wide monotonic
// counter driving fresh-name selection so two unrelated collisions never
// pick the same alias) but esbuild's renamer operates over a resolved
// symbol table; this one operates directly on identifier strings, matching
// the simpler AST model in internal/jsast.
package renamer

import (
	"fmt"

	"github.com/modnorm/modnorm/internal/jsast"
)

// Counter is a pass-wide monotonic alias counter: each AMD rewrite pass owns
// exactly one, so two unrelated collisions in the same file never pick the
// same alias.
type Counter struct {
	n int
}

// Fresh returns name unchanged if isTaken(name) is false, otherwise the
// first "name__aliasN" that isTaken reports as free. N continues from the
// Counter's previous value (so it starts at 1 on a fresh Counter) and is
// never reused across calls.
func (c *Counter) Fresh(name string, isTaken func(string) bool) string {
	if !isTaken(name) {
		return name
	}
	for {
		c.n++
		candidate := fmt.Sprintf("%s__alias%d", name, c.n)
		if !isTaken(candidate) {
			return candidate
		}
	}
}

// RenameInStmts rewrites every EName node equal to old to fresh, anywhere in
// stmts, including inside nested function expressions — the subtree is the
// whole factory body, not just its immediate statements. A "var old"
// declaration is renamed too. A nested function that has a parameter named
// old is skipped entirely.
func RenameInStmts(stmts []jsast.Stmt, old, fresh string) {
	for _, s := range stmts {
		renameStmt(s, old, fresh)
	}
}

func renameStmt(s jsast.Stmt, old, fresh string) {
	switch d := s.Data.(type) {
	case *jsast.SExpr:
		renameExpr(d.Value, old, fresh)
	case *jsast.SVar:
		if d.Name == old {
			d.Name = fresh
		}
		if d.InitOrNil != nil {
			renameExpr(*d.InitOrNil, old, fresh)
		}
	case *jsast.SReturn:
		if d.ValueOrNil != nil {
			renameExpr(*d.ValueOrNil, old, fresh)
		}
	case *jsast.SIf:
		renameExpr(d.Test, old, fresh)
		RenameInStmts(d.Then, old, fresh)
	case *jsast.SBlock:
		RenameInStmts(d.Stmts, old, fresh)
	}
}

func renameExpr(e jsast.Expr, old, fresh string) {
	switch d := e.Data.(type) {
	case *jsast.EName:
		if d.Name == old {
			d.Name = fresh
		}
	case *jsast.ECall:
		renameExpr(d.Target, old, fresh)
		for _, a := range d.Args {
			renameExpr(a, old, fresh)
		}
	case *jsast.EDot:
		renameExpr(d.Target, old, fresh)
	case *jsast.EArray:
		for _, it := range d.Items {
			renameExpr(it, old, fresh)
		}
	case *jsast.EObject:
		for _, p := range d.Properties {
			renameExpr(p.Value, old, fresh)
		}
	case *jsast.EAssign:
		renameExpr(d.Target, old, fresh)
		renameExpr(d.Value, old, fresh)
	case *jsast.EBinary:
		renameExpr(d.Left, old, fresh)
		renameExpr(d.Right, old, fresh)
	case *jsast.EFunction:
		// A nested function could re-declare "old" as one of its own
		// parameters, which would make renaming inside it incorrect — but
		// params renamed here are only ever the outer factory's own
		// parameters being aliased before the outer "var" is introduced, so
		// a nested function naming one of its own parameters "old" is
		// shadowing legitimately and must not be touched.
		for _, p := range d.Params {
			if p == old {
				return
			}
		}
		RenameInStmts(d.Body, old, fresh)
	}
}

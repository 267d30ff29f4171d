// Package cjs implements the CJS-to-Namespaced rewrite pass: turn a
// CommonJS script into a single flat namespaced object with explicit
// goog.provide/goog.require annotations, so a whole program made of many
// such scripts can be concatenated without collisions.
package cjs

import (
	"github.com/modnorm/modnorm/internal/jsast"
	"github.com/modnorm/modnorm/internal/logger"
	"github.com/modnorm/modnorm/internal/modname"
	"github.com/modnorm/modnorm/internal/scope"
)

// Options holds this pass's per-file inputs: the filename prefix to strip
// before deriving module names, and the caller's dependency-reporting
// setting. Rewrite does not read ReportDependencies; it always fills
// Result.Provides and Result.Requires.
type Options struct {
	BaseDir            string
	ReportDependencies bool
}

// Result is what this pass produces beyond the mutated tree: a module
// record and its provide/require annotations, always populated.
type Result struct {
	ModuleID string
	Provides []string
	Requires []string
	Changed  bool
}

// Rewrite mutates script in place. It's idempotent on its own output for
// the require()/module.exports rewrites (no require(literal) calls or
// module.exports property accesses survive a first pass), but re-running it
// reapplies the provide/var/epilogue prologue, so callers should only ever
// run it once per file.
func Rewrite(script *jsast.Script, opts Options, source logger.Source, log logger.Log) Result {
	strippedPath := modname.StripBase(script.SourceFile, opts.BaseDir)
	moduleID := modname.Derive(strippedPath, "")

	rw := &rewriter{
		refPath:  strippedPath,
		moduleID: moduleID,
		source:   source,
		log:      log,
		seen:     map[string]bool{},
	}

	for i, stmt := range script.Stmts {
		script.Stmts[i] = rw.rewriteStmt(stmt)
	}

	loc := logger.Loc{}
	if len(script.Stmts) > 0 {
		loc = script.Stmts[0].Loc
	}

	prologue := []jsast.Stmt{
		jsast.ExprStmt(loc, jsast.Call(loc, jsast.PropertyAccess(loc, jsast.Name(loc, "goog"), "provide"), jsast.StringLit(loc, moduleID))),
		jsast.Var(loc, moduleID, objectLit(loc)),
	}
	for _, dep := range rw.requireOrder {
		prologue = append(prologue, jsast.ExprStmt(loc, jsast.Call(loc, jsast.PropertyAccess(loc, jsast.Name(loc, "goog"), "require"), jsast.StringLit(loc, dep))))
	}

	moduleExportsCheck := jsast.PropertyAccess(loc, jsast.Name(loc, moduleID), "module$exports")
	epilogue := jsast.If(loc, moduleExportsCheck, []jsast.Stmt{
		jsast.ExprStmt(loc, jsast.Assign(loc, jsast.Name(loc, moduleID), jsast.PropertyAccess(loc, jsast.Name(loc, moduleID), "module$exports"))),
	})

	full := make([]jsast.Stmt, 0, len(prologue)+len(script.Stmts)+1)
	full = append(full, prologue...)
	full = append(full, script.Stmts...)
	full = append(full, epilogue)

	suffixScript(full, moduleID)

	script.Stmts = full

	result := Result{ModuleID: moduleID, Provides: []string{moduleID}, Requires: rw.requireOrder, Changed: true}
	return result
}

func objectLit(loc logger.Loc) *jsast.Expr {
	e := jsast.ObjectLit(loc)
	return &e
}

type rewriter struct {
	refPath      string
	moduleID     string
	source       logger.Source
	log          logger.Log
	seen         map[string]bool
	requireOrder []string
}

func (rw *rewriter) rewriteStmt(s jsast.Stmt) jsast.Stmt {
	switch d := s.Data.(type) {
	case *jsast.SExpr:
		d.Value = rw.rewriteExpr(d.Value)
	case *jsast.SVar:
		if d.InitOrNil != nil {
			v := rw.rewriteExpr(*d.InitOrNil)
			d.InitOrNil = &v
		}
	case *jsast.SReturn:
		if d.ValueOrNil != nil {
			v := rw.rewriteExpr(*d.ValueOrNil)
			d.ValueOrNil = &v
		}
	case *jsast.SIf:
		d.Test = rw.rewriteExpr(d.Test)
		for i, s2 := range d.Then {
			d.Then[i] = rw.rewriteStmt(s2)
		}
	case *jsast.SBlock:
		for i, s2 := range d.Stmts {
			d.Stmts[i] = rw.rewriteStmt(s2)
		}
	}
	return s
}

func (rw *rewriter) rewriteExpr(e jsast.Expr) jsast.Expr {
	switch d := e.Data.(type) {
	case *jsast.ECall:
		d.Target = rw.rewriteExpr(d.Target)
		for i, a := range d.Args {
			d.Args[i] = rw.rewriteExpr(a)
		}
		if replaced, ok := rw.tryRequireCall(e); ok {
			return replaced
		}
		return e
	case *jsast.EDot:
		if name, ok := jsast.IsName(d.Target); ok && name.Name == "module" && d.Name == "exports" {
			name.Name = rw.moduleID
			d.Name = "module$exports"
			return e
		}
		d.Target = rw.rewriteExpr(d.Target)
		return e
	case *jsast.EArray:
		for i, it := range d.Items {
			d.Items[i] = rw.rewriteExpr(it)
		}
		return e
	case *jsast.EObject:
		for i, p := range d.Properties {
			d.Properties[i].Value = rw.rewriteExpr(p.Value)
		}
		return e
	case *jsast.EAssign:
		d.Target = rw.rewriteExpr(d.Target)
		d.Value = rw.rewriteExpr(d.Value)
		return e
	case *jsast.EBinary:
		d.Left = rw.rewriteExpr(d.Left)
		d.Right = rw.rewriteExpr(d.Right)
		return e
	case *jsast.EFunction:
		for i, s := range d.Body {
			d.Body[i] = rw.rewriteStmt(s)
		}
		return e
	default:
		return e
	}
}

// tryRequireCall recognizes the static form require("literal"). Anything
// else shaped like a call to "require" (zero args, multiple args, or a
// non-literal argument) is a dynamic require — left untouched, with a
// warning since it won't be resolvable by the dependency
// graph this pass feeds.
func (rw *rewriter) tryRequireCall(e jsast.Expr) (jsast.Expr, bool) {
	call, ok := jsast.IsCall(e)
	if !ok {
		return e, false
	}
	name, ok := jsast.IsName(call.Target)
	if !ok || name.Name != "require" {
		return e, false
	}
	if len(call.Args) != 1 {
		rw.log.AddWarning(rw.source, e.Loc, logger.MsgID_CJS_UnresolvableRequire,
			"require() called with other than one argument; left as a dynamic call")
		return e, false
	}
	lit, ok := jsast.IsString(call.Args[0])
	if !ok {
		rw.log.AddWarning(rw.source, e.Loc, logger.MsgID_CJS_UnresolvableRequire,
			"require() called with a non-literal argument; left as a dynamic call")
		return e, false
	}

	depID := modname.Derive(lit.Value, rw.refPath)
	if !rw.seen[depID] {
		rw.seen[depID] = true
		rw.requireOrder = append(rw.requireOrder, depID)
	}
	return jsast.Name(e.Loc, depID), true
}

// suffixScript runs the global-suffixer over the fully-assembled script
// body.
func suffixScript(stmts []jsast.Stmt, moduleID string) {
	global := scope.Global(&jsast.Script{Stmts: stmts})
	sfx := &suffixer{moduleID: moduleID, global: global}
	for _, s := range stmts {
		sfx.walkStmt(s, global)
	}
}

type suffixer struct {
	moduleID string
	global   *scope.Scope
}

func (sfx *suffixer) rename(current string, sc *scope.Scope) string {
	if current == sfx.moduleID {
		return current
	}
	if current == "exports" {
		return sfx.moduleID
	}
	isGlobal, resolved := sc.Resolve(current)
	if resolved && isGlobal {
		return current + "$$" + sfx.moduleID
	}
	return current
}

func (sfx *suffixer) walkStmt(s jsast.Stmt, sc *scope.Scope) {
	switch d := s.Data.(type) {
	case *jsast.SExpr:
		sfx.walkExpr(d.Value, sc)
	case *jsast.SVar:
		d.Name = sfx.rename(d.Name, sc)
		if d.InitOrNil != nil {
			sfx.walkExpr(*d.InitOrNil, sc)
		}
	case *jsast.SReturn:
		if d.ValueOrNil != nil {
			sfx.walkExpr(*d.ValueOrNil, sc)
		}
	case *jsast.SIf:
		sfx.walkExpr(d.Test, sc)
		for _, s2 := range d.Then {
			sfx.walkStmt(s2, sc)
		}
	case *jsast.SBlock:
		for _, s2 := range d.Stmts {
			sfx.walkStmt(s2, sc)
		}
	}
}

func (sfx *suffixer) walkExpr(e jsast.Expr, sc *scope.Scope) {
	switch d := e.Data.(type) {
	case *jsast.EName:
		d.Name = sfx.rename(d.Name, sc)
	case *jsast.ECall:
		sfx.walkExpr(d.Target, sc)
		for _, a := range d.Args {
			sfx.walkExpr(a, sc)
		}
	case *jsast.EDot:
		// Only the target (a value expression) can carry a renameable
		// identifier; d.Name is a property name, never a name node, and is
		// left alone.
		sfx.walkExpr(d.Target, sc)
	case *jsast.EArray:
		for _, it := range d.Items {
			sfx.walkExpr(it, sc)
		}
	case *jsast.EObject:
		for _, p := range d.Properties {
			sfx.walkExpr(p.Value, sc)
		}
	case *jsast.EAssign:
		sfx.walkExpr(d.Target, sc)
		sfx.walkExpr(d.Value, sc)
	case *jsast.EBinary:
		sfx.walkExpr(d.Left, sc)
		sfx.walkExpr(d.Right, sc)
	case *jsast.EFunction:
		inner := scope.ForFunction(sc, d)
		for _, s := range d.Body {
			sfx.walkStmt(s, inner)
		}
	}
}

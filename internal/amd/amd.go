// Package amd implements the AMD-to-CJS rewrite pass: recognize a top-level
// define(...) call and rewrite it into CommonJS-shaped require(...) bindings
// plus an inlined factory body.
package amd

import (
	"regexp"
	"strings"

	"github.com/modnorm/modnorm/internal/jsast"
	"github.com/modnorm/modnorm/internal/logger"
	"github.com/modnorm/modnorm/internal/renamer"
	"github.com/modnorm/modnorm/internal/scope"
)

// Result reports whether the pass changed anything.
type Result struct {
	Changed bool
}

var virtualDepNames = map[string]bool{"require": true, "exports": true, "module": true}

// Rewrite mutates script in place, recognizing and rewriting every top-level
// define(...) call it contains. It is idempotent: run again over its own
// output and no define(...) call remains to trigger on.
func Rewrite(script *jsast.Script, source logger.Source, log logger.Log) Result {
	global := scope.Global(script)
	result := Result{}

	handled := map[*jsast.ECall]bool{}
	topLevel := map[int]*jsast.ECall{}

	for i, stmt := range script.Stmts {
		if call, ok := topLevelDefineCall(stmt, global); ok {
			topLevel[i] = call
			handled[call] = true
		}
	}

	reportNonTopLevelDefines(script.Stmts, global, handled, source, log)

	if len(topLevel) == 0 {
		return result
	}

	counter := &renamer.Counter{}
	newStmts := make([]jsast.Stmt, 0, len(script.Stmts))
	for i, stmt := range script.Stmts {
		call, ok := topLevel[i]
		if !ok {
			newStmts = append(newStmts, stmt)
			continue
		}
		replacement, changed := rewriteDefine(call, stmt.Loc, global, counter, source, log)
		newStmts = append(newStmts, replacement...)
		if changed {
			result.Changed = true
		}
	}
	script.Stmts = newStmts
	return result
}

// topLevelDefineCall checks the precise trigger shape: an expression
// statement at script root whose expression is a call to a name "define"
// that is unbound or bound at global scope.
func topLevelDefineCall(stmt jsast.Stmt, global *scope.Scope) (*jsast.ECall, bool) {
	exprStmt, ok := jsast.IsExpressionStatement(stmt)
	if !ok {
		return nil, false
	}
	call, ok := jsast.IsCall(exprStmt.Value)
	if !ok {
		return nil, false
	}
	name, ok := jsast.IsName(call.Target)
	if !ok || name.Name != "define" {
		return nil, false
	}
	if !isGlobalOrUnresolved(global, "define") {
		return nil, false
	}
	return call, true
}

func isGlobalOrUnresolved(s *scope.Scope, name string) bool {
	isGlobal, resolved := s.Resolve(name)
	return !resolved || isGlobal
}

// reportNonTopLevelDefines walks the whole tree (including inside function
// bodies and nested statements) looking for any other call to a global-or-
// unresolved "define" and reports one for each one that isn't already one of
// the top-level calls being rewritten.
func reportNonTopLevelDefines(stmts []jsast.Stmt, sc *scope.Scope, handled map[*jsast.ECall]bool, source logger.Source, log logger.Log) {
	var walkStmt func(jsast.Stmt, *scope.Scope)
	var walkExpr func(jsast.Expr, *scope.Scope)

	walkExpr = func(e jsast.Expr, sc *scope.Scope) {
		switch d := e.Data.(type) {
		case *jsast.ECall:
			if name, ok := jsast.IsName(d.Target); ok && name.Name == "define" && isGlobalOrUnresolved(sc, "define") && !handled[d] {
				log.AddError(source, e.Loc, logger.MsgID_AMD_NonTopLevelStatementDefine,
					"\"define\" found in a non-top-level position; this module cannot be recognized as AMD")
			}
			walkExpr(d.Target, sc)
			for _, a := range d.Args {
				walkExpr(a, sc)
			}
		case *jsast.EDot:
			walkExpr(d.Target, sc)
		case *jsast.EArray:
			for _, it := range d.Items {
				walkExpr(it, sc)
			}
		case *jsast.EObject:
			for _, p := range d.Properties {
				walkExpr(p.Value, sc)
			}
		case *jsast.EAssign:
			walkExpr(d.Target, sc)
			walkExpr(d.Value, sc)
		case *jsast.EBinary:
			walkExpr(d.Left, sc)
			walkExpr(d.Right, sc)
		case *jsast.EFunction:
			inner := scope.ForFunction(sc, d)
			for _, s := range d.Body {
				walkStmt(s, inner)
			}
		}
	}

	walkStmt = func(s jsast.Stmt, sc *scope.Scope) {
		switch d := s.Data.(type) {
		case *jsast.SExpr:
			walkExpr(d.Value, sc)
		case *jsast.SVar:
			if d.InitOrNil != nil {
				walkExpr(*d.InitOrNil, sc)
			}
		case *jsast.SReturn:
			if d.ValueOrNil != nil {
				walkExpr(*d.ValueOrNil, sc)
			}
		case *jsast.SIf:
			walkExpr(d.Test, sc)
			for _, s2 := range d.Then {
				walkStmt(s2, sc)
			}
		case *jsast.SBlock:
			for _, s2 := range d.Stmts {
				walkStmt(s2, sc)
			}
		}
	}

	for _, s := range stmts {
		walkStmt(s, sc)
	}
}

func rewriteDefine(call *jsast.ECall, stmtLoc logger.Loc, global *scope.Scope, counter *renamer.Counter, source logger.Source, log logger.Log) ([]jsast.Stmt, bool) {
	switch len(call.Args) {
	case 0:
		log.AddError(source, call.Target.Loc, logger.MsgID_AMD_UnsupportedDefineSignature,
			"define() called with no arguments")
		return []jsast.Stmt{{Loc: stmtLoc, Data: &jsast.SExpr{Value: jsast.Expr{Loc: call.Target.Loc, Data: call}}}}, false

	case 1:
		arg := call.Args[0]
		if obj, ok := jsast.IsObjectLit(arg); ok {
			assign := jsast.Assign(stmtLoc, jsast.Name(stmtLoc, "exports"), jsast.Expr{Loc: arg.Loc, Data: obj})
			return []jsast.Stmt{jsast.ExprStmt(stmtLoc, assign)}, true
		}
		if fn, ok := jsast.IsFunction(arg); ok {
			return canonicalRewrite(nil, fn, stmtLoc, global, counter, source, log), true
		}
		log.AddError(source, arg.Loc, logger.MsgID_AMD_UnsupportedDefineSignature,
			"define() called with one argument that is neither a function nor an object literal")
		return []jsast.Stmt{unchanged(call, stmtLoc)}, false

	case 2:
		depsArg, fnArg := call.Args[0], call.Args[1]
		arr, depsOk := jsast.IsArrayLit(depsArg)
		fn, fnOk := jsast.IsFunction(fnArg)
		if !depsOk || !fnOk {
			log.AddError(source, call.Target.Loc, logger.MsgID_AMD_UnsupportedDefineSignature,
				"define(deps, factory) requires an array literal of dependencies and a function factory")
			return []jsast.Stmt{unchanged(call, stmtLoc)}, false
		}
		return canonicalRewrite(arr.Items, fn, stmtLoc, global, counter, source, log), true

	default:
		log.AddError(source, call.Target.Loc, logger.MsgID_AMD_UnsupportedDefineSignature,
			"define() called with 3 or more arguments")
		return []jsast.Stmt{unchanged(call, stmtLoc)}, false
	}
}

func unchanged(call *jsast.ECall, stmtLoc logger.Loc) jsast.Stmt {
	return jsast.Stmt{Loc: stmtLoc, Data: &jsast.SExpr{Value: jsast.Expr{Loc: call.Target.Loc, Data: call}}}
}

var pluginConditionalRe = regexp.MustCompile(`^([^:?]*)\?([^:]+)$`)

// salvageDep handles RequireJS loader-plugin dep syntax: a "!" anywhere in
// the dep is reported as an unsupported loader plugin; if the string also
// matches the narrow "cond?real" conditional-dependency form (no ":"), the
// rewrite recurses on "real" and may salvage a usable dependency after all.
// Anything else is dropped (nil).
func salvageDep(dep string, loc logger.Loc, source logger.Source, log logger.Log) *string {
	if !strings.Contains(dep, "!") {
		return &dep
	}
	log.AddWarning(source, loc, logger.MsgID_AMD_RequireJSPluginsNotSupported,
		"RequireJS loader plugins are not supported: \""+dep+"\"")
	if m := pluginConditionalRe.FindStringSubmatch(dep); m != nil {
		return salvageDep(m[2], loc, source, log)
	}
	return nil
}

// canonicalRewrite is the canonical define(deps, factory) path: pair up deps
// and factory params, synthesize require() bindings (or bare "var"s for
// dropped/extra params), inline the factory body with every top-level
// "return X" turned into "module.exports = X", and return the full
// replacement statement list in the order it should land at the removed
// define(...) call's position.
func canonicalRewrite(deps []jsast.Expr, fn *jsast.EFunction, stmtLoc logger.Loc, global *scope.Scope, counter *renamer.Counter, source logger.Source, log logger.Log) []jsast.Stmt {
	body := jsast.CloneStmts(fn.Body)
	introduced := map[string]bool{}

	isTaken := func(name string) bool {
		return introduced[name] || global.Declared(name, false)
	}

	n := len(deps)
	if len(fn.Params) > n {
		n = len(fn.Params)
	}

	var varStmts []jsast.Stmt

	for i := 0; i < n; i++ {
		var param *string
		if i < len(fn.Params) {
			p := fn.Params[i]
			param = &p
		}
		var dep *string
		if i < len(deps) {
			dep = depString(deps[i])
		}

		if dep != nil && virtualDepNames[*dep] {
			continue
		}
		if dep != nil {
			dep = salvageDep(*dep, stmtLoc, source, log)
		}

		switch {
		case dep != nil && param != nil:
			bound := bindName(*param, body, counter, isTaken)
			introduced[bound] = true
			init := jsast.Call(stmtLoc, jsast.Name(stmtLoc, "require"), jsast.StringLit(stmtLoc, *dep))
			stmt := jsast.Var(stmtLoc, bound, &init)
			varStmts = append([]jsast.Stmt{stmt}, varStmts...)

		case dep == nil && param != nil && !virtualDepNames[*param]:
			bound := bindName(*param, body, counter, isTaken)
			introduced[bound] = true
			stmt := jsast.Var(stmtLoc, bound, nil)
			varStmts = append([]jsast.Stmt{stmt}, varStmts...)

		case dep != nil && param == nil:
			sideEffect := jsast.ExprStmt(stmtLoc, jsast.Call(stmtLoc, jsast.Name(stmtLoc, "require"), jsast.StringLit(stmtLoc, *dep)))
			varStmts = append([]jsast.Stmt{sideEffect}, varStmts...)
		}
	}

	body = rewriteReturns(body)

	out := make([]jsast.Stmt, 0, len(varStmts)+len(body))
	out = append(out, varStmts...)
	out = append(out, body...)
	return out
}

// bindName applies the collision check: if name is already declared in the
// script's global scope (or already introduced by an earlier dep in this
// same factory), invent a fresh alias and rename every occurrence of name
// inside body before returning the name to bind.
func bindName(name string, body []jsast.Stmt, counter *renamer.Counter, isTaken func(string) bool) string {
	fresh := counter.Fresh(name, isTaken)
	if fresh != name {
		renamer.RenameInStmts(body, name, fresh)
	}
	return fresh
}

func depString(e jsast.Expr) *string {
	if s, ok := jsast.IsString(e); ok {
		return &s.Value
	}
	return nil
}

// rewriteReturns is a statement-only visitor: it replaces every top-level
// "return X;" (non-empty X) with "module.exports = X;" but does not descend
// into nested function expressions, since a "return" inside a nested
// function belongs to that function, not the factory being inlined.
func rewriteReturns(stmts []jsast.Stmt) []jsast.Stmt {
	out := make([]jsast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = rewriteReturnStmt(s)
	}
	return out
}

func rewriteReturnStmt(s jsast.Stmt) jsast.Stmt {
	switch d := s.Data.(type) {
	case *jsast.SReturn:
		if d.ValueOrNil == nil {
			return s
		}
		moduleExports := jsast.PropertyAccess(s.Loc, jsast.Name(s.Loc, "module"), "exports")
		assign := jsast.Assign(s.Loc, moduleExports, *d.ValueOrNil)
		return jsast.ExprStmt(s.Loc, assign)
	case *jsast.SIf:
		return jsast.Stmt{Loc: s.Loc, Data: &jsast.SIf{Test: d.Test, Then: rewriteReturns(d.Then)}}
	case *jsast.SBlock:
		return jsast.Stmt{Loc: s.Loc, Data: &jsast.SBlock{Stmts: rewriteReturns(d.Stmts)}}
	default:
		return s
	}
}

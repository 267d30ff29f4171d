package scope

import (
	"testing"

	"github.com/modnorm/modnorm/internal/jsast"
	"github.com/modnorm/modnorm/internal/logger"
)

func TestGlobalCollectsTopLevelVars(t *testing.T) {
	loc := logger.Loc{}
	script := &jsast.Script{Stmts: []jsast.Stmt{
		jsast.Var(loc, "a", nil),
		jsast.If(loc, jsast.Name(loc, "a"), []jsast.Stmt{jsast.Var(loc, "b", nil)}),
	}}
	g := Global(script)
	if !g.Declared("a", false) {
		t.Error("expected \"a\" declared at global scope")
	}
	if !g.Declared("b", false) {
		t.Error("expected \"b\" (declared inside an if body) to hoist to global scope")
	}
	if g.Declared("c", false) {
		t.Error("did not expect \"c\" to be declared")
	}
}

func TestForFunctionDoesNotLeakIntoParent(t *testing.T) {
	loc := logger.Loc{}
	script := &jsast.Script{}
	g := Global(script)
	fn := &jsast.EFunction{Params: []string{"x"}, Body: []jsast.Stmt{jsast.Var(loc, "y", nil)}}
	fnScope := ForFunction(g, fn)

	if !fnScope.Declared("x", false) {
		t.Error("expected param \"x\" declared in function scope")
	}
	if !fnScope.Declared("y", false) {
		t.Error("expected \"y\" declared in function scope")
	}
	if g.Declared("x", false) || g.Declared("y", false) {
		t.Error("function-scope bindings must not leak into the parent's own declared set")
	}
	if !g.Declared("x", true) {
		t.Error("a recursive Declared from the parent should still find a descendant's binding")
	}
}

func TestResolveReportsGlobalOnlyAtScriptScope(t *testing.T) {
	loc := logger.Loc{}
	script := &jsast.Script{Stmts: []jsast.Stmt{jsast.Var(loc, "a", nil)}}
	g := Global(script)
	fn := &jsast.EFunction{Params: []string{"b"}}
	fnScope := ForFunction(g, fn)

	if isGlobal, resolved := fnScope.Resolve("a"); !resolved || !isGlobal {
		t.Errorf("Resolve(\"a\") from nested scope = (%v, %v), want (true, true)", isGlobal, resolved)
	}
	if isGlobal, resolved := fnScope.Resolve("b"); !resolved || isGlobal {
		t.Errorf("Resolve(\"b\") = (%v, %v), want (false, true)", isGlobal, resolved)
	}
	if _, resolved := fnScope.Resolve("console"); resolved {
		t.Error("Resolve(\"console\") should not resolve; nothing in this tree declares it")
	}
}

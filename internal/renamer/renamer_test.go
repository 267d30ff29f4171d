package renamer

import (
	"testing"

	"github.com/modnorm/modnorm/internal/jsast"
	"github.com/modnorm/modnorm/internal/logger"
)

func TestFreshReturnsNameUnchangedWhenFree(t *testing.T) {
	var c Counter
	got := c.Fresh("a", func(string) bool { return false })
	if got != "a" {
		t.Errorf("Fresh(\"a\", always-free) = %q, want \"a\"", got)
	}
}

func TestFreshPicksFirstAvailableAlias(t *testing.T) {
	var c Counter
	taken := map[string]bool{"a": true, "a__alias1": true}
	got := c.Fresh("a", func(name string) bool { return taken[name] })
	if got != "a__alias2" {
		t.Errorf("Fresh(\"a\", ...) = %q, want \"a__alias2\"", got)
	}
}

func TestCounterIsMonotonicAcrossCalls(t *testing.T) {
	var c Counter
	first := c.Fresh("a", func(name string) bool { return name == "a" })
	second := c.Fresh("b", func(name string) bool { return name == "b" })
	if first == second {
		t.Errorf("two unrelated collisions picked the same alias %q", first)
	}
	if first != "a__alias1" || second != "b__alias2" {
		t.Errorf("got %q, %q, want \"a__alias1\", \"b__alias2\"", first, second)
	}
}

func TestRenameInStmtsRewritesEveryOccurrence(t *testing.T) {
	loc := logger.Loc{}
	stmts := []jsast.Stmt{
		jsast.ExprStmt(loc, jsast.Call(loc, jsast.Name(loc, "a"), jsast.Name(loc, "a"))),
		jsast.Var(loc, "b", exprPtr(jsast.Name(loc, "a"))),
	}
	RenameInStmts(stmts, "a", "a__alias1")

	call := stmts[0].Data.(*jsast.SExpr).Value.Data.(*jsast.ECall)
	if name, _ := jsast.IsName(call.Target); name.Name != "a__alias1" {
		t.Errorf("call target not renamed, got %q", name.Name)
	}
	if name, _ := jsast.IsName(call.Args[0]); name.Name != "a__alias1" {
		t.Errorf("call arg not renamed, got %q", name.Name)
	}
	v := stmts[1].Data.(*jsast.SVar)
	if name, _ := jsast.IsName(*v.InitOrNil); name.Name != "a__alias1" {
		t.Errorf("var init not renamed, got %q", name.Name)
	}
}

func TestRenameInStmtsStopsAtShadowingFunctionParam(t *testing.T) {
	loc := logger.Loc{}
	inner := jsast.Expr{Loc: loc, Data: &jsast.EFunction{
		Params: []string{"a"},
		Body:   []jsast.Stmt{jsast.ExprStmt(loc, jsast.Name(loc, "a"))},
	}}
	stmts := []jsast.Stmt{jsast.ExprStmt(loc, inner)}
	RenameInStmts(stmts, "a", "a__alias1")

	fn := stmts[0].Data.(*jsast.SExpr).Value.Data.(*jsast.EFunction)
	name, _ := jsast.IsName(fn.Body[0].Data.(*jsast.SExpr).Value)
	if name.Name != "a" {
		t.Errorf("renamer touched a name shadowed by a nested function's own parameter, got %q", name.Name)
	}
}

func exprPtr(e jsast.Expr) *jsast.Expr { return &e }

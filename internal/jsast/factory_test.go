package jsast

import (
	"testing"

	"github.com/modnorm/modnorm/internal/logger"
)

func TestCloneExprIsIndependentOfOriginal(t *testing.T) {
	loc := logger.Loc{}
	original := Call(loc, Name(loc, "require"), StringLit(loc, "a"))
	clone := CloneExpr(original)

	cloneCall := clone.Data.(*ECall)
	cloneName := cloneCall.Target.Data.(*EName)
	cloneName.Name = "mutated"

	originalCall := original.Data.(*ECall)
	originalName := originalCall.Target.Data.(*EName)
	if originalName.Name != "require" {
		t.Errorf("mutating the clone changed the original's Target to %q", originalName.Name)
	}
}

func TestCloneExprPreservesIsFreeCall(t *testing.T) {
	loc := logger.Loc{}
	call := Expr{Loc: loc, Data: &ECall{Target: Name(loc, "foo"), IsFreeCall: false}}
	clone := CloneExpr(call)
	if clone.Data.(*ECall).IsFreeCall {
		t.Error("clone changed IsFreeCall from false to true")
	}
}

func TestStampLocOverwritesWholeSubtree(t *testing.T) {
	loc := logger.Loc{Start: 1}
	donor := logger.Loc{Start: 99}
	e := Call(loc, Name(loc, "foo"), StringLit(loc, "a"))

	stamped := StampLoc(e, donor)

	if stamped.Loc != donor {
		t.Error("root Loc not stamped")
	}
	call := stamped.Data.(*ECall)
	if call.Target.Loc != donor {
		t.Error("Target Loc not stamped")
	}
	if call.Args[0].Loc != donor {
		t.Error("Args[0] Loc not stamped")
	}
}

func TestRemoveStmtAt(t *testing.T) {
	loc := logger.Loc{}
	stmts := []Stmt{Var(loc, "a", nil), Var(loc, "b", nil), Var(loc, "c", nil)}
	removed, rest := RemoveStmtAt(stmts, 1)

	if removed.Data.(*SVar).Name != "b" {
		t.Errorf("removed wrong statement: %q", removed.Data.(*SVar).Name)
	}
	if len(rest) != 2 || rest[0].Data.(*SVar).Name != "a" || rest[1].Data.(*SVar).Name != "c" {
		t.Errorf("got rest %v, want [a, c]", names(rest))
	}
}

func TestSpliceAtReplacesOneWithMany(t *testing.T) {
	loc := logger.Loc{}
	stmts := []Stmt{Var(loc, "a", nil), Var(loc, "b", nil)}
	replacement := []Stmt{Var(loc, "x", nil), Var(loc, "y", nil), Var(loc, "z", nil)}
	got := SpliceAt(stmts, 0, replacement)

	want := []string{"x", "y", "z", "b"}
	if !namesEqual(got, want) {
		t.Errorf("got %v, want %v", names(got), want)
	}
}

func TestPrependAndAppendStmtsDoNotMutateInput(t *testing.T) {
	loc := logger.Loc{}
	original := []Stmt{Var(loc, "a", nil)}

	withFront := PrependStmts(original, Var(loc, "x", nil))
	withBack := AppendStmts(original, Var(loc, "z", nil))

	if len(original) != 1 {
		t.Fatalf("PrependStmts/AppendStmts mutated the original slice, len=%d", len(original))
	}
	if !namesEqual(withFront, []string{"x", "a"}) {
		t.Errorf("got %v, want [x, a]", names(withFront))
	}
	if !namesEqual(withBack, []string{"a", "z"}) {
		t.Errorf("got %v, want [a, z]", names(withBack))
	}
}

func names(stmts []Stmt) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.Data.(*SVar).Name
	}
	return out
}

func namesEqual(stmts []Stmt, want []string) bool {
	got := names(stmts)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

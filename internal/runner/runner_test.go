package runner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modnorm/modnorm/internal/logger"
	"github.com/modnorm/modnorm/internal/printer"
	"github.com/modnorm/modnorm/internal/sourcemap"
)

func TestRewrittenPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a/b.js", "a/b.norm.js"},
		{"b.js", "b.norm.js"},
		{"a/b.mjs", "a/b.norm.mjs"},
	}
	for _, c := range cases {
		if got := rewrittenPath(c.in); got != c.want {
			t.Errorf("rewrittenPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToSourceMapMappingsPreservesOrderAndLoc(t *testing.T) {
	stmtMappings := []printer.StmtMapping{
		{GeneratedLine: 0, Loc: logger.Loc{Start: 0}},
		{GeneratedLine: 1, Loc: logger.Loc{Start: 10}},
	}
	want := []sourcemap.Mapping{
		{GeneratedLine: 0, OriginalLoc: logger.Loc{Start: 0}},
		{GeneratedLine: 1, OriginalLoc: logger.Loc{Start: 10}},
	}
	got := toSourceMapMappings(stmtMappings)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toSourceMapMappings mismatch (-want +got):\n%s", diff)
	}
}

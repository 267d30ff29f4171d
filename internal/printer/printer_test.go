package printer

import (
	"strings"
	"testing"

	"github.com/modnorm/modnorm/internal/minijs"
)

func printMinified(t *testing.T, src string) string {
	t.Helper()
	script, err := minijs.Parse("<test>", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return strings.TrimSpace(Print(script.Stmts, Options{MinifyWhitespace: true}))
}

func TestPrintCallWithArgs(t *testing.T) {
	got := printMinified(t, `foo(1, "a", bar);`)
	want := `foo(1,"a",bar);`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintObjectLiteralOmitsSpaceAfterColonWhenMinified(t *testing.T) {
	got := printMinified(t, `var x = {a: 1, b: 2};`)
	want := `var x = {a:1,b:2};`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintAssignmentIsAlwaysSpacedEvenWhenMinified(t *testing.T) {
	got := printMinified(t, `x = 1;`)
	want := `x = 1;`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintBinaryOmitsSpacesWhenMinified(t *testing.T) {
	got := printMinified(t, `x = a+b;`)
	want := `x = a+b;`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintMemberAccessAndCallChain(t *testing.T) {
	got := printMinified(t, `module.exports = a.b(c).d;`)
	want := `module.exports = a.b(c).d;`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintStringEscaping(t *testing.T) {
	got := printMinified(t, `x = "a\"b\\c";`)
	want := `x = "a\"b\\c";`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintNormalModeUsesNewlinesBetweenStatements(t *testing.T) {
	script, err := minijs.Parse("<test>", `var a = 1; var b = 2;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	got := Print(script.Stmts, Options{})
	if !strings.Contains(got, "var a = 1;\nvar b = 2;\n") {
		t.Errorf("got %q, want one statement per line", got)
	}
}

func TestPrintWithMappingsRecordsOnePerTopLevelStatement(t *testing.T) {
	script, err := minijs.Parse("<test>", `var a = 1; var b = 2; var c = 3;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, mappings := PrintWithMappings(script.Stmts, Options{})
	if len(mappings) != 3 {
		t.Fatalf("got %d mappings, want 3", len(mappings))
	}
	if mappings[0].GeneratedLine != 0 || mappings[1].GeneratedLine != 1 || mappings[2].GeneratedLine != 2 {
		t.Errorf("got generated lines %d, %d, %d, want 0, 1, 2",
			mappings[0].GeneratedLine, mappings[1].GeneratedLine, mappings[2].GeneratedLine)
	}
}

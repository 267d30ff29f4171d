// Package printer serializes a jsast.Script back to JavaScript source text.
// Trimmed from esbuild's internal/js_printer idiom (a single recursive print
// walking the tree once, building output in a strings.Builder) down to the
// node set internal/jsast defines.
package printer

import (
	"strconv"
	"strings"

	"github.com/modnorm/modnorm/internal/jsast"
	"github.com/modnorm/modnorm/internal/logger"
)

// Options controls output shape. MinifyWhitespace drops the printer's
// default one-statement-per-line layout in favor of a single dense line,
// matching how the worked examples in this project's fixtures are written.
type Options struct {
	MinifyWhitespace bool
}

// Print renders every statement in stmts in order, terminating each
// expression, var and return statement with a semicolon; if and block
// statements end with their closing brace.
func Print(stmts []jsast.Stmt, opts Options) string {
	p := &printer{opts: opts}
	for _, s := range stmts {
		p.printStmt(s)
	}
	return p.sb.String()
}

// PrintScript is a convenience wrapper over Print for a whole Script.
func PrintScript(script *jsast.Script, opts Options) string {
	return Print(script.Stmts, opts)
}

// StmtMapping is one top-level statement's generated line and the source
// Loc it should be blamed on; PrintWithMappings records one per statement so a caller
// building a source map doesn't need its own copy of the printer's line
// counting.
type StmtMapping struct {
	GeneratedLine int
	Loc           logger.Loc
}

// PrintWithMappings is Print plus a StmtMapping per top-level statement, at
// the granularity this printer can offer without a per-token position
// table.
func PrintWithMappings(stmts []jsast.Stmt, opts Options) (string, []StmtMapping) {
	p := &printer{opts: opts}
	var mappings []StmtMapping
	for _, s := range stmts {
		mappings = append(mappings, StmtMapping{GeneratedLine: p.lineCount(), Loc: s.Loc})
		p.printStmt(s)
	}
	return p.sb.String(), mappings
}

func (p *printer) lineCount() int {
	count := 0
	for _, r := range p.sb.String() {
		if r == '\n' {
			count++
		}
	}
	return count
}

type printer struct {
	sb   strings.Builder
	opts Options
}

func (p *printer) space() {
	if !p.opts.MinifyWhitespace {
		p.sb.WriteByte(' ')
	}
}

func (p *printer) newline() {
	if p.opts.MinifyWhitespace {
		p.sb.WriteByte(' ')
	} else {
		p.sb.WriteByte('\n')
	}
}

func (p *printer) printStmt(s jsast.Stmt) {
	switch d := s.Data.(type) {
	case *jsast.SExpr:
		p.printExpr(d.Value, 0)
		p.sb.WriteByte(';')
		p.newline()
	case *jsast.SVar:
		p.sb.WriteString("var ")
		p.sb.WriteString(d.Name)
		if d.InitOrNil != nil {
			p.sb.WriteByte(' ')
			p.sb.WriteByte('=')
			p.sb.WriteByte(' ')
			p.printExpr(*d.InitOrNil, precAssign)
		}
		p.sb.WriteByte(';')
		p.newline()
	case *jsast.SReturn:
		p.sb.WriteString("return")
		if d.ValueOrNil != nil {
			p.sb.WriteByte(' ')
			p.printExpr(*d.ValueOrNil, precAssign)
		}
		p.sb.WriteByte(';')
		p.newline()
	case *jsast.SIf:
		p.sb.WriteString("if (")
		p.printExpr(d.Test, 0)
		p.sb.WriteByte(')')
		p.space()
		p.sb.WriteByte('{')
		p.newline()
		for _, s2 := range d.Then {
			p.printStmt(s2)
		}
		p.sb.WriteByte('}')
		p.newline()
	case *jsast.SBlock:
		p.sb.WriteByte('{')
		p.newline()
		for _, s2 := range d.Stmts {
			p.printStmt(s2)
		}
		p.sb.WriteByte('}')
		p.newline()
	}
}

// Precedence levels, low to high, just deep enough to tell assignment,
// binary, and call/member expressions apart when deciding whether to
// parenthesize a nested expression.
const (
	precAssign = iota
	precBinary
	precCall
)

func (p *printer) printExpr(e jsast.Expr, minPrec int) {
	switch d := e.Data.(type) {
	case *jsast.EName:
		p.sb.WriteString(d.Name)
	case *jsast.EString:
		p.sb.WriteByte('"')
		p.sb.WriteString(escapeString(d.Value))
		p.sb.WriteByte('"')
	case *jsast.ENumber:
		p.sb.WriteString(strconv.FormatFloat(d.Value, 'g', -1, 64))
	case *jsast.ENull:
		p.sb.WriteString("null")
	case *jsast.ECall:
		p.printExpr(d.Target, precCall)
		p.sb.WriteByte('(')
		for i, a := range d.Args {
			if i > 0 {
				p.sb.WriteByte(',')
				p.space()
			}
			p.printExpr(a, precAssign)
		}
		p.sb.WriteByte(')')
	case *jsast.EDot:
		p.printExpr(d.Target, precCall)
		p.sb.WriteByte('.')
		p.sb.WriteString(d.Name)
	case *jsast.EArray:
		p.sb.WriteByte('[')
		for i, it := range d.Items {
			if i > 0 {
				p.sb.WriteByte(',')
				p.space()
			}
			p.printExpr(it, precAssign)
		}
		p.sb.WriteByte(']')
	case *jsast.EObject:
		p.sb.WriteByte('{')
		for i, prop := range d.Properties {
			if i > 0 {
				p.sb.WriteByte(',')
				p.space()
			}
			p.sb.WriteString(prop.Key)
			p.sb.WriteByte(':')
			p.space()
			p.printExpr(prop.Value, precAssign)
		}
		p.sb.WriteByte('}')
	case *jsast.EFunction:
		p.sb.WriteString("function(")
		p.sb.WriteString(strings.Join(d.Params, ","))
		p.sb.WriteByte(')')
		p.space()
		p.sb.WriteByte('{')
		p.newline()
		for _, s := range d.Body {
			p.printStmt(s)
		}
		p.sb.WriteByte('}')
	case *jsast.EAssign:
		wrap := minPrec > precAssign
		if wrap {
			p.sb.WriteByte('(')
		}
		p.printExpr(d.Target, precAssign)
		p.sb.WriteString(" = ")
		p.printExpr(d.Value, precAssign)
		if wrap {
			p.sb.WriteByte(')')
		}
	case *jsast.EBinary:
		wrap := minPrec > precBinary
		if wrap {
			p.sb.WriteByte('(')
		}
		p.printExpr(d.Left, precBinary)
		p.space()
		p.sb.WriteString(d.Op)
		p.space()
		p.printExpr(d.Right, precBinary)
		if wrap {
			p.sb.WriteByte(')')
		}
	}
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

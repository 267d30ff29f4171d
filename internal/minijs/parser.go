package minijs

import (
	"fmt"

	"github.com/modnorm/modnorm/internal/jsast"
	"github.com/modnorm/modnorm/internal/logger"
)

// Parse lexes and parses source into a Script whose SourceFile is sourceName
// (used for diagnostics and module-name derivation downstream). Parse errors
// are returned as a Go error — a malformed file can't be handed to either
// rewrite pass at all, so this isn't a diagnostic the passes' logger reports.
func Parse(sourceName, src string) (*jsast.Script, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: src}
	stmts, err := p.parseStmts(func() bool { return p.at(tEOF, "") })
	if err != nil {
		return nil, err
	}
	return &jsast.Script{SourceFile: sourceName, Stmts: stmts}, nil
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) at(kind tokenKind, text string) bool {
	t := p.cur()
	if t.kind != kind {
		return false
	}
	return text == "" || t.text == text
}

func (p *parser) advance() token {
	t := p.cur()
	if t.kind != tEOF {
		p.pos++
	}
	return t
}

func (p *parser) expectPunct(text string) error {
	if !p.at(tPunct, text) {
		return fmt.Errorf("expected %q at byte %d, found %q", text, p.cur().start, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *parser) loc() logger.Loc { return logger.Loc{Start: p.cur().start} }

func (p *parser) parseStmts(stop func() bool) ([]jsast.Stmt, error) {
	var out []jsast.Stmt
	for !stop() {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *parser) parseStmt() (jsast.Stmt, error) {
	loc := p.loc()
	switch {
	case p.at(tIdent, "var"):
		p.advance()
		if !p.at(tIdent, "") {
			return jsast.Stmt{}, fmt.Errorf("expected identifier after \"var\" at byte %d", p.cur().start)
		}
		name := p.advance().text
		var initOrNil *jsast.Expr
		if p.at(tPunct, "=") {
			p.advance()
			e, err := p.parseAssign()
			if err != nil {
				return jsast.Stmt{}, err
			}
			initOrNil = &e
		}
		if err := p.expectPunct(";"); err != nil {
			return jsast.Stmt{}, err
		}
		return jsast.Var(loc, name, initOrNil), nil

	case p.at(tIdent, "return"):
		p.advance()
		if p.at(tPunct, ";") {
			p.advance()
			return jsast.Stmt{Loc: loc, Data: &jsast.SReturn{}}, nil
		}
		e, err := p.parseAssign()
		if err != nil {
			return jsast.Stmt{}, err
		}
		if err := p.expectPunct(";"); err != nil {
			return jsast.Stmt{}, err
		}
		return jsast.Stmt{Loc: loc, Data: &jsast.SReturn{ValueOrNil: &e}}, nil

	case p.at(tIdent, "if"):
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return jsast.Stmt{}, err
		}
		test, err := p.parseAssign()
		if err != nil {
			return jsast.Stmt{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return jsast.Stmt{}, err
		}
		then, err := p.parseBlockOrStmt()
		if err != nil {
			return jsast.Stmt{}, err
		}
		return jsast.If(loc, test, then), nil

	case p.at(tPunct, "{"):
		stmts, err := p.parseBlockOrStmt()
		if err != nil {
			return jsast.Stmt{}, err
		}
		return jsast.Stmt{Loc: loc, Data: &jsast.SBlock{Stmts: stmts}}, nil

	default:
		e, err := p.parseAssign()
		if err != nil {
			return jsast.Stmt{}, err
		}
		if err := p.expectPunct(";"); err != nil {
			return jsast.Stmt{}, err
		}
		return jsast.ExprStmt(loc, e), nil
	}
}

// parseBlockOrStmt requires a "{ ... }" block; this grammar slice never
// needs a bare single statement as an if-body since every worked input
// writes one explicitly.
func (p *parser) parseBlockOrStmt() ([]jsast.Stmt, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts(func() bool { return p.at(tPunct, "}") })
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseAssign() (jsast.Expr, error) {
	left, err := p.parseBinary()
	if err != nil {
		return jsast.Expr{}, err
	}
	if p.at(tPunct, "=") {
		loc := p.loc()
		p.advance()
		right, err := p.parseAssign()
		if err != nil {
			return jsast.Expr{}, err
		}
		return jsast.Assign(loc, left, right), nil
	}
	return left, nil
}

func (p *parser) parseBinary() (jsast.Expr, error) {
	left, err := p.parseUnaryOrCall()
	if err != nil {
		return jsast.Expr{}, err
	}
	for p.at(tPunct, "+") || p.at(tPunct, "-") {
		loc := p.loc()
		op := p.advance().text
		right, err := p.parseUnaryOrCall()
		if err != nil {
			return jsast.Expr{}, err
		}
		left = jsast.Expr{Loc: loc, Data: &jsast.EBinary{Op: op, Left: left, Right: right}}
	}
	return left, nil
}

func (p *parser) parseUnaryOrCall() (jsast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return jsast.Expr{}, err
	}
	for {
		switch {
		case p.at(tPunct, "."):
			p.advance()
			if !p.at(tIdent, "") {
				return jsast.Expr{}, fmt.Errorf("expected property name at byte %d", p.cur().start)
			}
			name := p.advance().text
			e = jsast.PropertyAccess(e.Loc, e, name)
		case p.at(tPunct, "("):
			loc := p.loc()
			p.advance()
			var args []jsast.Expr
			for !p.at(tPunct, ")") {
				a, err := p.parseAssign()
				if err != nil {
					return jsast.Expr{}, err
				}
				args = append(args, a)
				if p.at(tPunct, ",") {
					p.advance()
				}
			}
			p.advance()
			_, isName := jsast.IsName(e)
			e = jsast.Expr{Loc: loc, Data: &jsast.ECall{Target: e, Args: args, IsFreeCall: isName}}
		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimary() (jsast.Expr, error) {
	loc := p.loc()
	t := p.cur()
	switch {
	case t.kind == tIdent && t.text == "function":
		return p.parseFunction()
	case t.kind == tIdent && t.text == "null":
		p.advance()
		return jsast.NullLit(loc), nil
	case t.kind == tIdent:
		p.advance()
		return jsast.Name(loc, t.text), nil
	case t.kind == tString:
		p.advance()
		return jsast.StringLit(loc, t.text), nil
	case t.kind == tNumber:
		p.advance()
		v, err := parseNumber(t.text)
		if err != nil {
			return jsast.Expr{}, fmt.Errorf("bad number literal %q at byte %d: %w", t.text, t.start, err)
		}
		return jsast.Expr{Loc: loc, Data: &jsast.ENumber{Value: v}}, nil
	case t.kind == tPunct && t.text == "(":
		p.advance()
		e, err := p.parseAssign()
		if err != nil {
			return jsast.Expr{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return jsast.Expr{}, err
		}
		return e, nil
	case t.kind == tPunct && t.text == "[":
		p.advance()
		var items []jsast.Expr
		for !p.at(tPunct, "]") {
			e, err := p.parseAssign()
			if err != nil {
				return jsast.Expr{}, err
			}
			items = append(items, e)
			if p.at(tPunct, ",") {
				p.advance()
			}
		}
		p.advance()
		return jsast.Expr{Loc: loc, Data: &jsast.EArray{Items: items}}, nil
	case t.kind == tPunct && t.text == "{":
		p.advance()
		var props []jsast.Property
		for !p.at(tPunct, "}") {
			if !p.at(tIdent, "") && !p.at(tString, "") {
				return jsast.Expr{}, fmt.Errorf("expected property key at byte %d", p.cur().start)
			}
			key := p.advance().text
			if err := p.expectPunct(":"); err != nil {
				return jsast.Expr{}, err
			}
			val, err := p.parseAssign()
			if err != nil {
				return jsast.Expr{}, err
			}
			props = append(props, jsast.Property{Key: key, Value: val})
			if p.at(tPunct, ",") {
				p.advance()
			}
		}
		p.advance()
		return jsast.Expr{Loc: loc, Data: &jsast.EObject{Properties: props}}, nil
	default:
		return jsast.Expr{}, fmt.Errorf("unexpected token %q at byte %d", t.text, t.start)
	}
}

func (p *parser) parseFunction() (jsast.Expr, error) {
	loc := p.loc()
	p.advance() // "function"
	if err := p.expectPunct("("); err != nil {
		return jsast.Expr{}, err
	}
	var params []string
	for !p.at(tPunct, ")") {
		if !p.at(tIdent, "") {
			return jsast.Expr{}, fmt.Errorf("expected parameter name at byte %d", p.cur().start)
		}
		params = append(params, p.advance().text)
		if p.at(tPunct, ",") {
			p.advance()
		}
	}
	p.advance()
	body, err := p.parseBlockOrStmt()
	if err != nil {
		return jsast.Expr{}, err
	}
	return jsast.Expr{Loc: loc, Data: &jsast.EFunction{Params: params, Body: body}}, nil
}

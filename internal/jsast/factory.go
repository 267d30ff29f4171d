package jsast

import "github.com/modnorm/modnorm/internal/logger"

// --- Factory -----------------------------------------------------------
//
// Constructors for every node kind passes need to synthesize. Passes build
// most new syntax through these rather than composing literals directly,
// so every synthesized node location is explicit at the call site.

func Name(loc logger.Loc, name string) Expr {
	return Expr{Loc: loc, Data: &EName{Name: name}}
}

func StringLit(loc logger.Loc, value string) Expr {
	return Expr{Loc: loc, Data: &EString{Value: value}}
}

func NullLit(loc logger.Loc) Expr {
	return Expr{Loc: loc, Data: &ENull{}}
}

// Call builds a call expression. The free-call flag is set exactly when
// callee is a bare name (as for a synthesized "require(...)" call) and left
// false for a method call such as "goog.provide(...)".
func Call(loc logger.Loc, callee Expr, args ...Expr) Expr {
	_, isName := callee.Data.(*EName)
	return Expr{Loc: loc, Data: &ECall{Target: callee, Args: args, IsFreeCall: isName}}
}

func PropertyAccess(loc logger.Loc, obj Expr, name string) Expr {
	return Expr{Loc: loc, Data: &EDot{Target: obj, Name: name}}
}

func Assign(loc logger.Loc, lhs Expr, rhs Expr) Expr {
	return Expr{Loc: loc, Data: &EAssign{Target: lhs, Value: rhs}}
}

func ObjectLit(loc logger.Loc, props ...Property) Expr {
	return Expr{Loc: loc, Data: &EObject{Properties: props}}
}

// Var builds a "var name [= init];" statement. Pass nil for initOrNil to
// leave the binding uninitialized.
func Var(loc logger.Loc, name string, initOrNil *Expr) Stmt {
	return Stmt{Loc: loc, Data: &SVar{Name: name, InitOrNil: initOrNil}}
}

func ExprStmt(loc logger.Loc, expr Expr) Stmt {
	return Stmt{Loc: loc, Data: &SExpr{Value: expr}}
}

func If(loc logger.Loc, cond Expr, then []Stmt) Stmt {
	return Stmt{Loc: loc, Data: &SIf{Test: cond, Then: then}}
}

func Block(loc logger.Loc, stmts ...Stmt) Stmt {
	return Stmt{Loc: loc, Data: &SBlock{Stmts: stmts}}
}

// --- Predicates ----------------------------------------------------------
//
// Named kind tests. Most pass code still reaches for a direct type switch
// (the idiomatic Go way to do exhaustive dispatch on a closed variant), but
// these read naturally at a single trigger check, e.g. "is this call's
// callee a name node".

func IsCall(e Expr) (*ECall, bool)         { c, ok := e.Data.(*ECall); return c, ok }
func IsName(e Expr) (*EName, bool)         { n, ok := e.Data.(*EName); return n, ok }
func IsString(e Expr) (*EString, bool)     { s, ok := e.Data.(*EString); return s, ok }
func IsFunction(e Expr) (*EFunction, bool) { f, ok := e.Data.(*EFunction); return f, ok }
func IsArrayLit(e Expr) (*EArray, bool)    { a, ok := e.Data.(*EArray); return a, ok }
func IsObjectLit(e Expr) (*EObject, bool)  { o, ok := e.Data.(*EObject); return o, ok }
func IsPropertyAccess(e Expr) (*EDot, bool) {
	d, ok := e.Data.(*EDot)
	return d, ok
}

func IsExpressionStatement(s Stmt) (*SExpr, bool) { e, ok := s.Data.(*SExpr); return e, ok }
func IsReturn(s Stmt) (*SReturn, bool)            { r, ok := s.Data.(*SReturn); return r, ok }
func IsBlock(s Stmt) (*SBlock, bool)              { b, ok := s.Data.(*SBlock); return b, ok }

// --- Source-info propagation ---------------------------------------------

// StampLoc overwrites the Loc of every node in the expression subtree with
// donor, so a synthesized node's whole subtree traces back to a single
// coherent source position. Used when a clone or a freshly built subtree
// needs that.
func StampLoc(e Expr, donor logger.Loc) Expr {
	e.Loc = donor
	switch d := e.Data.(type) {
	case *ECall:
		d.Target = StampLoc(d.Target, donor)
		for i := range d.Args {
			d.Args[i] = StampLoc(d.Args[i], donor)
		}
	case *EDot:
		d.Target = StampLoc(d.Target, donor)
	case *EArray:
		for i := range d.Items {
			d.Items[i] = StampLoc(d.Items[i], donor)
		}
	case *EObject:
		for i := range d.Properties {
			d.Properties[i].Value = StampLoc(d.Properties[i].Value, donor)
		}
	case *EAssign:
		d.Target = StampLoc(d.Target, donor)
		d.Value = StampLoc(d.Value, donor)
	case *EBinary:
		d.Left = StampLoc(d.Left, donor)
		d.Right = StampLoc(d.Right, donor)
	case *EFunction:
		d.Body = StampLocStmts(d.Body, donor)
	}
	return e
}

func StampLocStmts(stmts []Stmt, donor logger.Loc) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = StampLocStmt(s, donor)
	}
	return out
}

func StampLocStmt(s Stmt, donor logger.Loc) Stmt {
	s.Loc = donor
	switch d := s.Data.(type) {
	case *SExpr:
		d.Value = StampLoc(d.Value, donor)
	case *SVar:
		if d.InitOrNil != nil {
			v := StampLoc(*d.InitOrNil, donor)
			d.InitOrNil = &v
		}
	case *SReturn:
		if d.ValueOrNil != nil {
			v := StampLoc(*d.ValueOrNil, donor)
			d.ValueOrNil = &v
		}
	case *SIf:
		d.Test = StampLoc(d.Test, donor)
		d.Then = StampLocStmts(d.Then, donor)
	case *SBlock:
		d.Stmts = StampLocStmts(d.Stmts, donor)
	}
	return s
}

// CloneExpr deep-copies an expression subtree. Passes use this rather than
// reusing a node reference in two places, since nodes are parent-owned and
// sharing a node across two parents would make mutating one silently
// corrupt the other.
func CloneExpr(e Expr) Expr {
	switch d := e.Data.(type) {
	case *EName:
		c := *d
		return Expr{Loc: e.Loc, Data: &c}
	case *EString:
		c := *d
		return Expr{Loc: e.Loc, Data: &c}
	case *ENumber:
		c := *d
		return Expr{Loc: e.Loc, Data: &c}
	case *ENull:
		return Expr{Loc: e.Loc, Data: &ENull{}}
	case *ECall:
		args := make([]Expr, len(d.Args))
		for i, a := range d.Args {
			args[i] = CloneExpr(a)
		}
		return Expr{Loc: e.Loc, Data: &ECall{Target: CloneExpr(d.Target), Args: args, IsFreeCall: d.IsFreeCall}}
	case *EDot:
		return Expr{Loc: e.Loc, Data: &EDot{Target: CloneExpr(d.Target), Name: d.Name}}
	case *EArray:
		items := make([]Expr, len(d.Items))
		for i, it := range d.Items {
			items[i] = CloneExpr(it)
		}
		return Expr{Loc: e.Loc, Data: &EArray{Items: items}}
	case *EObject:
		props := make([]Property, len(d.Properties))
		for i, p := range d.Properties {
			props[i] = Property{Key: p.Key, Value: CloneExpr(p.Value)}
		}
		return Expr{Loc: e.Loc, Data: &EObject{Properties: props}}
	case *EFunction:
		params := append([]string(nil), d.Params...)
		return Expr{Loc: e.Loc, Data: &EFunction{Params: params, Body: CloneStmts(d.Body)}}
	case *EAssign:
		return Expr{Loc: e.Loc, Data: &EAssign{Target: CloneExpr(d.Target), Value: CloneExpr(d.Value)}}
	case *EBinary:
		return Expr{Loc: e.Loc, Data: &EBinary{Op: d.Op, Left: CloneExpr(d.Left), Right: CloneExpr(d.Right)}}
	default:
		return e
	}
}

func CloneStmts(stmts []Stmt) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStmt(s)
	}
	return out
}

func CloneStmt(s Stmt) Stmt {
	switch d := s.Data.(type) {
	case *SExpr:
		return Stmt{Loc: s.Loc, Data: &SExpr{Value: CloneExpr(d.Value)}}
	case *SVar:
		var init *Expr
		if d.InitOrNil != nil {
			v := CloneExpr(*d.InitOrNil)
			init = &v
		}
		return Stmt{Loc: s.Loc, Data: &SVar{Name: d.Name, InitOrNil: init}}
	case *SReturn:
		var val *Expr
		if d.ValueOrNil != nil {
			v := CloneExpr(*d.ValueOrNil)
			val = &v
		}
		return Stmt{Loc: s.Loc, Data: &SReturn{ValueOrNil: val}}
	case *SIf:
		return Stmt{Loc: s.Loc, Data: &SIf{Test: CloneExpr(d.Test), Then: CloneStmts(d.Then)}}
	case *SBlock:
		return Stmt{Loc: s.Loc, Data: &SBlock{Stmts: CloneStmts(d.Stmts)}}
	default:
		return s
	}
}

// --- Script-level structural access ---------------------------------------
//
// Generic child-index operations (remove-child, insert-before,
// append-to-front/back) over a Go slice are just slice surgery; the helpers
// below implement them without mutating their input slice. The amd and cjs
// passes assemble their output statement lists inline and do not call them.

// RemoveStmtAt removes and returns the statement at index i; ownership of
// the removed statement transfers to the caller.
func RemoveStmtAt(stmts []Stmt, i int) (removed Stmt, rest []Stmt) {
	removed = stmts[i]
	rest = append(append([]Stmt{}, stmts[:i]...), stmts[i+1:]...)
	return
}

// SpliceAt replaces the statement at index i with replacement (which may be
// any length, including zero), preserving everything before and after.
func SpliceAt(stmts []Stmt, i int, replacement []Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts)-1+len(replacement))
	out = append(out, stmts[:i]...)
	out = append(out, replacement...)
	out = append(out, stmts[i+1:]...)
	return out
}

func PrependStmts(stmts []Stmt, front ...Stmt) []Stmt {
	return append(append([]Stmt{}, front...), stmts...)
}

func AppendStmts(stmts []Stmt, back ...Stmt) []Stmt {
	return append(append([]Stmt{}, stmts...), back...)
}

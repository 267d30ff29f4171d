// Package jsast defines the JavaScript AST node set the two rewrite passes
// operate on. It is deliberately a small slice of full ES grammar — just
// enough for function calls, object/array literals, property access, and
// the handful of statement forms AMD and CommonJS modules actually use —
// rather than esbuild's full js_ast, since the parser producing these trees
// only needs to hand callers a node set rich enough for that grammar slice.
//
// The style follows esbuild's internal/js_ast: a tagged union via an empty
// marker interface (E for expressions, S for statements) implemented by
// pointer receivers, with a wrapper struct pairing the payload with its
// source Loc. Where esbuild resolves identifiers to a Ref into a symbol
// table, nodes here hold the identifier directly as a mutable string field —
// simpler, and sufficient since neither pass needs cross-scope symbol
// resolution beyond what internal/scope already provides.
package jsast

import "github.com/modnorm/modnorm/internal/logger"

// Expr wraps an expression payload with the source location it should be
// blamed on. Every node synthesized by a pass must set Loc from a donor node
// in the subtree it's replacing.
type Expr struct {
	Data E
	Loc  logger.Loc
}

// E is the marker interface for expression payloads, never called directly;
// its only job is to let Go's type system encode a closed variant type.
type E interface{ isExpr() }

func (*EName) isExpr()     {}
func (*EString) isExpr()   {}
func (*ENumber) isExpr()   {}
func (*ENull) isExpr()     {}
func (*ECall) isExpr()     {}
func (*EDot) isExpr()      {}
func (*EArray) isExpr()    {}
func (*EObject) isExpr()   {}
func (*EFunction) isExpr() {}
func (*EAssign) isExpr()   {}
func (*EBinary) isExpr()   {}

// EName is a bare identifier reference, e.g. "foo". Renaming passes mutate
// Name in place.
type EName struct {
	Name string
}

type EString struct {
	Value string
}

type ENumber struct {
	Value float64
}

type ENull struct{}

// ECall is a call expression. IsFreeCall marks that Target is a bare
// identifier, not a method — set on every synthesized require(...) call so
// downstream passes don't mistake it for a method call.
type ECall struct {
	Target     Expr
	Args       []Expr
	IsFreeCall bool
}

// EDot is a property access, "obj.name". Property names are not identifiers
// and are never renamed or suffixed.
type EDot struct {
	Target Expr
	Name   string
}

type EArray struct {
	Items []Expr
}

type Property struct {
	Key   string
	Value Expr
}

type EObject struct {
	Properties []Property
}

// EFunction is a function expression: "function(a, b) { ... }". Params are
// plain names (no defaults/rest — out of the grammar slice this project
// covers); Body is a statement list.
type EFunction struct {
	Params []string
	Body   []Stmt
}

// EAssign is "lhs = rhs".
type EAssign struct {
	Target Expr
	Value  Expr
}

type EBinary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Stmt wraps a statement payload with its source location, mirroring Expr.
type Stmt struct {
	Data S
	Loc  logger.Loc
}

type S interface{ isStmt() }

func (*SExpr) isStmt()   {}
func (*SVar) isStmt()    {}
func (*SReturn) isStmt() {}
func (*SIf) isStmt()     {}
func (*SBlock) isStmt()  {}

type SExpr struct {
	Value Expr
}

// SVar is "var name [= init];". InitOrNil is nil for an uninitialized
// binding.
type SVar struct {
	Name      string
	InitOrNil *Expr
}

// SReturn is "return [value];". ValueOrNil is nil for a bare "return;".
type SReturn struct {
	ValueOrNil *Expr
}

type SIf struct {
	Test Expr
	Then []Stmt
}

type SBlock struct {
	Stmts []Stmt
}

// Script is the per-file compilation unit: SourceFile is the name used for
// diagnostics and module-name derivation, Stmts its top-level statements.
type Script struct {
	SourceFile string
	Stmts      []Stmt
}

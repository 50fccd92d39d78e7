// Package ast defines the small statement and expression tree carried by the
// bodies of compilable host functions.
package ast

import (
	"scriptc/report"

	"github.com/zclconf/go-cty/cty"
)

// Node is the parent interface for all AST nodes.
type Node interface {
	// Span returns the span over which the node occurs.
	Span() *report.TextSpan
}

// NodeBase is the base struct for all AST nodes.
type NodeBase struct {
	span *report.TextSpan
}

// NewNodeBase creates a new node base spanning span.
func NewNodeBase(span *report.TextSpan) NodeBase {
	return NodeBase{span: span}
}

func (nb *NodeBase) Span() *report.TextSpan {
	return nb.span
}

// -----------------------------------------------------------------------------

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Name is a reference to a parameter, `self`, or a free variable.
type Name struct {
	NodeBase
	Ident string
}

func (*Name) expr() {}

// Attr is an attribute access: `value.field`.
type Attr struct {
	NodeBase
	Value Expr
	Field string
}

func (*Attr) expr() {}

// Keyword is a keyword argument of a call.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is a call expression.
type Call struct {
	NodeBase
	Func   Expr
	Args   []Expr
	Kwargs []Keyword
}

func (*Call) expr() {}

// Const is a literal constant.
type Const struct {
	NodeBase
	Value cty.Value

	// IsFloat distinguishes float literals from integer literals.
	IsFloat bool
}

func (*Const) expr() {}

// Tuple is a tuple display: `(a, b)`.
type Tuple struct {
	NodeBase
	Elems []Expr
}

func (*Tuple) expr() {}

// -----------------------------------------------------------------------------

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Return returns a value from the function.  A nil value returns None.
type Return struct {
	NodeBase
	Value Expr
}

func (*Return) stmt() {}

// Assign assigns a value to one or more targets.  Multiple targets unpack the
// value as a tuple.  Targets are names or attributes.
type Assign struct {
	NodeBase
	Targets []Expr
	Value   Expr
}

func (*Assign) stmt() {}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	NodeBase
	Value Expr
}

func (*ExprStmt) stmt() {}

// -----------------------------------------------------------------------------
// Convenience constructors used when building bodies in Go code.

// N creates a name reference.
func N(ident string) *Name {
	return &Name{Ident: ident}
}

// A creates an attribute access.
func A(value Expr, field string) *Attr {
	return &Attr{Value: value, Field: field}
}

// C creates a call with positional arguments.
func C(fn Expr, args ...Expr) *Call {
	return &Call{Func: fn, Args: args}
}

// Int creates an integer literal.
func Int(i int64) *Const {
	return &Const{Value: cty.NumberIntVal(i)}
}

// Float creates a float literal.
func Float(f float64) *Const {
	return &Const{Value: cty.NumberFloatVal(f), IsFloat: true}
}

// Bool creates a boolean literal.
func Bool(b bool) *Const {
	return &Const{Value: cty.BoolVal(b)}
}

// Str creates a string literal.
func Str(s string) *Const {
	return &Const{Value: cty.StringVal(s)}
}

// Ret creates a return statement.
func Ret(value Expr) *Return {
	return &Return{Value: value}
}

// Package surface defines the surface dialect: the tree the external parser
// and the block editor produce. It allows multi-parameter closures and calls,
// statements inside procedures, and holes standing for unfinished code.
package surface

import (
	"github.com/funvibe/serendipity/internal/match"
	"github.com/funvibe/serendipity/internal/syntax"
)

// ExprKind discriminates the expression variants.
type ExprKind int

const (
	ExprNumber ExprKind = iota
	ExprString
	ExprBoolean
	ExprName
	ExprAccessor
	ExprArithmetic
	ExprWith
	ExprCall
	ExprClosure
	ExprList
	ExprTuple
	ExprProcedure
	ExprIf
	ExprCompare
	ExprVoid
	ExprHole
)

var exprKindNames = [...]string{
	ExprNumber:     "number",
	ExprString:     "string",
	ExprBoolean:    "boolean",
	ExprName:       "name",
	ExprAccessor:   "accessor",
	ExprArithmetic: "arithmetic",
	ExprWith:       "with",
	ExprCall:       "call",
	ExprClosure:    "closure",
	ExprList:       "list",
	ExprTuple:      "tuple",
	ExprProcedure:  "procedure",
	ExprIf:         "if",
	ExprCompare:    "compare",
	ExprVoid:       "void",
	ExprHole:       "@hole",
}

func (k ExprKind) String() string {
	if k >= 0 && int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

// ExprKinds is the registered discriminant set of Expression.
var ExprKinds = match.NewUniverse(
	ExprNumber, ExprString, ExprBoolean, ExprName, ExprAccessor, ExprArithmetic,
	ExprWith, ExprCall, ExprClosure, ExprList, ExprTuple, ExprProcedure, ExprIf,
	ExprCompare, ExprVoid, ExprHole,
)

// Expression is a node of the surface expression tree.
type Expression interface {
	syntax.Node
	Kind() ExprKind
	expressionNode()
}

type Number struct {
	syntax.Object
	Value float64
}

type String struct {
	syntax.Object
	Value string
}

type Boolean struct {
	syntax.Object
	Value bool
}

type Name struct {
	syntax.Object
	Name string
}

type Accessor struct {
	syntax.Object
	Accessee Expression
	Index    Expression
}

// Arithmetic operators: + - / * %.
type Arithmetic struct {
	syntax.Object
	Op    string
	Left  Expression
	Right Expression
}

// With binds one name for the scope of Expr.
type With struct {
	syntax.Object
	Name  string
	Value Expression
	Expr  Expression
}

type Call struct {
	syntax.Object
	Callee     Expression
	Parameters []Expression
}

type Closure struct {
	syntax.Object
	Parameters []string
	Body       Expression
}

type List struct {
	syntax.Object
	Contents []Expression
}

type Tuple struct {
	syntax.Object
	Values []Expression
}

// Procedure is a block of statements used as an expression.
type Procedure struct {
	syntax.Object
	Body []Statement
}

type If struct {
	syntax.Object
	Cond Expression
	Then Expression
	Else Expression
}

// Compare operators: < > <= >= == !=.
type Compare struct {
	syntax.Object
	Op    string
	Left  Expression
	Right Expression
}

type Void struct {
	syntax.Object
}

// Hole marks an expression the author has not written yet.
type Hole struct {
	syntax.Object
}

func (*Number) Kind() ExprKind     { return ExprNumber }
func (*String) Kind() ExprKind     { return ExprString }
func (*Boolean) Kind() ExprKind    { return ExprBoolean }
func (*Name) Kind() ExprKind       { return ExprName }
func (*Accessor) Kind() ExprKind   { return ExprAccessor }
func (*Arithmetic) Kind() ExprKind { return ExprArithmetic }
func (*With) Kind() ExprKind       { return ExprWith }
func (*Call) Kind() ExprKind       { return ExprCall }
func (*Closure) Kind() ExprKind    { return ExprClosure }
func (*List) Kind() ExprKind       { return ExprList }
func (*Tuple) Kind() ExprKind      { return ExprTuple }
func (*Procedure) Kind() ExprKind  { return ExprProcedure }
func (*If) Kind() ExprKind         { return ExprIf }
func (*Compare) Kind() ExprKind    { return ExprCompare }
func (*Void) Kind() ExprKind       { return ExprVoid }
func (*Hole) Kind() ExprKind       { return ExprHole }

func (*Number) expressionNode()     {}
func (*String) expressionNode()     {}
func (*Boolean) expressionNode()    {}
func (*Name) expressionNode()       {}
func (*Accessor) expressionNode()   {}
func (*Arithmetic) expressionNode() {}
func (*With) expressionNode()       {}
func (*Call) expressionNode()       {}
func (*Closure) expressionNode()    {}
func (*List) expressionNode()       {}
func (*Tuple) expressionNode()      {}
func (*Procedure) expressionNode()  {}
func (*If) expressionNode()         {}
func (*Compare) expressionNode()    {}
func (*Void) expressionNode()       {}
func (*Hole) expressionNode()       {}

// IsArithmeticOp reports whether op is valid for Arithmetic.
func IsArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "/", "*", "%":
		return true
	}
	return false
}

// IsCompareOp reports whether op is valid for Compare.
func IsCompareOp(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=":
		return true
	}
	return false
}

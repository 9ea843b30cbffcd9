// Package abstract defines the lowered dialect: a curried tree with
// single-parameter closures and calls and no statements. It is what the
// optimizer, the back ends and the interpreter consume.
package abstract

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
	ExprCall
	ExprClosure
	ExprTuple
	ExprIf
	ExprBinaryOp
	ExprVoid
)

var exprKindNames = [...]string{
	ExprNumber:   "Number",
	ExprString:   "String",
	ExprBoolean:  "Boolean",
	ExprName:     "Name",
	ExprAccessor: "Accessor",
	ExprCall:     "Call",
	ExprClosure:  "Closure",
	ExprTuple:    "Tuple",
	ExprIf:       "If",
	ExprBinaryOp: "BinaryOp",
	ExprVoid:     "Void",
}

func (k ExprKind) String() string {
	if k >= 0 && int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

// ExprKinds is the registered discriminant set of Expression.
var ExprKinds = match.NewUniverse(
	ExprNumber, ExprString, ExprBoolean, ExprName, ExprAccessor, ExprCall,
	ExprClosure, ExprTuple, ExprIf, ExprBinaryOp, ExprVoid,
)

// Expression is a node of the lowered expression tree.
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

// Call applies Callee to at most one argument. A nil Parameter is a call
// without an argument.
type Call struct {
	syntax.Object
	Callee    Expression
	Parameter Expression
}

// Closure binds at most one parameter. An empty Parameter means the closure
// takes no argument.
type Closure struct {
	syntax.Object
	Parameter string
	Body      Expression
}

type Tuple struct {
	syntax.Object
	Values []Expression
}

type If struct {
	syntax.Object
	Cond Expression
	Then Expression
	Else Expression
}

// BinaryOperator covers both comparison and arithmetic operators.
type BinaryOperator string

const (
	OpLT  BinaryOperator = "<"
	OpGT  BinaryOperator = ">"
	OpLEQ BinaryOperator = "<="
	OpGEQ BinaryOperator = ">="
	OpEQ  BinaryOperator = "=="
	OpNEQ BinaryOperator = "!="
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpDiv BinaryOperator = "/"
	OpMul BinaryOperator = "*"
	OpMod BinaryOperator = "%"
)

// IsArithmetic reports whether op is one of + - * / %.
func (op BinaryOperator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpDiv, OpMul, OpMod:
		return true
	}
	return false
}

// IsComparison reports whether op is one of < > <= >= == !=.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpLT, OpGT, OpLEQ, OpGEQ, OpEQ, OpNEQ:
		return true
	}
	return false
}

type BinaryOp struct {
	syntax.Object
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

type Void struct {
	syntax.Object
}

func (*Number) Kind() ExprKind   { return ExprNumber }
func (*String) Kind() ExprKind   { return ExprString }
func (*Boolean) Kind() ExprKind  { return ExprBoolean }
func (*Name) Kind() ExprKind     { return ExprName }
func (*Accessor) Kind() ExprKind { return ExprAccessor }
func (*Call) Kind() ExprKind     { return ExprCall }
func (*Closure) Kind() ExprKind  { return ExprClosure }
func (*Tuple) Kind() ExprKind    { return ExprTuple }
func (*If) Kind() ExprKind       { return ExprIf }
func (*BinaryOp) Kind() ExprKind { return ExprBinaryOp }
func (*Void) Kind() ExprKind     { return ExprVoid }

func (*Number) expressionNode()   {}
func (*String) expressionNode()   {}
func (*Boolean) expressionNode()  {}
func (*Name) expressionNode()     {}
func (*Accessor) expressionNode() {}
func (*Call) expressionNode()     {}
func (*Closure) expressionNode()  {}
func (*Tuple) expressionNode()    {}
func (*If) expressionNode()       {}
func (*BinaryOp) expressionNode() {}
func (*Void) expressionNode()     {}

// Constructors used by the lowering pass, the interpreter and tests.

func NewNumber(v float64) *Number     { return &Number{Value: v} }
func NewString(v string) *String      { return &String{Value: v} }
func NewBoolean(v bool) *Boolean      { return &Boolean{Value: v} }
func NewName(name string) *Name       { return &Name{Name: name} }
func NewVoid() *Void                  { return &Void{} }
func NewTuple(v ...Expression) *Tuple { return &Tuple{Values: v} }

func NewCall(callee, parameter Expression) *Call {
	return &Call{Callee: callee, Parameter: parameter}
}

func NewClosure(parameter string, body Expression) *Closure {
	return &Closure{Parameter: parameter, Body: body}
}

func NewBinaryOp(op BinaryOperator, left, right Expression) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func NewIf(cond, then, els Expression) *If {
	return &If{Cond: cond, Then: then, Else: els}
}

func NewAccessor(accessee, index Expression) *Accessor {
	return &Accessor{Accessee: accessee, Index: index}
}

package surface

import (
	"github.com/funvibe/serendipity/internal/match"
	"github.com/funvibe/serendipity/internal/syntax"
)

// StmtKind discriminates the statement variants.
type StmtKind int

const (
	StmtPrint StmtKind = iota
	StmtLet
	StmtSet
	StmtIf
	StmtForIn
	StmtForever
	StmtDo
	StmtBreak
	StmtHole
)

var stmtKindNames = [...]string{
	StmtPrint:   "Print",
	StmtLet:     "Let",
	StmtSet:     "Set",
	StmtIf:      "If",
	StmtForIn:   "ForIn",
	StmtForever: "Forever",
	StmtDo:      "Do",
	StmtBreak:   "Break",
	StmtHole:    "@hole",
}

func (k StmtKind) String() string {
	if k >= 0 && int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "StmtKind(?)"
}

// StmtKinds is the registered discriminant set of Statement.
var StmtKinds = match.NewUniverse(
	StmtPrint, StmtLet, StmtSet, StmtIf, StmtForIn, StmtForever, StmtDo, StmtBreak, StmtHole,
)

// Statement is a node inside a Procedure body.
type Statement interface {
	syntax.Node
	Kind() StmtKind
	statementNode()
}

type Print struct {
	syntax.Object
	Value Expression
}

type Let struct {
	syntax.Object
	Name  string
	Value Expression
}

type Set struct {
	syntax.Object
	Name  string
	Value Expression
}

// IfStmt runs Body when Condition holds, Else (optional) otherwise.
type IfStmt struct {
	syntax.Object
	Condition Expression
	Body      Statement
	Else      Statement
}

type ForIn struct {
	syntax.Object
	Binding string
	Value   Expression
	Body    Statement
}

type Forever struct {
	syntax.Object
	Body Statement
}

// Do evaluates an expression for its effects.
type Do struct {
	syntax.Object
	Body Expression
}

type Break struct {
	syntax.Object
}

// HoleStmt marks a statement the author has not written yet.
type HoleStmt struct {
	syntax.Object
}

func (*Print) Kind() StmtKind    { return StmtPrint }
func (*Let) Kind() StmtKind      { return StmtLet }
func (*Set) Kind() StmtKind      { return StmtSet }
func (*IfStmt) Kind() StmtKind   { return StmtIf }
func (*ForIn) Kind() StmtKind    { return StmtForIn }
func (*Forever) Kind() StmtKind  { return StmtForever }
func (*Do) Kind() StmtKind       { return StmtDo }
func (*Break) Kind() StmtKind    { return StmtBreak }
func (*HoleStmt) Kind() StmtKind { return StmtHole }

func (*Print) statementNode()    {}
func (*Let) statementNode()      {}
func (*Set) statementNode()      {}
func (*IfStmt) statementNode()   {}
func (*ForIn) statementNode()    {}
func (*Forever) statementNode()  {}
func (*Do) statementNode()       {}
func (*Break) statementNode()    {}
func (*HoleStmt) statementNode() {}

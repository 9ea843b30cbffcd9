package surface

import "github.com/funvibe/serendipity/internal/match"

// ExpressionPattern destructures an Expression. Either every variant field is
// set, or Default is set.
type ExpressionPattern[T any] struct {
	Number     func(*Number) T
	String     func(*String) T
	Boolean    func(*Boolean) T
	Name       func(*Name) T
	Accessor   func(*Accessor) T
	Arithmetic func(*Arithmetic) T
	With       func(*With) T
	Call       func(*Call) T
	Closure    func(*Closure) T
	List       func(*List) T
	Tuple      func(*Tuple) T
	Procedure  func(*Procedure) T
	If         func(*If) T
	Compare    func(*Compare) T
	Void       func(*Void) T
	Hole       func(*Hole) T

	Default func(Expression) T
}

// MatchExpression builds the dispatch function for p. It panics when p
// leaves a variant unhandled without a Default.
func MatchExpression[T any](p ExpressionPattern[T]) func(Expression) T {
	h := match.Handlers[ExprKind, Expression, T]{}
	add(h, ExprNumber, p.Number)
	add(h, ExprString, p.String)
	add(h, ExprBoolean, p.Boolean)
	add(h, ExprName, p.Name)
	add(h, ExprAccessor, p.Accessor)
	add(h, ExprArithmetic, p.Arithmetic)
	add(h, ExprWith, p.With)
	add(h, ExprCall, p.Call)
	add(h, ExprClosure, p.Closure)
	add(h, ExprList, p.List)
	add(h, ExprTuple, p.Tuple)
	add(h, ExprProcedure, p.Procedure)
	add(h, ExprIf, p.If)
	add(h, ExprCompare, p.Compare)
	add(h, ExprVoid, p.Void)
	add(h, ExprHole, p.Hole)
	return match.Must(match.Build(ExprKinds, h, p.Default))
}

// StatementPattern destructures a Statement.
type StatementPattern[T any] struct {
	Print   func(*Print) T
	Let     func(*Let) T
	Set     func(*Set) T
	If      func(*IfStmt) T
	ForIn   func(*ForIn) T
	Forever func(*Forever) T
	Do      func(*Do) T
	Break   func(*Break) T
	Hole    func(*HoleStmt) T

	Default func(Statement) T
}

// MatchStatement builds the dispatch function for p.
func MatchStatement[T any](p StatementPattern[T]) func(Statement) T {
	h := match.Handlers[StmtKind, Statement, T]{}
	add(h, StmtPrint, p.Print)
	add(h, StmtLet, p.Let)
	add(h, StmtSet, p.Set)
	add(h, StmtIf, p.If)
	add(h, StmtForIn, p.ForIn)
	add(h, StmtForever, p.Forever)
	add(h, StmtDo, p.Do)
	add(h, StmtBreak, p.Break)
	add(h, StmtHole, p.Hole)
	return match.Must(match.Build(StmtKinds, h, p.Default))
}

// GlobalPattern destructures a Global.
type GlobalPattern[T any] struct {
	Main           func(*Main) T
	Define         func(*Define) T
	DefineFunction func(*DefineFunction) T

	Default func(Global) T
}

// MatchGlobal builds the dispatch function for p.
func MatchGlobal[T any](p GlobalPattern[T]) func(Global) T {
	h := match.Handlers[GlobalKind, Global, T]{}
	add(h, GlobalMain, p.Main)
	add(h, GlobalDefine, p.Define)
	add(h, GlobalDefineFunction, p.DefineFunction)
	return match.Must(match.Build(GlobalKinds, h, p.Default))
}

func add[K comparable, V any, N any, T any](h match.Handlers[K, V, T], k K, fn func(N) T) {
	if fn == nil {
		return
	}
	h[k] = func(v V) T { return fn(any(v).(N)) }
}

package abstract

import "github.com/funvibe/serendipity/internal/match"

// ExpressionPattern destructures an Expression. Either every variant field is
// set, or Default is set; MatchExpression refuses anything else.
type ExpressionPattern[T any] struct {
	Number   func(*Number) T
	String   func(*String) T
	Boolean  func(*Boolean) T
	Name     func(*Name) T
	Accessor func(*Accessor) T
	Call     func(*Call) T
	Closure  func(*Closure) T
	Tuple    func(*Tuple) T
	If       func(*If) T
	BinaryOp func(*BinaryOp) T
	Void     func(*Void) T

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
	add(h, ExprCall, p.Call)
	add(h, ExprClosure, p.Closure)
	add(h, ExprTuple, p.Tuple)
	add(h, ExprIf, p.If)
	add(h, ExprBinaryOp, p.BinaryOp)
	add(h, ExprVoid, p.Void)
	return match.Must(match.Build(ExprKinds, h, p.Default))
}

// GlobalPattern destructures a Global.
type GlobalPattern[T any] struct {
	Main   func(*Main) T
	Define func(*Define) T

	Default func(Global) T
}

// MatchGlobal builds the dispatch function for p.
func MatchGlobal[T any](p GlobalPattern[T]) func(Global) T {
	h := match.Handlers[GlobalKind, Global, T]{}
	add(h, GlobalMain, p.Main)
	add(h, GlobalDefine, p.Define)
	return match.Must(match.Build(GlobalKinds, h, p.Default))
}

func add[K comparable, V any, N any, T any](h match.Handlers[K, V, T], k K, fn func(N) T) {
	if fn == nil {
		return
	}
	h[k] = func(v V) T { return fn(any(v).(N)) }
}

// Package lower desugars the surface dialect into the abstract dialect.
//
// Multi-parameter closures and calls are curried, With becomes an applied
// closure, Arithmetic and Compare become BinaryOp, lists become nested pairs
// ending in Void, and procedure bodies become expressions sequenced through
// the __core.seq intrinsic. Holes and statements the abstract dialect cannot
// express are reported as diagnostics.
package lower

import (
	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/pipeline"
	"github.com/funvibe/serendipity/internal/syntax"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
	"github.com/funvibe/serendipity/internal/syntax/surface"
)

// Lowerer is the surface-to-abstract pass.
type Lowerer struct {
	errors diagnostics.List
	expr   func(surface.Expression) abstract.Expression
}

// New creates a Lowerer.
func New() *Lowerer {
	l := &Lowerer{}
	l.expr = surface.MatchExpression(surface.ExpressionPattern[abstract.Expression]{
		Number: func(n *surface.Number) abstract.Expression {
			return from(n, abstract.NewNumber(n.Value))
		},
		String: func(s *surface.String) abstract.Expression {
			return from(s, abstract.NewString(s.Value))
		},
		Boolean: func(b *surface.Boolean) abstract.Expression {
			return from(b, abstract.NewBoolean(b.Value))
		},
		Name: func(n *surface.Name) abstract.Expression {
			return from(n, abstract.NewName(n.Name))
		},
		Void: func(v *surface.Void) abstract.Expression {
			return from(v, abstract.NewVoid())
		},
		Accessor: func(a *surface.Accessor) abstract.Expression {
			return from(a, abstract.NewAccessor(l.expr(a.Accessee), l.expr(a.Index)))
		},
		Arithmetic: func(a *surface.Arithmetic) abstract.Expression {
			return from(a, abstract.NewBinaryOp(abstract.BinaryOperator(a.Op), l.expr(a.Left), l.expr(a.Right)))
		},
		Compare: func(c *surface.Compare) abstract.Expression {
			return from(c, abstract.NewBinaryOp(abstract.BinaryOperator(c.Op), l.expr(c.Left), l.expr(c.Right)))
		},
		With: func(w *surface.With) abstract.Expression {
			clos := abstract.NewClosure(w.Name, l.expr(w.Expr))
			return from(w, abstract.NewCall(clos, l.expr(w.Value)))
		},
		Call: func(c *surface.Call) abstract.Expression {
			args := make([]abstract.Expression, len(c.Parameters))
			for i, p := range c.Parameters {
				args[i] = l.expr(p)
			}
			return from(c, Curry(l.expr(c.Callee), args...))
		},
		Closure: func(c *surface.Closure) abstract.Expression {
			return from(c, Uncurry(c.Parameters, l.expr(c.Body)))
		},
		List: func(li *surface.List) abstract.Expression {
			var out abstract.Expression = abstract.NewVoid()
			for i := len(li.Contents) - 1; i >= 0; i-- {
				out = abstract.NewTuple(l.expr(li.Contents[i]), out)
			}
			return from(li, out)
		},
		Tuple: func(t *surface.Tuple) abstract.Expression {
			values := make([]abstract.Expression, len(t.Values))
			for i, v := range t.Values {
				values[i] = l.expr(v)
			}
			return from(t, abstract.NewTuple(values...))
		},
		Procedure: func(p *surface.Procedure) abstract.Expression {
			return from(p, l.block(p.Body))
		},
		If: func(i *surface.If) abstract.Expression {
			return from(i, abstract.NewIf(l.expr(i.Cond), l.expr(i.Then), l.expr(i.Else)))
		},
		Hole: func(h *surface.Hole) abstract.Expression {
			l.errors = append(l.errors, diagnostics.NewError(diagnostics.IncompleteProgram, h, "expression hole must be filled before compiling"))
			return abstract.NewVoid()
		},
	})
	return l
}

// Run implements pipeline.Pass.
func (l *Lowerer) Run(m *surface.Module) pipeline.Output[*abstract.Module] {
	out := l.Module(m)
	if len(l.errors) > 0 {
		return pipeline.Fail[*abstract.Module](l.errors...)
	}
	return pipeline.Succeed(out)
}

// Module lowers every global of m. Problems accumulate in Errors.
func (l *Lowerer) Module(m *surface.Module) *abstract.Module {
	l.errors = nil
	global := surface.MatchGlobal(surface.GlobalPattern[abstract.Global]{
		Main: func(g *surface.Main) abstract.Global {
			return withMeta(g, &abstract.Main{Body: l.expr(g.Body)})
		},
		Define: func(g *surface.Define) abstract.Global {
			return withMeta(g, &abstract.Define{Name: g.Name, Value: l.expr(g.Value)})
		},
		DefineFunction: func(g *surface.DefineFunction) abstract.Global {
			return withMeta(g, &abstract.Define{Name: g.Name, Value: Uncurry(g.Parameters, l.expr(g.Body))})
		},
	})
	out := &abstract.Module{Globals: make([]abstract.Global, 0, len(m.Globals))}
	for _, g := range m.Globals {
		out.Globals = append(out.Globals, global(g))
	}
	return out
}

// Errors returns the diagnostics of the last Module call.
func (l *Lowerer) Errors() diagnostics.List { return l.errors }

// Curry turns a multi-argument application into nested single-argument
// calls. With no arguments it yields a call without a parameter.
func Curry(callee abstract.Expression, args ...abstract.Expression) abstract.Expression {
	if len(args) == 0 {
		return abstract.NewCall(callee, nil)
	}
	out := callee
	for _, a := range args {
		out = abstract.NewCall(out, a)
	}
	return out
}

// Uncurry turns a multi-parameter closure into nested single-parameter
// closures. With no parameters it yields a parameterless closure.
func Uncurry(params []string, body abstract.Expression) abstract.Expression {
	if len(params) == 0 {
		return abstract.NewClosure("", body)
	}
	out := body
	for i := len(params) - 1; i >= 0; i-- {
		out = abstract.NewClosure(params[i], out)
	}
	return out
}

// Seq evaluates first for its effects, then yields then.
func Seq(first, then abstract.Expression) abstract.Expression {
	seq := abstract.NewName(config.IntrinsicName(config.SeqIntrinsic))
	return Curry(seq, first, then)
}

// block lowers a statement list. The value of a block is the value of a
// trailing Do, or Void.
func (l *Lowerer) block(stmts []surface.Statement) abstract.Expression {
	if len(stmts) == 0 {
		return abstract.NewVoid()
	}
	s, rest := stmts[0], stmts[1:]
	switch s := s.(type) {
	case *surface.Print:
		printer := abstract.NewName(config.IntrinsicName(config.PrintStmtIntrinsic))
		call := from(s, abstract.NewCall(printer, l.expr(s.Value)))
		return Seq(call, l.block(rest))
	case *surface.Do:
		body := l.expr(s.Body)
		if len(rest) == 0 {
			return body
		}
		return Seq(body, l.block(rest))
	case *surface.Let:
		value := l.expr(s.Value)
		return from(s, abstract.NewCall(abstract.NewClosure(s.Name, l.block(rest)), value))
	case *surface.IfStmt:
		var els abstract.Expression = abstract.NewVoid()
		if s.Else != nil {
			els = l.block([]surface.Statement{s.Else})
		}
		branch := from(s, abstract.NewIf(l.expr(s.Condition), l.block([]surface.Statement{s.Body}), els))
		if len(rest) == 0 {
			return branch
		}
		return Seq(branch, l.block(rest))
	case *surface.HoleStmt:
		l.errors = append(l.errors, diagnostics.NewError(diagnostics.IncompleteProgram, s, "statement hole must be filled before compiling"))
	default:
		l.errors = append(l.errors, diagnostics.NewError(diagnostics.UnsupportedConstruct, s, "%s statements cannot be lowered", s.Kind()))
	}
	return l.block(rest)
}

// from copies the metadata of a surface node onto its lowered counterpart.
func from[E abstract.Expression](src syntax.Node, dst E) E {
	return withMeta(src, dst)
}

func withMeta[N syntax.Node](src syntax.Node, dst N) N {
	for k, v := range src.Meta() {
		if _, ok := dst.Meta()[k]; !ok {
			dst.SetMeta(k, v)
		}
	}
	return dst
}

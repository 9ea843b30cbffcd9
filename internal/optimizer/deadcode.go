// Package optimizer holds optimizations over the abstract dialect.
package optimizer

import (
	"context"
	"io"
	"log/slog"

	"github.com/funvibe/serendipity/internal/pipeline"
	"github.com/funvibe/serendipity/internal/prettyprinter"
	"github.com/funvibe/serendipity/internal/syntax"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// usage counts references to each closure parameter in scope. Entering a
// closure shadows the parameter's counter; leaving restores it.
type usage map[string]int

type shadowed struct {
	count int
	bound bool
}

func (u usage) enter(name string) shadowed {
	prev, bound := u[name]
	u[name] = 0
	return shadowed{count: prev, bound: bound}
}

func (u usage) leave(name string, s shadowed) {
	if s.bound {
		u[name] = s.count
		return
	}
	delete(u, name)
}

// reference counts one use of name. Names no enclosing closure binds are
// left alone.
func (u usage) reference(name string) {
	if _, ok := u[name]; ok {
		u[name]++
	}
}

// Stats summarizes one optimizer run.
type Stats struct {
	DeadClosures    int
	EliminatedCalls int
}

// DeadCode removes applications of closures whose parameter is never used.
// Each closure is tagged with syntax.MetaDead; a call whose reduced callee is
// a dead closure is replaced by that closure's body.
type DeadCode struct {
	logger *slog.Logger
	stats  Stats
	reduce func(abstract.Expression) func(usage) abstract.Expression
}

// Option configures DeadCode.
type Option func(*DeadCode)

// WithLogger reports dead closures and eliminated calls at debug level.
// Logging never changes the result.
func WithLogger(l *slog.Logger) Option {
	return func(d *DeadCode) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDeadCode creates the optimizer.
func NewDeadCode(opts ...Option) *DeadCode {
	d := &DeadCode{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(d)
	}
	d.reduce = abstract.MatchExpression(abstract.ExpressionPattern[func(usage) abstract.Expression]{
		Closure: func(c *abstract.Closure) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression { return d.closure(c, env) }
		},
		Name: func(n *abstract.Name) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression {
				env.reference(n.Name)
				return n
			}
		},
		Call: func(c *abstract.Call) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression { return d.call(c, env) }
		},
		Accessor: func(a *abstract.Accessor) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression {
				out := &abstract.Accessor{Accessee: d.run(a.Accessee, env), Index: d.run(a.Index, env)}
				out.Metadata = a.Metadata.Clone()
				return out
			}
		},
		BinaryOp: func(b *abstract.BinaryOp) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression {
				out := &abstract.BinaryOp{Op: b.Op, Left: d.run(b.Left, env), Right: d.run(b.Right, env)}
				out.Metadata = b.Metadata.Clone()
				return out
			}
		},
		If: func(i *abstract.If) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression {
				out := &abstract.If{Cond: d.run(i.Cond, env), Then: d.run(i.Then, env), Else: d.run(i.Else, env)}
				out.Metadata = i.Metadata.Clone()
				return out
			}
		},
		Tuple: func(t *abstract.Tuple) func(usage) abstract.Expression {
			return func(env usage) abstract.Expression {
				out := &abstract.Tuple{Values: make([]abstract.Expression, len(t.Values))}
				for i, v := range t.Values {
					out.Values[i] = d.run(v, env)
				}
				out.Metadata = t.Metadata.Clone()
				return out
			}
		},
		// Order 0 values
		Default: func(e abstract.Expression) func(usage) abstract.Expression {
			return func(usage) abstract.Expression { return e }
		},
	})
	return d
}

// Stats returns the counts gathered so far.
func (d *DeadCode) Stats() Stats { return d.stats }

// Expression reduces a single expression with no closure parameters in scope.
func (d *DeadCode) Expression(e abstract.Expression) abstract.Expression {
	return d.run(e, usage{})
}

// Module rebuilds every global of m. m itself is not modified.
func (d *DeadCode) Module(m *abstract.Module) *abstract.Module {
	rebuild := abstract.MatchGlobal(abstract.GlobalPattern[abstract.Global]{
		Main: func(g *abstract.Main) abstract.Global {
			out := &abstract.Main{Body: d.Expression(g.Body)}
			out.Metadata = g.Metadata.Clone()
			return out
		},
		Define: func(g *abstract.Define) abstract.Global {
			out := &abstract.Define{Name: g.Name, Value: d.Expression(g.Value)}
			out.Metadata = g.Metadata.Clone()
			return out
		},
	})
	out := &abstract.Module{Globals: make([]abstract.Global, len(m.Globals))}
	for i, g := range m.Globals {
		out.Globals[i] = rebuild(g)
	}
	return out
}

// Run implements pipeline.Pass. The optimizer never fails.
func (d *DeadCode) Run(m *abstract.Module) pipeline.Output[*abstract.Module] {
	return pipeline.Succeed(d.Module(m))
}

// Pass returns a fresh optimizer as a pipeline pass.
func Pass(opts ...Option) pipeline.Pass[*abstract.Module, *abstract.Module] {
	return NewDeadCode(opts...)
}

// RemoveDeadCalls is a convenience wrapper around DeadCode.Module.
func RemoveDeadCalls(m *abstract.Module, opts ...Option) *abstract.Module {
	return NewDeadCode(opts...).Module(m)
}

func (d *DeadCode) run(e abstract.Expression, env usage) abstract.Expression {
	if e == nil {
		return nil
	}
	return d.reduce(e)(env)
}

func (d *DeadCode) closure(c *abstract.Closure, env usage) abstract.Expression {
	out := &abstract.Closure{Parameter: c.Parameter}
	out.Metadata = c.Metadata.Clone()

	if c.Parameter == "" {
		out.Body = d.run(c.Body, env)
		out.SetMeta(syntax.MetaDead, false)
		return out
	}

	saved := env.enter(c.Parameter)
	out.Body = d.run(c.Body, env)
	dead := env[c.Parameter] == 0
	env.leave(c.Parameter, saved)

	out.SetMeta(syntax.MetaDead, dead)
	if dead {
		d.stats.DeadClosures++
		d.debug("closure is dead", "closure", out)
	}
	return out
}

func (d *DeadCode) call(c *abstract.Call, env usage) abstract.Expression {
	callee := d.run(c.Callee, env)
	// The argument is counted even when the call is about to disappear, so
	// an enclosing closure never looks dead because of a dropped argument.
	param := d.run(c.Parameter, env)

	if clos, ok := callee.(*abstract.Closure); ok && syntax.Flag(clos, syntax.MetaDead) {
		d.stats.EliminatedCalls++
		d.debug("call eliminated", "call", c)
		return clos.Body
	}

	out := &abstract.Call{Callee: callee, Parameter: param}
	out.Metadata = c.Metadata.Clone()
	return out
}

func (d *DeadCode) debug(msg, key string, e abstract.Expression) {
	if !d.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	d.logger.Debug(msg, key, prettyprinter.Abstract(e))
}

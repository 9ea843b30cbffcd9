// Package evaluator is the tree-walking interpreter for the abstract
// dialect. Arguments are passed lazily and every binding is evaluated at
// most once.
package evaluator

import (
	"fmt"
	"os"

	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/scope"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// Options configures an Interpreter.
type Options struct {
	// Printer receives every line the program prints. Defaults to stdout.
	Printer func(string)
	// BeforeEval is called before each expression is evaluated.
	BeforeEval func(abstract.Expression, *Environment)
}

type evalFunc func(*Environment) (Object, error)

type Interpreter struct {
	opts     Options
	dispatch func(abstract.Expression) evalFunc
}

func New(opts Options) *Interpreter {
	if opts.Printer == nil {
		opts.Printer = func(s string) { fmt.Fprintln(os.Stdout, s) }
	}
	in := &Interpreter{opts: opts}
	in.dispatch = abstract.MatchExpression(abstract.ExpressionPattern[evalFunc]{
		Number: func(n *abstract.Number) evalFunc {
			return func(*Environment) (Object, error) { return &Number{Value: n.Value}, nil }
		},
		String: func(s *abstract.String) evalFunc {
			return func(*Environment) (Object, error) { return &String{Value: s.Value}, nil }
		},
		Boolean: func(b *abstract.Boolean) evalFunc {
			return func(*Environment) (Object, error) { return nativeBoolToBooleanObject(b.Value), nil }
		},
		Void: func(*abstract.Void) evalFunc {
			return func(*Environment) (Object, error) { return NONE, nil }
		},
		Name: func(n *abstract.Name) evalFunc {
			return func(env *Environment) (Object, error) { return in.evalName(n, env) }
		},
		Accessor: func(a *abstract.Accessor) evalFunc {
			return func(env *Environment) (Object, error) { return in.evalAccessor(a, env) }
		},
		Call: func(c *abstract.Call) evalFunc {
			return func(env *Environment) (Object, error) { return in.evalCall(c, env) }
		},
		Closure: func(c *abstract.Closure) evalFunc {
			return func(env *Environment) (Object, error) {
				return &Closure{Parameter: c.Parameter, Body: env.Bind(c.Body)}, nil
			}
		},
		Tuple: func(t *abstract.Tuple) evalFunc {
			return func(env *Environment) (Object, error) {
				values := make([]Binder, len(t.Values))
				for i, v := range t.Values {
					values[i] = env.Bind(v)
				}
				return &Tuple{Values: values}, nil
			}
		},
		If: func(i *abstract.If) evalFunc {
			return func(env *Environment) (Object, error) {
				cond, err := in.Eval(i.Cond, env)
				if err != nil {
					return nil, err
				}
				if isTruthy(cond) {
					return in.Eval(i.Then, env)
				}
				return in.Eval(i.Else, env)
			}
		},
		BinaryOp: func(b *abstract.BinaryOp) evalFunc {
			return func(env *Environment) (Object, error) {
				left, err := in.Eval(b.Left, env)
				if err != nil {
					return nil, err
				}
				right, err := in.Eval(b.Right, env)
				if err != nil {
					return nil, err
				}
				res, err := evalBinary(b.Op, left, right)
				if err != nil {
					return nil, atNode(b, err)
				}
				return res, nil
			}
		},
	})
	return in
}

// NewEnvironment creates a root scope with the prelude bound.
func (in *Interpreter) NewEnvironment() *Environment {
	env := scope.New(in.Eval)
	for name, intrinsic := range config.PreludeNames {
		env.Define(name, abstract.NewName(config.IntrinsicName(intrinsic)))
	}
	return env
}

// Eval evaluates e in env.
func (in *Interpreter) Eval(e abstract.Expression, env *Environment) (Object, error) {
	if e == nil {
		return nil, newError("cannot evaluate a missing expression")
	}
	if in.opts.BeforeEval != nil {
		in.opts.BeforeEval(e, env)
	}
	return in.dispatch(e)(env)
}

// ExecModule binds every definition of m in a fresh root scope and runs the
// entry point, if there is one. Definitions no one demands are never
// evaluated.
func (in *Interpreter) ExecModule(m *abstract.Module) (Object, error) {
	env := in.NewEnvironment()
	for _, g := range m.Globals {
		if d, ok := g.(*abstract.Define); ok {
			env.Define(d.Name, d.Value)
		}
	}
	main := m.Main()
	if main == nil {
		return NONE, nil
	}
	env.Define(config.EntryName, main.Body)
	return env.Resolve(config.EntryName)
}

func (in *Interpreter) evalName(n *abstract.Name, env *Environment) (Object, error) {
	if config.IsIntrinsicName(n.Name) {
		fn, err := in.intrinsic(n.Name, env)
		if err != nil {
			return nil, atNode(n, err)
		}
		return fn, nil
	}
	v, err := env.Resolve(n.Name)
	if err != nil {
		return nil, atNode(n, err)
	}
	return v, nil
}

func (in *Interpreter) evalAccessor(a *abstract.Accessor, env *Environment) (Object, error) {
	accessee, err := in.Eval(a.Accessee, env)
	if err != nil {
		return nil, err
	}
	index, err := in.Eval(a.Index, env)
	if err != nil {
		return nil, err
	}

	switch accessee := accessee.(type) {
	case *Intrinsic:
		res, err := accessee.Fn(index)
		if err != nil {
			return nil, atNode(a, err)
		}
		return res, nil
	case *Tuple:
		i, ok := index.(*Number)
		if !ok {
			return nil, atNode(a, newError("tried to index a tuple with %s", index.Type()))
		}
		n := int(i.Value)
		if float64(n) != i.Value || n < 0 || n >= len(accessee.Values) {
			return nil, atNode(a, newError("index %s out of bounds", i.Inspect()))
		}
		return accessee.Values[n].Eval()
	}
	return nil, atNode(a, newError("tried to access index on %s", accessee.Type()))
}

func (in *Interpreter) evalCall(c *abstract.Call, env *Environment) (Object, error) {
	callee, err := in.Eval(c.Callee, env)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *Intrinsic:
		var arg Object
		if c.Parameter != nil {
			if arg, err = in.Eval(c.Parameter, env); err != nil {
				return nil, err
			}
		}
		res, err := fn.Fn(arg)
		if err != nil {
			return nil, atNode(c, err)
		}
		return res, nil

	case *Closure:
		callEnv := fn.Body.Scope.NewChild()
		if c.Parameter != nil {
			if fn.Parameter == "" {
				return nil, atNode(c, newError("callee does not accept a parameter, but one was given"))
			}
			if fn.Parameter != config.DiscardName {
				callEnv.Rebind(fn.Parameter, env.Bind(c.Parameter))
			}
		}
		return in.Eval(fn.Body.Expr, callEnv)
	}
	return nil, atNode(c, newError("attempted to call %s", callee.Type()))
}

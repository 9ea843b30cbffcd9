// Package pipeline composes compiler passes. A Compiler runs its passes in
// the order they were appended, feeding each pass the previous pass's
// value, and stops at the first failure.
package pipeline

import (
	"errors"

	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/result"
)

// ErrFinalized is the panic value raised when a compiler is compiled or
// extended after it has already compiled once.
var ErrFinalized = errors.New("pipeline: compiler is already finalized")

var errExtended = errors.New("pipeline: compiler was already extended through this handle")

// Output is what every pass produces: a value, or the diagnostics that
// explain why there is none.
type Output[T any] = result.Result[T, diagnostics.List]

// Succeed wraps v as a successful pass output.
func Succeed[T any](v T) Output[T] {
	return result.Ok[T, diagnostics.List](v)
}

// Fail wraps diagnostics as a failed pass output.
func Fail[T any](ds ...*diagnostics.Diagnostic) Output[T] {
	return result.Err[T](diagnostics.List(ds))
}

// Pass is a single transformation step.
type Pass[I, O any] interface {
	Run(in I) Output[O]
}

// PassFunc adapts a function to Pass.
type PassFunc[I, O any] func(in I) Output[O]

func (f PassFunc[I, O]) Run(in I) Output[O] { return f(in) }

// stage erases a pass's types so passes of different shapes share a chain.
type stage func(in any) (out any, diags diagnostics.List, ok bool)

type chain struct {
	stages []stage
	final  bool
}

// Compiler is a single-use sequence of passes from I to O. Passes may keep
// setup state between Run calls, so a compiler compiles exactly once.
type Compiler[I, O any] struct {
	c *chain
	n int // stages visible through this handle
}

// New starts a compiler with its first pass.
func New[I, O any](p Pass[I, O]) *Compiler[I, O] {
	c := &chain{}
	c.stages = append(c.stages, erase(p))
	return &Compiler[I, O]{c: c, n: 1}
}

// Then appends p to c and returns the extended compiler. c and the result
// share one chain; extending a compiler that has compiled panics with
// ErrFinalized.
func Then[I, M, O any](c *Compiler[I, M], p Pass[M, O]) *Compiler[I, O] {
	if c.c.final {
		panic(ErrFinalized)
	}
	if c.n != len(c.c.stages) {
		panic(errExtended)
	}
	c.c.stages = append(c.c.stages, erase(p))
	return &Compiler[I, O]{c: c.c, n: len(c.c.stages)}
}

// Len returns the number of passes this compiler runs.
func (c *Compiler[I, O]) Len() int { return c.n }

// Compile runs the passes on in. The first failing pass's diagnostics are
// returned unchanged and no later pass runs. A second call panics with
// ErrFinalized whatever the first call returned.
func (c *Compiler[I, O]) Compile(in I) Output[O] {
	if c.c.final {
		panic(ErrFinalized)
	}
	c.c.final = true

	var state any = in
	for _, run := range c.c.stages[:c.n] {
		out, diags, ok := run(state)
		if !ok {
			return result.Err[O](diags)
		}
		state = out
	}
	out, _ := state.(O)
	return Succeed(out)
}

func erase[I, O any](p Pass[I, O]) stage {
	return func(in any) (any, diagnostics.List, bool) {
		typed, _ := in.(I)
		res := p.Run(typed)
		if v, ok := res.Value(); ok {
			return v, nil, true
		}
		diags, _ := res.Error()
		return nil, diags, false
	}
}

// Package statemachine runs workflows described as a table of state
// handlers. Each handler looks at the current state and either moves to a
// new state, resolves the machine with a value, or rejects it with an error.
package statemachine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/funvibe/serendipity/internal/match"
)

var (
	// ErrUnreachableHandler is returned by Build when the table has a key
	// that is not a registered state discriminant.
	ErrUnreachableHandler = match.ErrUnreachableHandler
	// ErrMissingHandler is returned by Build when a registered discriminant
	// has no handler.
	ErrMissingHandler = match.ErrNotExhaustive
	// ErrUnknownState rejects a machine that reached a state no handler
	// covers.
	ErrUnknownState = errors.New("no handler for state")
	// ErrInvalidOutcome rejects a machine whose handler returned a zero
	// Outcome or rejected with a nil error.
	ErrInvalidOutcome = errors.New("handler returned no outcome")
)

// PanicError is the rejection produced when a handler panics.
type PanicError struct {
	State string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("state %s: handler panicked: %v", e.State, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

type outcomeKind int

const (
	transitioned outcomeKind = iota + 1
	resolved
	rejected
)

// Outcome is what a handler decides. Handlers obtain outcomes only through
// the constructors passed to the descriptor.
type Outcome[S, R any] struct {
	kind  outcomeKind
	next  S
	value R
	err   error
}

// Handler processes one state. It may block; the machine waits for it
// before looking at the outcome.
type Handler[S, R any] func(ctx context.Context, state S) Outcome[S, R]

// Table maps every state discriminant to its handler.
type Table[K comparable, S, R any] map[K]Handler[S, R]

// Descriptor receives the three outcome constructors and returns the
// handler table.
type Descriptor[K comparable, S, R any] func(
	transition func(S) Outcome[S, R],
	resolve func(R) Outcome[S, R],
	reject func(error) Outcome[S, R],
) Table[K, S, R]

func transition[S, R any](next S) Outcome[S, R] { return Outcome[S, R]{kind: transitioned, next: next} }
func resolve[S, R any](value R) Outcome[S, R]   { return Outcome[S, R]{kind: resolved, value: value} }
func reject[S, R any](err error) Outcome[S, R]  { return Outcome[S, R]{kind: rejected, err: err} }

// Builder checks descriptors against the registered state discriminants.
type Builder[K comparable, S match.Variant[K], R any] struct {
	states *match.Universe[K]
}

// New registers the discriminants states of type S can carry.
func New[K comparable, S match.Variant[K], R any](kinds ...K) *Builder[K, S, R] {
	return &Builder[K, S, R]{states: match.NewUniverse(kinds...)}
}

// Option configures a Machine.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger records every step at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Build calls descriptor and validates the table it returns.
func (b *Builder[K, S, R]) Build(descriptor Descriptor[K, S, R], opts ...Option) (*Machine[K, S, R], error) {
	table := descriptor(transition[S, R], resolve[S, R], reject[S, R])

	keys := make([]K, 0, len(table))
	for k, h := range table {
		if h != nil {
			keys = append(keys, k)
		}
	}
	if err := b.states.Check(keys, true); err != nil {
		return nil, err
	}

	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Machine[K, S, R]{table: make(Table[K, S, R], len(table)), logger: o.logger}
	for k, h := range table {
		m.table[k] = h
	}
	return m, nil
}

// MustBuild is Build that panics on an invalid table.
func (b *Builder[K, S, R]) MustBuild(descriptor Descriptor[K, S, R], opts ...Option) *Machine[K, S, R] {
	m, err := b.Build(descriptor, opts...)
	if err != nil {
		panic("statemachine: " + err.Error())
	}
	return m
}

// Machine is an immutable handler table. It can be run any number of times,
// including concurrently; each run is a strictly sequential chain of
// handler calls.
type Machine[K comparable, S match.Variant[K], R any] struct {
	table  Table[K, S, R]
	logger *slog.Logger
}

// Run drives the machine from init until a handler resolves or rejects.
// There is no step limit. ctx is handed to the handlers; the loop itself
// does not watch it.
func (m *Machine[K, S, R]) Run(ctx context.Context, init S) (R, error) {
	state := init
	for step := 0; ; step++ {
		out := m.step(ctx, state)
		switch out.kind {
		case transitioned:
			m.logger.Debug("transition", "step", step, "from", kindOf[K](state), "to", kindOf[K](out.next))
			state = out.next
		case resolved:
			m.logger.Debug("resolved", "step", step, "state", kindOf[K](state))
			return out.value, nil
		default:
			m.logger.Debug("rejected", "step", step, "state", kindOf[K](state), "error", out.err)
			var zero R
			return zero, out.err
		}
	}
}

// Start runs the machine on its own goroutine.
func (m *Machine[K, S, R]) Start(ctx context.Context, init S) *Task[R] {
	t := &Task[R]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.value, t.err = m.Run(ctx, init)
	}()
	return t
}

func (m *Machine[K, S, R]) step(ctx context.Context, state S) (out Outcome[S, R]) {
	defer func() {
		if r := recover(); r != nil {
			out = reject[S, R](&PanicError{State: kindOf[K](state), Value: r})
		}
	}()

	kind := state.Kind()
	h, ok := m.table[kind]
	if !ok {
		return reject[S, R](fmt.Errorf("%w: %v", ErrUnknownState, kind))
	}

	out = h(ctx, state)
	switch {
	case out.kind == 0:
		return reject[S, R](fmt.Errorf("%w: state %v", ErrInvalidOutcome, kind))
	case out.kind == rejected && out.err == nil:
		return reject[S, R](fmt.Errorf("%w: state %v rejected with nil error", ErrInvalidOutcome, kind))
	}
	return out
}

// kindOf names the discriminant of s for logs and errors. A nil interface
// state has none.
func kindOf[K comparable, S match.Variant[K]](s S) string {
	if any(s) == nil {
		return "<nil>"
	}
	return fmt.Sprint(s.Kind())
}

// Task is a machine run in progress.
type Task[R any] struct {
	done  chan struct{}
	value R
	err   error
}

// Done is closed once the run has finished.
func (t *Task[R]) Done() <-chan struct{} { return t.done }

// Wait blocks until the run finishes and returns its result.
func (t *Task[R]) Wait() (R, error) {
	<-t.done
	return t.value, t.err
}

// Package scope implements the interpreter's lazily evaluated, memoizing
// environment chain.
package scope

import (
	"fmt"
	"sync"
)

// Evaluator computes the value of an expression inside a scope.
type Evaluator[E, V any] func(E, *Scope[E, V]) (V, error)

// UnboundNameError is returned when no frame of the chain binds a name.
type UnboundNameError struct {
	Name string
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("no such binding for name: %s", e.Name)
}

// Binder pairs an expression with the scope it must be evaluated in.
type Binder[E, V any] struct {
	Expr  E
	Scope *Scope[E, V]
}

// Eval evaluates the bound expression in its recorded scope. Binders are not
// memoized on their own; memoization belongs to the cell they are stored in.
func (b Binder[E, V]) Eval() (V, error) {
	return b.Scope.evaluator(b.Expr, b.Scope)
}

// cell is a single-assignment slot: pending until its first successful
// evaluation, memoized afterwards.
type cell[E, V any] struct {
	memoized bool
	value    V

	expr  E
	scope *Scope[E, V] // nil means the scope owning the cell
}

func (c *cell[E, V]) force(owner *Scope[E, V]) (V, error) {
	if c.memoized {
		return c.value, nil
	}
	in := c.scope
	if in == nil {
		in = owner
	}
	v, err := owner.evaluator(c.expr, in)
	if err != nil {
		return v, err
	}
	var zero E
	c.memoized, c.value = true, v
	c.expr, c.scope = zero, nil
	return v, nil
}

// Scope is one frame of the chain. A frame lives as long as any binder or
// closure value that captured it.
type Scope[E, V any] struct {
	evaluator Evaluator[E, V]
	parent    *Scope[E, V]

	mu       sync.RWMutex
	bindings map[string]*cell[E, V]
}

// New creates a root scope.
func New[E, V any](eval Evaluator[E, V]) *Scope[E, V] {
	return &Scope[E, V]{evaluator: eval, bindings: make(map[string]*cell[E, V])}
}

// NewChild creates an empty frame whose lookups fall back to s.
func (s *Scope[E, V]) NewChild() *Scope[E, V] {
	child := New(s.evaluator)
	child.parent = s
	return child
}

// Parent returns the enclosing frame, or nil for a root.
func (s *Scope[E, V]) Parent() *Scope[E, V] { return s.parent }

// Define binds name to expr in this frame. expr is evaluated in this frame
// on first resolution.
func (s *Scope[E, V]) Define(name string, expr E) {
	s.set(name, &cell[E, V]{expr: expr})
}

// Rebind binds name in this frame to a deferred binder. The binder's
// expression is evaluated in the binder's scope on first resolution.
func (s *Scope[E, V]) Rebind(name string, b Binder[E, V]) {
	s.set(name, &cell[E, V]{expr: b.Expr, scope: b.Scope})
}

// Value binds name to an already computed value.
func (s *Scope[E, V]) Value(name string, v V) {
	s.set(name, &cell[E, V]{memoized: true, value: v})
}

// Bind creates a new child frame and pairs expr with it.
func (s *Scope[E, V]) Bind(expr E) Binder[E, V] {
	return Binder[E, V]{Expr: expr, Scope: s.NewChild()}
}

// Demand evaluates expr right away in s and stores the result over the
// nearest existing binding of name.
func (s *Scope[E, V]) Demand(name string, expr E) error {
	owner, _ := s.lookup(name)
	if owner == nil {
		return &UnboundNameError{Name: name}
	}
	v, err := s.evaluator(expr, s)
	if err != nil {
		return err
	}
	owner.Value(name, v)
	return nil
}

// Resolve walks the chain outward for name and returns its value, evaluating
// and memoizing it on first use.
func (s *Scope[E, V]) Resolve(name string) (V, error) {
	owner, c := s.lookup(name)
	if owner == nil {
		var zero V
		return zero, &UnboundNameError{Name: name}
	}
	return c.force(owner)
}

// Has reports whether any frame of the chain binds name.
func (s *Scope[E, V]) Has(name string) bool {
	owner, _ := s.lookup(name)
	return owner != nil
}

func (s *Scope[E, V]) set(name string, c *cell[E, V]) {
	s.mu.Lock()
	s.bindings[name] = c
	s.mu.Unlock()
}

func (s *Scope[E, V]) lookup(name string) (*Scope[E, V], *cell[E, V]) {
	for f := s; f != nil; f = f.parent {
		f.mu.RLock()
		c, ok := f.bindings[name]
		f.mu.RUnlock()
		if ok {
			return f, c
		}
	}
	return nil, nil
}

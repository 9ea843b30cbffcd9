// Package match builds dispatch functions over closed variant types from
// per-discriminant handler tables.
//
// A table is checked once, when the dispatcher is built: every key must name a
// registered discriminant, and every discriminant must either have a handler or
// be covered by an explicit default. A dispatcher that builds successfully is
// total over its universe.
package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnreachableHandler is reported when a table holds a key that no
	// value of the variant type can carry.
	ErrUnreachableHandler = errors.New("unreachable handler")
	// ErrNotExhaustive is reported when a table without a default omits a
	// discriminant.
	ErrNotExhaustive = errors.New("handler table is not exhaustive")
	// ErrMissingDefault is reported when a partial table is built without a
	// default handler.
	ErrMissingDefault = errors.New("partial handler table requires a default")
)

// Variant is implemented by every member of a closed variant set.
type Variant[K comparable] interface {
	Kind() K
}

// Handlers maps discriminants to the handler for that variant.
type Handlers[K comparable, V any, R any] map[K]func(V) R

// Universe is the registered, ordered set of discriminants of one variant type.
type Universe[K comparable] struct {
	kinds []K
	index map[K]int
}

// NewUniverse registers the discriminants of a variant type. Registering the
// same discriminant twice is a programming error.
func NewUniverse[K comparable](kinds ...K) *Universe[K] {
	u := &Universe[K]{
		kinds: make([]K, 0, len(kinds)),
		index: make(map[K]int, len(kinds)),
	}
	for _, k := range kinds {
		if _, dup := u.index[k]; dup {
			panic(fmt.Sprintf("match: discriminant %v registered twice", k))
		}
		u.index[k] = len(u.kinds)
		u.kinds = append(u.kinds, k)
	}
	return u
}

// Kinds returns the registered discriminants in registration order.
func (u *Universe[K]) Kinds() []K {
	out := make([]K, len(u.kinds))
	copy(out, u.kinds)
	return out
}

// Contains reports whether k is a registered discriminant.
func (u *Universe[K]) Contains(k K) bool {
	_, ok := u.index[k]
	return ok
}

// Len returns the number of registered discriminants.
func (u *Universe[K]) Len() int { return len(u.kinds) }

// Check compares a table's key set against the universe. Keys outside the
// universe always fail. When complete is true every discriminant must be
// present as well.
func (u *Universe[K]) Check(keys []K, complete bool) error {
	var extra []string
	seen := make(map[K]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
		if !u.Contains(k) {
			extra = append(extra, fmt.Sprint(k))
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("%w: %s", ErrUnreachableHandler, strings.Join(extra, ", "))
	}
	if !complete {
		return nil
	}
	var missing []string
	for _, k := range u.kinds {
		if !seen[k] {
			missing = append(missing, fmt.Sprint(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotExhaustive, strings.Join(missing, ", "))
	}
	return nil
}

// Exhaustive builds a dispatcher from a table that must cover every
// discriminant of u.
func Exhaustive[K comparable, V Variant[K], R any](u *Universe[K], h Handlers[K, V, R]) (func(V) R, error) {
	if err := u.Check(keysOf(h), true); err != nil {
		return nil, err
	}
	return dispatcher(h, nil), nil
}

// Partial builds a dispatcher from a table that may omit discriminants; the
// omitted ones are routed to def, which is mandatory.
func Partial[K comparable, V Variant[K], R any](u *Universe[K], h Handlers[K, V, R], def func(V) R) (func(V) R, error) {
	if def == nil {
		return nil, ErrMissingDefault
	}
	if err := u.Check(keysOf(h), false); err != nil {
		return nil, err
	}
	return dispatcher(h, def), nil
}

// Build picks Exhaustive when def is nil and Partial otherwise.
func Build[K comparable, V Variant[K], R any](u *Universe[K], h Handlers[K, V, R], def func(V) R) (func(V) R, error) {
	if def == nil {
		return Exhaustive(u, h)
	}
	return Partial(u, h, def)
}

// Must panics if err is non-nil. Table construction errors are programming
// errors, so most call sites build through Must.
func Must[F any](f F, err error) F {
	if err != nil {
		panic("match: " + err.Error())
	}
	return f
}

func dispatcher[K comparable, V Variant[K], R any](h Handlers[K, V, R], def func(V) R) func(V) R {
	table := make(map[K]func(V) R, len(h))
	for k, fn := range h {
		table[k] = fn
	}
	return func(v V) R {
		if fn, ok := table[v.Kind()]; ok && fn != nil {
			return fn(v)
		}
		if def != nil {
			return def(v)
		}
		panic(fmt.Sprintf("match: no handler for discriminant %v", v.Kind()))
	}
}

func keysOf[K comparable, V any, R any](h Handlers[K, V, R]) []K {
	keys := make([]K, 0, len(h))
	for k, fn := range h {
		if fn != nil {
			keys = append(keys, k)
		}
	}
	return keys
}

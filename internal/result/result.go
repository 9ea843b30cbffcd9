// Package result provides a two-variant success/failure container used to
// carry compiler pass outcomes.
package result

import "fmt"

// Result holds exactly one of a value (Ok) or an error payload (Err).
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Ok wraps a success value.
func Ok[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Err wraps a failure payload.
func Err[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// IsOk reports whether r is the success variant.
func (r Result[T, E]) IsOk() bool { return r.ok }

// IsErr reports whether r is the failure variant.
func (r Result[T, E]) IsErr() bool { return !r.ok }

// Value returns the success value and whether r is Ok.
func (r Result[T, E]) Value() (T, bool) { return r.value, r.ok }

// Error returns the failure payload and whether r is Err.
func (r Result[T, E]) Error() (E, bool) { return r.err, !r.ok }

func (r Result[T, E]) String() string {
	if r.ok {
		return fmt.Sprintf("Ok(%v)", r.value)
	}
	return fmt.Sprintf("Err(%v)", r.err)
}

// UnwrapError is the panic value raised by Unwrap on a failure.
type UnwrapError struct {
	Payload any
}

func (e *UnwrapError) Error() string {
	if s, ok := e.Payload.(string); ok {
		return s
	}
	if err, ok := e.Payload.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("unwrapped Err(%v)", e.Payload)
}

// Unwrap returns the success value or panics with an *UnwrapError carrying
// the failure payload. Only program boundaries should call it.
func Unwrap[T, E any](r Result[T, E]) T {
	if !r.ok {
		panic(&UnwrapError{Payload: r.err})
	}
	return r.value
}

// UnwrapOr returns the success value, or fallback on failure.
func UnwrapOr[T, E any](r Result[T, E], fallback T) T {
	if !r.ok {
		return fallback
	}
	return r.value
}

// Match folds r with one function per variant.
func Match[T, E, R any](r Result[T, E], onOk func(T) R, onErr func(E) R) R {
	if r.ok {
		return onOk(r.value)
	}
	return onErr(r.err)
}

// Map transforms the success value and passes failures through.
func Map[T, E, U any](r Result[T, E], fn func(T) U) Result[U, E] {
	if !r.ok {
		return Err[U](r.err)
	}
	return Ok[U, E](fn(r.value))
}

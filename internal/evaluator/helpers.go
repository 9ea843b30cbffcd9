package evaluator

import (
	"fmt"

	"github.com/funvibe/serendipity/internal/syntax"
)

// Error is a runtime failure. Line and Column are zero when the failing node
// carried no position.
type Error struct {
	Message string
	Line    int
	Column  int
	Cause   error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

// atNode attaches the position of n to err unless it already has one.
func atNode(n syntax.Node, err error) error {
	rt, ok := err.(*Error)
	if !ok {
		rt = &Error{Message: err.Error(), Cause: err}
	}
	if rt.Line > 0 {
		return rt
	}
	if pos, ok := syntax.PositionOf(n); ok {
		rt.Line, rt.Column = pos.Line, pos.Column
	}
	return rt
}

func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *None:
		return false
	case *Boolean:
		return obj.Value
	default:
		return true
	}
}

// isTotal reports whether obj is a fully evaluated scalar.
func isTotal(obj Object) bool {
	switch obj.Type() {
	case NONE_OBJ, NUMBER_OBJ, STRING_OBJ, BOOLEAN_OBJ:
		return true
	}
	return false
}

package evaluator

import (
	"math"

	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

func evalArithmetic(op abstract.BinaryOperator, left, right Object) (Object, error) {
	l, lok := left.(*Number)
	r, rok := right.(*Number)
	if !lok || !rok {
		return nil, newError("attempted to do arithmetic on non-numbers: %s %s %s", left.Type(), op, right.Type())
	}
	switch op {
	case abstract.OpAdd:
		return &Number{Value: l.Value + r.Value}, nil
	case abstract.OpSub:
		return &Number{Value: l.Value - r.Value}, nil
	case abstract.OpMul:
		return &Number{Value: l.Value * r.Value}, nil
	case abstract.OpDiv:
		return &Number{Value: l.Value / r.Value}, nil
	case abstract.OpMod:
		return &Number{Value: math.Mod(l.Value, r.Value)}, nil
	}
	return nil, newError("unknown arithmetic operator: %s", op)
}

// objectsEqual: none equals none, scalars compare by value and everything
// else by identity.
func objectsEqual(left, right Object) bool {
	if !isTotal(left) {
		return left == right
	}
	switch l := left.(type) {
	case *None:
		return true
	case *Number:
		r, ok := right.(*Number)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	}
	return false
}

// lessOrEqual orders two values of the same type.
func lessOrEqual(left, right Object) (bool, error) {
	if !isTotal(left) {
		return false, newError("cannot compare incomplete values")
	}
	switch l := left.(type) {
	case *None:
		return true, nil
	case *Number:
		return l.Value <= right.(*Number).Value, nil
	case *String:
		return l.Value <= right.(*String).Value, nil
	}
	return false, newError("cannot compare booleans")
}

func greaterOrEqual(left, right Object) (bool, error) {
	if !isTotal(left) {
		return false, newError("cannot compare incomplete values")
	}
	switch l := left.(type) {
	case *None:
		return true, nil
	case *Number:
		return l.Value >= right.(*Number).Value, nil
	case *String:
		return l.Value >= right.(*String).Value, nil
	}
	return false, newError("cannot compare booleans")
}

// evalComparison never fails for operands of different types: they are
// simply not related.
func evalComparison(op abstract.BinaryOperator, left, right Object) (Object, error) {
	if left.Type() != right.Type() {
		return FALSE, nil
	}
	var (
		result bool
		err    error
	)
	switch op {
	case abstract.OpEQ:
		result = objectsEqual(left, right)
	case abstract.OpNEQ:
		result = !objectsEqual(left, right)
	case abstract.OpLEQ:
		result, err = lessOrEqual(left, right)
	case abstract.OpGT:
		result, err = lessOrEqual(left, right)
		result = !result
	case abstract.OpGEQ:
		result, err = greaterOrEqual(left, right)
	case abstract.OpLT:
		result, err = greaterOrEqual(left, right)
		result = !result
	default:
		return nil, newError("unknown comparison operator: %s", op)
	}
	if err != nil {
		return nil, err
	}
	return nativeBoolToBooleanObject(result), nil
}

func evalBinary(op abstract.BinaryOperator, left, right Object) (Object, error) {
	if op.IsArithmetic() {
		return evalArithmetic(op, left, right)
	}
	return evalComparison(op, left, right)
}

package abstract

// Equal reports whether a and b are structurally identical, ignoring
// metadata.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Number:
		return x.Value == b.(*Number).Value
	case *String:
		return x.Value == b.(*String).Value
	case *Boolean:
		return x.Value == b.(*Boolean).Value
	case *Name:
		return x.Name == b.(*Name).Name
	case *Accessor:
		y := b.(*Accessor)
		return Equal(x.Accessee, y.Accessee) && Equal(x.Index, y.Index)
	case *Call:
		y := b.(*Call)
		return Equal(x.Callee, y.Callee) && Equal(x.Parameter, y.Parameter)
	case *Closure:
		y := b.(*Closure)
		return x.Parameter == y.Parameter && Equal(x.Body, y.Body)
	case *Tuple:
		y := b.(*Tuple)
		if len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !Equal(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	case *If:
		y := b.(*If)
		return Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *BinaryOp:
		y := b.(*BinaryOp)
		return x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Void:
		return true
	}
	return false
}

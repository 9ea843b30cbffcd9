package evaluator

import (
	"strings"

	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/scope"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

const identParam = "__ident"

// intrinsic resolves a name under the __core namespace. The bare root is
// itself an intrinsic mapping a string key to the named intrinsic.
func (in *Interpreter) intrinsic(name string, env *Environment) (*Intrinsic, error) {
	if name == config.IntrinsicRoot {
		return &Intrinsic{Name: name, Fn: func(key Object) (Object, error) {
			s, ok := key.(*String)
			if !ok {
				return nil, newError("%s only has string properties", config.IntrinsicRoot)
			}
			return in.intrinsic(config.IntrinsicName(s.Value), env)
		}}, nil
	}

	switch strings.TrimPrefix(name, config.IntrinsicRoot+".") {
	case config.PrintStmtIntrinsic:
		return &Intrinsic{Name: name, Fn: func(arg Object) (Object, error) {
			if arg == nil {
				return nil, newError("called print_stmt with no parameter")
			}
			s, err := in.toStr(arg)
			if err != nil {
				return nil, err
			}
			in.opts.Printer(s)
			return &Closure{Parameter: identParam, Body: env.Bind(abstract.NewName(identParam))}, nil
		}}, nil

	case config.ToStrIntrinsic:
		return &Intrinsic{Name: name, Fn: func(arg Object) (Object, error) {
			if arg == nil {
				return nil, newError("no argument provided to to_str")
			}
			s, err := in.toStr(arg)
			if err != nil {
				return nil, err
			}
			return &String{Value: s}, nil
		}}, nil

	case config.StrCatIntrinsic:
		return &Intrinsic{Name: name, Fn: func(left Object) (Object, error) {
			l, ok := left.(*String)
			if !ok {
				return nil, newError("str_cat: left operand must be a string")
			}
			return &Intrinsic{Name: name, Fn: func(right Object) (Object, error) {
				r, ok := right.(*String)
				if !ok {
					return nil, newError("str_cat: right operand must be a string")
				}
				return &String{Value: l.Value + r.Value}, nil
			}}, nil
		}}, nil

	case config.StrSplitIntrinsic:
		return &Intrinsic{Name: name, Fn: func(str Object) (Object, error) {
			s, ok := str.(*String)
			if !ok {
				return nil, newError("str_split: no string provided")
			}
			return &Intrinsic{Name: name, Fn: func(on Object) (Object, error) {
				return in.split(s.Value, on)
			}}, nil
		}}, nil

	case config.SeqIntrinsic:
		// Both operands arrive evaluated, in order; the first is discarded.
		return &Intrinsic{Name: name, Fn: func(Object) (Object, error) {
			return &Intrinsic{Name: name, Fn: func(then Object) (Object, error) {
				if then == nil {
					return NONE, nil
				}
				return then, nil
			}}, nil
		}}, nil
	}
	return nil, newError("unimplemented intrinsic %s", name)
}

func (in *Interpreter) split(s string, on Object) (Object, error) {
	var left, right string
	switch on := on.(type) {
	case *String:
		parts := strings.SplitN(s, on.Value, 2)
		if len(parts) != 2 {
			return nil, newError("str_split: split delimiter not found")
		}
		left, right = parts[0], parts[1]
	case *Number:
		i := int(on.Value)
		if i < 0 || i > len(s) {
			return nil, newError("str_split: index out of bounds")
		}
		left, right = s[:i], s[i:]
	default:
		return nil, newError("str_split: split point must be a string or number")
	}

	empty := scope.New(in.Eval)
	return &Tuple{Values: []Binder{
		{Expr: abstract.NewString(left), Scope: empty},
		{Expr: abstract.NewString(right), Scope: empty},
	}}, nil
}

// toStr renders a value for printing. Tuples are forced element by element.
func (in *Interpreter) toStr(v Object) (string, error) {
	t, ok := v.(*Tuple)
	if !ok {
		return v.Inspect(), nil
	}
	parts := make([]string, len(t.Values))
	for i, b := range t.Values {
		elem, err := b.Eval()
		if err != nil {
			return "", err
		}
		if parts[i], err = in.toStr(elem); err != nil {
			return "", err
		}
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

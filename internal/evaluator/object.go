package evaluator

import (
	"strconv"

	"github.com/funvibe/serendipity/internal/scope"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

type ObjectType string

const (
	NUMBER_OBJ    = "NUMBER"
	STRING_OBJ    = "STRING"
	BOOLEAN_OBJ   = "BOOLEAN"
	NONE_OBJ      = "NONE"
	CLOSURE_OBJ   = "CLOSURE"
	TUPLE_OBJ     = "TUPLE"
	INTRINSIC_OBJ = "INTRINSIC"
)

// Object is a runtime value.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Environment is the interpreter's scope chain over the abstract dialect.
type Environment = scope.Scope[abstract.Expression, Object]

// Binder is a lazily evaluated expression paired with its scope.
type Binder = scope.Binder[abstract.Expression, Object]

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// None is the value of Void.
type None struct{}

func (n *None) Type() ObjectType { return NONE_OBJ }
func (n *None) Inspect() string  { return "none" }

// Closure captures its body together with the scope it was created in.
// An empty Parameter means the closure takes no argument.
type Closure struct {
	Parameter string
	Body      Binder
}

func (c *Closure) Type() ObjectType { return CLOSURE_OBJ }
func (c *Closure) Inspect() string  { return "#closure{parameter=(" + c.Parameter + ")}" }

// Tuple elements are evaluated on demand.
type Tuple struct {
	Values []Binder
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string  { return "#tuple{" + strconv.Itoa(len(t.Values)) + "}" }

// IntrinsicFunction receives an already evaluated argument, or nil when the
// call had none.
type IntrinsicFunction func(arg Object) (Object, error)

type Intrinsic struct {
	Name string
	Fn   IntrinsicFunction
}

func (i *Intrinsic) Type() ObjectType { return INTRINSIC_OBJ }
func (i *Intrinsic) Inspect() string  { return "#intrinsic{" + i.Name + "}" }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NONE  = &None{}
)

func nativeBoolToBooleanObject(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

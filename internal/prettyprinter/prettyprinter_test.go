package prettyprinter

import (
	"testing"

	a "github.com/funvibe/serendipity/internal/syntax/abstract"
	s "github.com/funvibe/serendipity/internal/syntax/surface"
)

func snum(v float64) s.Expression { return &s.Number{Value: v} }
func sname(n string) s.Expression { return &s.Name{Name: n} }
func arith(op string, l, r s.Expression) s.Expression {
	return &s.Arithmetic{Op: op, Left: l, Right: r}
}

func TestSurfaceExpressions(t *testing.T) {
	tests := []struct {
		name string
		in   s.Expression
		want string
	}{
		{"precedence", arith("+", snum(1), arith("*", snum(2), snum(3))), "1 + 2 * 3"},
		{"grouping", arith("*", arith("+", snum(1), snum(2)), snum(3)), "(1 + 2) * 3"},
		{"left associative", arith("-", snum(1), arith("-", snum(2), snum(3))), "1 - (2 - 3)"},
		{"compare", &s.Compare{Op: "<=", Left: sname("a"), Right: arith("+", sname("b"), snum(1))}, "a <= b + 1"},
		{"call", &s.Call{Callee: sname("f"), Parameters: []s.Expression{sname("x"), &s.String{Value: "y"}}}, `f(x, "y")`},
		{"closure", &s.Closure{Parameters: []string{"x", "y"}, Body: arith("+", sname("x"), sname("y"))}, "fn(x, y) -> x + y"},
		{
			"applied closure",
			&s.Call{Callee: &s.Closure{Parameters: []string{"x"}, Body: sname("x")}, Parameters: []s.Expression{snum(1)}},
			"(fn(x) -> x)(1)",
		},
		{"with", &s.With{Name: "x", Value: snum(1), Expr: sname("x")}, "with x = 1: x"},
		{"if", &s.If{Cond: &s.Boolean{Value: true}, Then: snum(1), Else: &s.Void{}}, "if true then 1 else ()"},
		{"list", &s.List{Contents: []s.Expression{snum(1), snum(2)}}, "[1, 2]"},
		{"single tuple", &s.Tuple{Values: []s.Expression{snum(1)}}, "(1,)"},
		{"accessor", &s.Accessor{Accessee: sname("t"), Index: snum(0)}, "t[0]"},
		{"hole", &s.Hole{}, "@hole"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Surface(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSurfaceModule(t *testing.T) {
	m := &s.Module{Globals: []s.Global{
		&s.DefineFunction{Name: "inc", Parameters: []string{"n"}, Body: arith("+", sname("n"), snum(1))},
		&s.Main{Body: &s.Procedure{Body: []s.Statement{
			&s.Let{Name: "x", Value: &s.Call{Callee: sname("inc"), Parameters: []s.Expression{snum(1)}}},
			&s.IfStmt{
				Condition: &s.Compare{Op: ">", Left: sname("x"), Right: snum(1)},
				Body:      &s.Print{Value: sname("x")},
			},
			&s.Break{},
		}}},
	}}

	want := `fn inc(n) -> n + 1

main = proc {
    let x = inc(1)
    if x > 1 {
        print x
    }
    break
}
`
	if got := SurfaceModule(m); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAbstract(t *testing.T) {
	tests := []struct {
		in   a.Expression
		want string
	}{
		{a.NewClosure("x", a.NewBinaryOp(a.OpAdd, a.NewName("x"), a.NewNumber(1.5))), "λx.(+ x 1.5)"},
		{a.NewCall(a.NewName("f"), nil), "(f)"},
		{a.NewTuple(a.NewString("a"), a.NewVoid()), `["a" ∅]`},
		{a.NewIf(a.NewBoolean(false), a.NewNumber(1), a.NewNumber(2)), "(false ? 1 : 2)"},
		{a.NewAccessor(a.NewName("t"), a.NewNumber(0)), "t[0]"},
		{nil, "<???>"},
	}
	for _, tt := range tests {
		if got := Abstract(tt.in); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestAbstractModule(t *testing.T) {
	m := &a.Module{Globals: []a.Global{
		&a.Define{Name: "k", Value: a.NewNumber(3)},
		&a.Main{Body: a.NewName("k")},
	}}
	if got, want := AbstractModule(m), "k = 3\n__start = k\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

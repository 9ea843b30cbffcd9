package pipeline

import (
	"errors"
	"strconv"
	"testing"

	"github.com/funvibe/serendipity/internal/diagnostics"
)

var identity Pass[int, int] = PassFunc[int, int](func(n int) Output[int] { return Succeed(n) })

func counted[I, O any](calls *int, fn func(I) Output[O]) Pass[I, O] {
	return PassFunc[I, O](func(in I) Output[O] {
		*calls++
		return fn(in)
	})
}

func TestCompileRunsPassesInOrder(t *testing.T) {
	var a, b, c int
	parse := counted(&a, func(s string) Output[int] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Fail[int](diagnostics.NewError(diagnostics.IncompleteProgram, nil, "not a number: %s", s))
		}
		return Succeed(n)
	})
	double := counted(&b, func(n int) Output[int] { return Succeed(n * 2) })
	render := counted(&c, func(n int) Output[string] { return Succeed("=" + strconv.Itoa(n)) })

	comp := Then(Then(New(parse), double), render)
	if comp.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", comp.Len())
	}
	out, ok := comp.Compile("21").Value()
	if !ok || out != "=42" {
		t.Fatalf("Compile = %q, %v", out, ok)
	}
	if a != 1 || b != 1 || c != 1 {
		t.Errorf("calls = %d %d %d, want 1 1 1", a, b, c)
	}
}

func TestCompileStopsAtFirstFailure(t *testing.T) {
	var second int
	d := diagnostics.Unbound(nil, "x")
	var fail Pass[int, int] = PassFunc[int, int](func(int) Output[int] { return Fail[int](d) })
	comp := Then(New(fail), counted(&second, func(n int) Output[int] { return Succeed(n) }))
	res := comp.Compile(1)
	diags, failed := res.Error()
	if !failed {
		t.Fatal("expected failure")
	}
	if len(diags) != 1 || diags[0] != d {
		t.Errorf("diagnostics = %v, want the failing pass's list unchanged", diags)
	}
	if second != 0 {
		t.Errorf("pass after failure ran %d times", second)
	}
}

func TestCompileStopsAtMiddleFailure(t *testing.T) {
	var first, second, third int
	want := diagnostics.List{
		diagnostics.Unbound(nil, "x"),
		diagnostics.Unbound(nil, "y"),
	}
	comp := Then(Then(
		New(counted(&first, func(n int) Output[int] { return Succeed(n + 1) })),
		counted(&second, func(int) Output[int] { return Fail[int](want...) })),
		counted(&third, func(n int) Output[string] { return Succeed(strconv.Itoa(n)) }))

	diags, failed := comp.Compile(1).Error()
	if !failed {
		t.Fatal("expected failure")
	}
	if len(diags) != len(want) {
		t.Fatalf("diagnostics = %v, want %v", diags, want)
	}
	for i := range want {
		if diags[i] != want[i] {
			t.Errorf("diagnostic %d = %v, want %v", i, diags[i], want[i])
		}
	}
	if first != 1 || second != 1 || third != 0 {
		t.Errorf("calls = %d %d %d, want 1 1 0", first, second, third)
	}
}

func TestCompileIsSingleUse(t *testing.T) {
	comp := New(identity)
	comp.Compile(1)

	expectFinalized(t, "Compile", func() { comp.Compile(2) })
	expectFinalized(t, "Then", func() { Then(comp, identity) })
}

func TestCompileAfterFailureIsFinalized(t *testing.T) {
	var fail Pass[int, int] = PassFunc[int, int](func(int) Output[int] { return Fail[int]() })
	comp := New(fail)
	if !comp.Compile(0).IsErr() {
		t.Fatal("expected failure")
	}
	expectFinalized(t, "Compile", func() { comp.Compile(0) })
}

func TestExtendingTwiceFromOneHandlePanics(t *testing.T) {
	base := New(identity)
	Then(base, identity)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when branching a compiler")
		}
	}()
	Then(base, identity)
}

func expectFinalized(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrFinalized) {
			t.Errorf("%s after compile: panic = %v, want ErrFinalized", what, r)
		}
	}()
	fn()
}

package result

import (
	"errors"
	"strconv"
	"testing"
)

func TestVariants(t *testing.T) {
	ok := Ok[int, string](3)
	if !ok.IsOk() || ok.IsErr() {
		t.Fatal("Ok must be the success variant")
	}
	if v, good := ok.Value(); !good || v != 3 {
		t.Errorf("Value() = %d, %v", v, good)
	}
	if _, bad := ok.Error(); bad {
		t.Error("Error() on Ok reported a failure")
	}

	e := Err[int]("boom")
	if e.IsOk() || !e.IsErr() {
		t.Fatal("Err must be the failure variant")
	}
	if p, bad := e.Error(); !bad || p != "boom" {
		t.Errorf("Error() = %q, %v", p, bad)
	}
	if _, good := e.Value(); good {
		t.Error("Value() on Err reported success")
	}
}

func TestString(t *testing.T) {
	if got := Ok[int, string](1).String(); got != "Ok(1)" {
		t.Errorf("got %q", got)
	}
	if got := Err[int]("x").String(); got != "Err(x)" {
		t.Errorf("got %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	if got := Unwrap(Ok[string, error]("v")); got != "v" {
		t.Errorf("Unwrap = %q", got)
	}

	cause := errors.New("cause")
	defer func() {
		r := recover()
		ue, ok := r.(*UnwrapError)
		if !ok {
			t.Fatalf("panic value = %#v, want *UnwrapError", r)
		}
		if ue.Payload != cause || ue.Error() != "cause" {
			t.Errorf("payload = %v", ue.Payload)
		}
	}()
	Unwrap(Err[string](cause))
}

func TestUnwrapErrorMessage(t *testing.T) {
	tests := []struct {
		payload any
		want    string
	}{
		{"text", "text"},
		{errors.New("wrapped"), "wrapped"},
		{7, "unwrapped Err(7)"},
	}
	for _, tt := range tests {
		if got := (&UnwrapError{Payload: tt.payload}).Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestUnwrapOr(t *testing.T) {
	if got := UnwrapOr(Ok[int, string](1), 9); got != 1 {
		t.Errorf("got %d", got)
	}
	if got := UnwrapOr(Err[int]("x"), 9); got != 9 {
		t.Errorf("got %d", got)
	}
}

func TestMatchAndMap(t *testing.T) {
	fold := func(r Result[int, string]) string {
		return Match(r, strconv.Itoa, func(e string) string { return "err:" + e })
	}
	if got := fold(Ok[int, string](5)); got != "5" {
		t.Errorf("got %q", got)
	}
	if got := fold(Err[int]("bad")); got != "err:bad" {
		t.Errorf("got %q", got)
	}

	double := func(n int) int { return n * 2 }
	if v, _ := Map(Ok[int, string](4), double).Value(); v != 8 {
		t.Errorf("Map on Ok = %d", v)
	}
	calls := 0
	m := Map(Err[int]("kept"), func(n int) int { calls++; return n })
	if p, bad := m.Error(); !bad || p != "kept" || calls != 0 {
		t.Errorf("Map on Err = %v, calls=%d", m, calls)
	}
}

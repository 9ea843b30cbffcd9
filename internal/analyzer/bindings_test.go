package analyzer

import (
	"testing"

	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/syntax/surface"
)

func ref(n string) *surface.Name { return &surface.Name{Name: n} }

func mainOf(body surface.Expression) *surface.Module {
	return &surface.Module{Globals: []surface.Global{&surface.Main{Body: body}}}
}

func TestBindingCheckerAccepts(t *testing.T) {
	tests := []struct {
		name string
		m    *surface.Module
	}{
		{"prelude name", mainOf(ref("print"))},
		{"intrinsic", mainOf(ref("__core.seq"))},
		{"closure parameter", mainOf(&surface.Closure{Parameters: []string{"x", "y"}, Body: ref("y")})},
		{"with binding", mainOf(&surface.With{Name: "x", Value: &surface.Number{Value: 1}, Expr: ref("x")})},
		{"global used before definition", &surface.Module{Globals: []surface.Global{
			&surface.Main{Body: ref("later")},
			&surface.Define{Name: "later", Value: &surface.Number{Value: 1}},
		}}},
		{"recursive function", &surface.Module{Globals: []surface.Global{
			&surface.DefineFunction{Name: "loop", Parameters: []string{"n"}, Body: &surface.Call{
				Callee: ref("loop"), Parameters: []surface.Expression{ref("n")},
			}},
		}}},
		{"let visible to later statements", mainOf(&surface.Procedure{Body: []surface.Statement{
			&surface.Let{Name: "x", Value: &surface.Number{Value: 1}},
			&surface.Print{Value: ref("x")},
			&surface.Set{Name: "x", Value: ref("x")},
		}})},
		{"for binding", mainOf(&surface.Procedure{Body: []surface.Statement{
			&surface.ForIn{Binding: "item", Value: &surface.List{}, Body: &surface.Print{Value: ref("item")}},
		}})},
		{"holes", mainOf(&surface.Procedure{Body: []surface.Statement{
			&surface.HoleStmt{},
			&surface.Do{Body: &surface.Hole{}},
		}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := NewBindingChecker().Check(tt.m); len(errs) != 0 {
				t.Errorf("unexpected diagnostics: %v", errs)
			}
		})
	}
}

func TestBindingCheckerRejects(t *testing.T) {
	tests := []struct {
		name  string
		m     *surface.Module
		kind  diagnostics.Kind
		ident string
	}{
		{"free name", mainOf(ref("nope")), diagnostics.UnboundIdentifier, "nope"},
		{"with does not bind its own value", mainOf(&surface.With{Name: "x", Value: ref("x"), Expr: ref("x")}), diagnostics.UnboundIdentifier, "x"},
		{"parameter out of scope", mainOf(&surface.Call{
			Callee:     &surface.Closure{Parameters: []string{"p"}, Body: ref("p")},
			Parameters: []surface.Expression{ref("p")},
		}), diagnostics.UnboundIdentifier, "p"},
		{"let used before it runs", mainOf(&surface.Procedure{Body: []surface.Statement{
			&surface.Print{Value: ref("x")},
			&surface.Let{Name: "x", Value: &surface.Number{Value: 1}},
		}}), diagnostics.UnboundIdentifier, "x"},
		{"let does not leak from if body", mainOf(&surface.Procedure{Body: []surface.Statement{
			&surface.IfStmt{Condition: &surface.Boolean{Value: true}, Body: &surface.Let{Name: "y", Value: &surface.Number{Value: 1}}},
			&surface.Print{Value: ref("y")},
		}}), diagnostics.UnboundIdentifier, "y"},
		{"set of unknown name", mainOf(&surface.Procedure{Body: []surface.Statement{
			&surface.Set{Name: "z", Value: &surface.Number{Value: 1}},
		}}), diagnostics.UnboundIdentifier, "z"},
		{"duplicate global", &surface.Module{Globals: []surface.Global{
			&surface.Define{Name: "a", Value: &surface.Number{Value: 1}},
			&surface.DefineFunction{Name: "a", Body: &surface.Number{Value: 2}},
		}}, diagnostics.DuplicateDefinition, "a"},
		{"two mains", &surface.Module{Globals: []surface.Global{
			&surface.Main{Body: &surface.Number{Value: 1}},
			&surface.Main{Body: &surface.Number{Value: 2}},
		}}, diagnostics.MultipleEntryPoints, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewBindingChecker().Check(tt.m)
			if len(errs) != 1 {
				t.Fatalf("diagnostics = %v, want exactly one", errs)
			}
			if errs[0].Kind != tt.kind || errs[0].Identifier != tt.ident {
				t.Errorf("got %s %q, want %s %q", errs[0].Kind, errs[0].Identifier, tt.kind, tt.ident)
			}
		})
	}
}

func TestBindingCheckerCollectsEverything(t *testing.T) {
	m := mainOf(&surface.Tuple{Values: []surface.Expression{ref("a"), ref("b"), ref("print")}})
	bc := NewBindingChecker()
	res := bc.Run(m)
	errs, failed := res.Error()
	if !failed {
		t.Fatal("expected failure")
	}
	if errs.Count(diagnostics.UnboundIdentifier) != 2 {
		t.Errorf("diagnostics = %v", errs)
	}

	// The checker is reusable.
	ok := bc.Run(mainOf(ref("print")))
	if got, passed := ok.Value(); !passed || got == nil {
		t.Errorf("second run = %s", ok)
	}
}

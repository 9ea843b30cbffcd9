package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/serendipity/internal/syntax"
)

func at(line, col int) syntax.Node {
	n := &syntax.Object{}
	n.SetMeta(syntax.MetaPosition, syntax.Position{Line: line, Column: col})
	return n
}

func TestKinds(t *testing.T) {
	if Kinds.Len() != len(kindInfo) {
		t.Fatalf("universe has %d kinds, table has %d", Kinds.Len(), len(kindInfo))
	}
	tests := []struct {
		kind Kind
		code string
		name string
	}{
		{UnboundIdentifier, "E001", "unbound identifier"},
		{DuplicateDefinition, "E002", "duplicate definition"},
		{MultipleEntryPoints, "E003", "multiple entry points"},
		{IncompleteProgram, "E004", "incomplete program"},
		{UnsupportedConstruct, "E005", "unsupported construct"},
		{RuntimeFailure, "R001", "runtime error"},
		{Kind(99), "E000", "unknown"},
	}
	for _, tt := range tests {
		if tt.kind.Code() != tt.code || tt.kind.String() != tt.name {
			t.Errorf("%d: got %s %q, want %s %q", tt.kind, tt.kind.Code(), tt.kind, tt.code, tt.name)
		}
	}
}

func TestDiagnosticError(t *testing.T) {
	tests := []struct {
		name string
		d    *Diagnostic
		want string
	}{
		{"bare", Unbound(nil, "x"), "E001: unbound identifier 'x'"},
		{"positioned", Duplicate(at(2, 4), "f"), "2:4: E002: 'f' is already defined"},
		{"with file", &Diagnostic{Kind: IncompleteProgram, Node: at(1, 1), Message: "hole", File: "a.yaml"}, "a.yaml:1:1: E004: hole"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHelpersRecordIdentifier(t *testing.T) {
	if d := Unbound(nil, "y"); d.Identifier != "y" || d.Kind != UnboundIdentifier {
		t.Errorf("Unbound = %+v", d)
	}
	if d := Duplicate(nil, "g"); d.Identifier != "g" || d.Kind != DuplicateDefinition {
		t.Errorf("Duplicate = %+v", d)
	}
	if d := NewError(UnsupportedConstruct, nil, "%s not supported", "for"); d.Message != "for not supported" {
		t.Errorf("NewError message = %q", d.Message)
	}
}

func TestList(t *testing.T) {
	l := List{
		Unbound(at(1, 2), "a"),
		Unbound(nil, "b"),
		&Diagnostic{Kind: MultipleEntryPoints, Message: "two mains", File: "other.yaml"},
	}
	if l.Count(UnboundIdentifier) != 2 || l.Count(MultipleEntryPoints) != 1 || l.Count(RuntimeFailure) != 0 {
		t.Error("Count is wrong")
	}

	l.WithFile("main.yaml")
	if l[0].File != "main.yaml" || l[2].File != "other.yaml" {
		t.Errorf("WithFile must only fill missing files: %q %q", l[0].File, l[2].File)
	}

	want := "main.yaml:1:2: E001: unbound identifier 'a'\n" +
		"main.yaml: E001: unbound identifier 'b'\n" +
		"other.yaml: E003: two mains"
	if got := l.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormat(t *testing.T) {
	l := List{
		Unbound(at(3, 10), "x"),
		&Diagnostic{Kind: IncompleteProgram, Message: "hole", File: "lib.yaml"},
		NewError(RuntimeFailure, nil, "division by zero"),
	}
	want := "error[E001 main.yaml:3:10]: unbound identifier 'x'\n" +
		"error[E004 lib.yaml]: hole\n" +
		"error[R001 main.yaml]: division by zero\n"
	if got := Format(l, "main.yaml"); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}

	if got := Format(List{Unbound(at(1, 1), "z")}, ""); got != "error[E001 1:1]: unbound identifier 'z'\n" {
		t.Errorf("Format without file = %q", got)
	}
	if got := Format(List{NewError(IncompleteProgram, nil, "hole")}, ""); got != "error[E004]: hole\n" {
		t.Errorf("Format without location = %q", got)
	}
}

func TestRendererColor(t *testing.T) {
	l := List{Unbound(at(1, 1), "x")}

	var plain bytes.Buffer
	if err := NewRenderer(&plain, ColorAuto).Render(l, "f.yaml"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("auto mode on a buffer must not colour: %q", plain.String())
	}

	var colored bytes.Buffer
	if err := NewRenderer(&colored, ColorAlways).Render(l, "f.yaml"); err != nil {
		t.Fatal(err)
	}
	out := colored.String()
	if !strings.Contains(out, "\x1b[") || !strings.Contains(out, "unbound identifier 'x'") {
		t.Errorf("always mode output = %q", out)
	}

	var never bytes.Buffer
	_ = NewRenderer(&never, ColorNever).Render(l, "f.yaml")
	if never.String() != plain.String() {
		t.Errorf("never mode = %q, want %q", never.String(), plain.String())
	}
}

package driver

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
	"github.com/funvibe/serendipity/internal/syntax/surface"
)

func fixture(name string) string {
	return filepath.Join("testdata", name, "main"+config.SourceFileExt)
}

func TestRunTreeWalk(t *testing.T) {
	var out bytes.Buffer
	d := New(Options{Config: config.Default(), Out: &out})

	r, err := d.Run(context.Background(), fixture("hello"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "hello, world\n3\n"
	if string(r.Output) != want {
		t.Errorf("output = %q, want %q", r.Output, want)
	}
	if out.String() != want {
		t.Errorf("streamed output = %q", out.String())
	}
	if r.Backend != "tree-walk" {
		t.Errorf("backend = %s", r.Backend)
	}
	if r.Module != "main" {
		t.Errorf("module = %q, want main", r.Module)
	}
}

func TestRunUsesProjectFile(t *testing.T) {
	d := New(Options{})
	r, err := d.Run(context.Background(), fixture("emit"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if filepath.Base(r.ConfigPath) != "serendipity.yaml" {
		t.Errorf("config path = %q", r.ConfigPath)
	}
	if r.Backend != "emit" {
		t.Errorf("backend = %s", r.Backend)
	}
	// The with binding is never used, so the optimizer drops it.
	if got := string(r.Output); got != "__start = 42\n" {
		t.Errorf("emitted %q", got)
	}
}

func TestRunWithoutOptimizer(t *testing.T) {
	off := false
	cfg := config.Default()
	cfg.Backend = config.BackendEmit
	cfg.Optimize.DeadCode = &off

	r, err := New(Options{Config: cfg}).Run(context.Background(), fixture("emit"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := string(r.Output); got != "__start = (λunused.42 1)\n" {
		t.Errorf("emitted %q", got)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	tests := []struct {
		fixture string
		kind    diagnostics.Kind
		text    string
	}{
		{"broken", diagnostics.UnboundIdentifier, "3:9: E001: unbound identifier 'missing'"},
		{"runtime", diagnostics.RuntimeFailure, "R001: attempted to do arithmetic on non-numbers"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			_, err := New(Options{Config: config.Default()}).Run(context.Background(), fixture(tt.fixture))

			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("expected CompileError, got %v", err)
			}
			if ce.Diagnostics.Count(tt.kind) != 1 {
				t.Errorf("diagnostics = %v", ce.Diagnostics)
			}
			if !strings.Contains(err.Error(), tt.text) {
				t.Errorf("error %q does not contain %q", err, tt.text)
			}
			if !strings.HasPrefix(err.Error(), ce.Path) {
				t.Errorf("error %q does not name its file", err)
			}
		})
	}
}

func TestRunKeepsOutputBeforeRuntimeFailure(t *testing.T) {
	var live bytes.Buffer
	_, err := New(Options{Config: config.Default(), Out: &live}).Run(context.Background(), fixture("partial"))

	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if ce.Diagnostics.Count(diagnostics.RuntimeFailure) != 1 {
		t.Errorf("diagnostics = %v", ce.Diagnostics)
	}
	if got := string(ce.Output); got != "before-failure\n" {
		t.Errorf("error output = %q, want %q", got, "before-failure\n")
	}
	if got := live.String(); got != "before-failure\n" {
		t.Errorf("live output = %q, want %q", got, "before-failure\n")
	}
}

func TestRenderCompileError(t *testing.T) {
	_, err := New(Options{Config: config.Default()}).Run(context.Background(), fixture("broken"))

	var buf bytes.Buffer
	Render(&buf, err, diagnostics.ColorNever)
	want := "error[E001 " + fixture("broken") + ":3:9]: unbound identifier 'missing'\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	Render(&buf, errors.New("disk on fire"), diagnostics.ColorNever)
	if buf.String() != "error: disk on fire\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := New(Options{Config: config.Default()}).Run(context.Background(), fixture("nowhere"))
	if err == nil || !strings.Contains(err.Error(), "reading module") {
		t.Errorf("got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{Config: config.Default()}).Run(ctx, fixture("hello"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestCompileAll(t *testing.T) {
	d := New(Options{Config: config.Default(), Parallel: 2})

	reports, err := d.CompileAll(context.Background(), []string{fixture("hello"), fixture("emit")})
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(reports) != 2 || reports[0].Path != fixture("hello") || reports[1].Path != fixture("emit") {
		t.Fatalf("reports out of order: %+v", reports)
	}
	if string(reports[1].Output) != "" {
		t.Errorf("emit fixture printed %q under the tree backend", reports[1].Output)
	}

	_, err = d.CompileAll(context.Background(), []string{fixture("hello"), fixture("broken")})
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Path != fixture("broken") {
		t.Errorf("got %v", err)
	}
}

func TestNewCompilerStages(t *testing.T) {
	off := false
	cfg := config.Default()
	if n := NewCompiler(cfg, nil).Len(); n != 3 {
		t.Errorf("default compiler has %d passes, want 3", n)
	}
	cfg.Optimize.DeadCode = &off
	c := NewCompiler(cfg, nil)
	if c.Len() != 2 {
		t.Errorf("compiler without optimizer has %d passes, want 2", c.Len())
	}

	m := &surface.Module{Globals: []surface.Global{&surface.Main{Body: &surface.Number{Value: 1}}}}
	out, ok := c.Compile(m).Value()
	if !ok {
		t.Fatalf("Compile failed")
	}
	if main := out.Main(); main == nil || !abstract.Equal(main.Body, abstract.NewNumber(1)) {
		t.Errorf("main = %#v", out.Main())
	}
}

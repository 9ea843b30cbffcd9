package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "serendipity.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendTree {
		t.Errorf("backend = %q, want %q", cfg.Backend, BackendTree)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("color = %q, want auto", cfg.Output.Color)
	}
	if !cfg.DeadCodeEnabled() {
		t.Error("dead code elimination should default to on")
	}
}

func TestParseConfig_Valid(t *testing.T) {
	yaml := `
backend: emit
optimize:
  dead_code: false
  log_eliminations: true
output:
  color: never
`
	cfg, err := ParseConfig([]byte(yaml), "serendipity.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendEmit {
		t.Errorf("backend = %q, want emit", cfg.Backend)
	}
	if cfg.DeadCodeEnabled() {
		t.Error("dead_code: false was ignored")
	}
	if !cfg.Optimize.LogEliminations {
		t.Error("log_eliminations: true was ignored")
	}
	if cfg.Output.Color != "never" {
		t.Errorf("color = %q, want never", cfg.Output.Color)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown backend", "backend: vm\n", `backend "vm"`},
		{"unknown color", "output:\n  color: sometimes\n", `output.color "sometimes"`},
		{"malformed", "backend: [\n", "parsing bad.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "bad.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.Backend != BackendTree || d.Output.Color != "auto" || !d.DeadCodeEnabled() {
		t.Errorf("Default() = %+v", d)
	}
}

func TestFindConfig(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(tmpDir, "serendipity.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend: emit\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Found from a deep subdirectory
	found, err := FindConfig(subDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found = %q, want %q", found, cfgPath)
	}

	// A nearer project file wins
	nearer := filepath.Join(tmpDir, "a", "serendipity.yml")
	if err := os.WriteFile(nearer, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err = FindConfig(subDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nearer {
		t.Errorf("found = %q, want %q", found, nearer)
	}

	otherDir := t.TempDir()
	found, err = FindConfig(otherDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("expected empty, got %q", found)
	}
}

func TestLoadForSource(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "main"+SourceFileExt)

	cfg, path, err := LoadForSource(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" || cfg.Backend != BackendTree {
		t.Errorf("without project file: path=%q backend=%q", path, cfg.Backend)
	}

	cfgPath := filepath.Join(tmpDir, "serendipity.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend: emit\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = LoadForSource(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != cfgPath || cfg.Backend != BackendEmit {
		t.Errorf("with project file: path=%q backend=%q", path, cfg.Backend)
	}

	if err := os.WriteFile(cfgPath, []byte("backend: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadForSource(source); err == nil {
		t.Error("expected an invalid project file to fail")
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("err = %v", err)
	}
}

func TestIntrinsicNames(t *testing.T) {
	if got := IntrinsicName(SeqIntrinsic); got != "__core.seq" {
		t.Errorf("IntrinsicName = %q", got)
	}
	tests := []struct {
		name string
		want bool
	}{
		{"__core", true},
		{"__core.print_stmt", true},
		{"__corex", false},
		{"__cor", false},
		{"print", false},
	}
	for _, tt := range tests {
		if got := IsIntrinsicName(tt.name); got != tt.want {
			t.Errorf("IsIntrinsicName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	for name, intrinsic := range PreludeNames {
		if IsIntrinsicName(name) || intrinsic == "" {
			t.Errorf("prelude name %q -> %q is malformed", name, intrinsic)
		}
	}
}

func TestSourceExtensions(t *testing.T) {
	tests := []struct {
		path    string
		has     bool
		trimmed string
	}{
		{"main.sdp.yaml", true, "main"},
		{"dir/lib.sdp.yml", true, "dir/lib"},
		{"serendipity.yaml", false, "serendipity.yaml"},
		{"main.yaml", false, "main.yaml"},
	}
	for _, tt := range tests {
		if got := HasSourceExt(tt.path); got != tt.has {
			t.Errorf("HasSourceExt(%q) = %v, want %v", tt.path, got, tt.has)
		}
		if got := TrimSourceExt(tt.path); got != tt.trimmed {
			t.Errorf("TrimSourceExt(%q) = %q, want %q", tt.path, got, tt.trimmed)
		}
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project represents a serendipity.yaml configuration.
type Project struct {
	// Backend selects what consumes the lowered module: "tree" runs it,
	// "emit" prints it. Defaults to "tree".
	Backend string `yaml:"backend,omitempty"`

	Optimize Optimize `yaml:"optimize"`
	Output   Output   `yaml:"output"`
}

// Optimize configures the optimizer passes.
type Optimize struct {
	// DeadCode enables dead closure elimination. Defaults to true.
	DeadCode *bool `yaml:"dead_code,omitempty"`

	// LogEliminations reports every dead closure and eliminated call at
	// debug level.
	LogEliminations bool `yaml:"log_eliminations,omitempty"`
}

// Output configures diagnostic rendering.
type Output struct {
	// Color is one of auto, always, never. Defaults to auto.
	Color string `yaml:"color,omitempty"`
}

// Backend names
const (
	BackendTree = "tree"
	BackendEmit = "emit"
)

// Default returns the configuration used when no project file exists.
func Default() *Project {
	p := &Project{}
	p.setDefaults()
	return p
}

// DeadCodeEnabled reports whether dead closure elimination should run.
func (p *Project) DeadCodeEnabled() bool {
	return p.Optimize.DeadCode == nil || *p.Optimize.DeadCode
}

// LoadConfig reads and parses a serendipity.yaml file.
func LoadConfig(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses serendipity.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()
	return &p, nil
}

// FindConfig searches for a project file starting from dir and walking up
// to parent directories. It returns "" and a nil error when none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ProjectFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// LoadForSource finds and loads the project file governing a source file,
// falling back to Default.
func LoadForSource(source string) (*Project, string, error) {
	path, err := FindConfig(filepath.Dir(source))
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	p, err := LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

// validate checks the configuration for semantic errors.
func (p *Project) validate(path string) error {
	switch p.Backend {
	case "", BackendTree, BackendEmit:
	default:
		return fmt.Errorf("%s: backend %q is not one of %s, %s", path, p.Backend, BackendTree, BackendEmit)
	}
	switch p.Output.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: output.color %q is not one of auto, always, never", path, p.Output.Color)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (p *Project) setDefaults() {
	if p.Backend == "" {
		p.Backend = BackendTree
	}
	if p.Output.Color == "" {
		p.Output.Color = "auto"
	}
}

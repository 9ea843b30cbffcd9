// Package backend provides the consumers of a lowered module.
// This allows switching between running the program and emitting it.
package backend

import (
	"fmt"

	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// Backend is the interface for back ends
type Backend interface {
	// Run consumes the module and returns what it produced: program output
	// for execution, source text for emission.
	Run(m *abstract.Module) ([]byte, error)

	// Name returns the backend name for display
	Name() string
}

// ForName returns the back end selected by a project file.
func ForName(name string) (Backend, error) {
	switch name {
	case config.BackendTree, "":
		return NewTreeWalk(), nil
	case config.BackendEmit:
		return NewEmit(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

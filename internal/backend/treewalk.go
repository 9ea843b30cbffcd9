package backend

import (
	"bytes"
	"fmt"
	"io"

	"github.com/funvibe/serendipity/internal/evaluator"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// TreeWalkBackend runs the module with the interpreter. Printed lines are
// collected and returned; they are also copied to Out when it is set.
type TreeWalkBackend struct {
	Out io.Writer
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

// Run executes the program using tree-walk interpretation
func (b *TreeWalkBackend) Run(m *abstract.Module) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("no module to execute")
	}

	var buf bytes.Buffer
	printer := func(s string) {
		buf.WriteString(s)
		buf.WriteByte('\n')
		if b.Out != nil {
			fmt.Fprintln(b.Out, s)
		}
	}

	in := evaluator.New(evaluator.Options{Printer: printer})
	if _, err := in.ExecModule(m); err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}

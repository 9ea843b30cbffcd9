package backend

import (
	"fmt"

	"github.com/funvibe/serendipity/internal/prettyprinter"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// EmitBackend renders the lowered module as text, one global per line.
type EmitBackend struct{}

func NewEmit() *EmitBackend {
	return &EmitBackend{}
}

func (b *EmitBackend) Run(m *abstract.Module) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("no module to emit")
	}
	p := prettyprinter.NewAbstractPrinter()
	p.PrintModule(m)
	return p.Bytes(), nil
}

func (b *EmitBackend) Name() string {
	return "emit"
}

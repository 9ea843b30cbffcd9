package backend

import (
	"errors"
	"strings"

	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/evaluator"
	"github.com/funvibe/serendipity/internal/pipeline"
	"github.com/funvibe/serendipity/internal/syntax"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// ExecutionProcessor is the last pass of a pipeline: it hands the lowered
// module to a Backend.
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline pass for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

// Pass adapts b to a pipeline pass.
func Pass(b Backend) pipeline.Pass[*abstract.Module, []byte] {
	return NewExecutionProcessor(b)
}

// Run implements pipeline.Pass. A back-end error becomes a single runtime
// diagnostic.
func (p *ExecutionProcessor) Run(m *abstract.Module) pipeline.Output[[]byte] {
	out, err := p.Backend.Run(m)
	if err != nil {
		return pipeline.Fail[[]byte](runtimeDiagnostic(err))
	}
	return pipeline.Succeed(out)
}

func runtimeDiagnostic(err error) *diagnostics.Diagnostic {
	var rt *evaluator.Error
	if !errors.As(err, &rt) {
		return diagnostics.NewError(diagnostics.RuntimeFailure, nil, "%s", strings.TrimPrefix(err.Error(), "runtime error: "))
	}

	var at syntax.Node
	if rt.Line > 0 {
		loc := &syntax.Object{}
		loc.SetMeta(syntax.MetaPosition, syntax.Position{Line: rt.Line, Column: rt.Column})
		at = loc
	}
	return diagnostics.NewError(diagnostics.RuntimeFailure, at, "%s", rt.Message)
}

// Package driver runs the whole tool chain on source trees: it finds the
// project configuration, decodes the surface tree, compiles it to the
// abstract dialect and hands the result to a back end.
package driver

import (
	"log/slog"

	"github.com/funvibe/serendipity/internal/analyzer"
	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/lower"
	"github.com/funvibe/serendipity/internal/optimizer"
	"github.com/funvibe/serendipity/internal/pipeline"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
	"github.com/funvibe/serendipity/internal/syntax/surface"
)

// NewCompiler builds the lowering pipeline for cfg: binding check, lowering
// and, when enabled, dead closure elimination. A compiler compiles once.
func NewCompiler(cfg *config.Project, logger *slog.Logger) *pipeline.Compiler[*surface.Module, *abstract.Module] {
	checked := pipeline.New[*surface.Module, *surface.Module](analyzer.NewBindingChecker())
	lowered := pipeline.Then[*surface.Module, *surface.Module, *abstract.Module](checked, lower.New())
	if !cfg.DeadCodeEnabled() {
		return lowered
	}
	var opts []optimizer.Option
	if cfg.Optimize.LogEliminations {
		opts = append(opts, optimizer.WithLogger(logger))
	}
	return pipeline.Then(lowered, optimizer.Pass(opts...))
}

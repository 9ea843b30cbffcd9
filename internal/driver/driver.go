package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/serendipity/internal/backend"
	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/prettyprinter"
	"github.com/funvibe/serendipity/internal/statemachine"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
	"github.com/funvibe/serendipity/internal/syntax/surface"
	"github.com/funvibe/serendipity/internal/utils"
)

// CompileError reports the diagnostics that stopped a source file. Every
// diagnostic carries Path as its file. Output holds what the program printed
// before a runtime failure.
type CompileError struct {
	Path        string
	Diagnostics diagnostics.List
	Output      []byte
}

func (e *CompileError) Error() string {
	return e.Diagnostics.Error()
}

// Report is the outcome of one successful run.
type Report struct {
	Path       string
	Module     string // Path without directory and source extension
	ConfigPath string // "" when defaults were used
	Backend    string
	Output     []byte
}

// Options configures a Driver.
type Options struct {
	Logger *slog.Logger
	// Config overrides project file discovery when set.
	Config *config.Project
	// Override adjusts each file's configuration after it is loaded.
	Override func(*config.Project)
	// Out receives program output as it is printed. Reports carry it too.
	Out io.Writer
	// Parallel bounds CompileAll. Zero means no limit.
	Parallel int
}

// Driver runs source files through the workflow. It is safe for
// concurrent use.
type Driver struct {
	opts    Options
	logger  *slog.Logger
	machine *statemachine.Machine[phase, job, *Report]
}

func New(opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Driver{opts: opts, logger: logger}
	d.machine = statemachine.New[phase, job, *Report](phases...).
		MustBuild(d.describe, statemachine.WithLogger(logger))
	return d
}

// Run takes one source file through the whole workflow.
func (d *Driver) Run(ctx context.Context, path string) (*Report, error) {
	return d.machine.Run(ctx, job{phase: phaseConfigure, path: path})
}

// CompileAll runs every path concurrently and returns reports in the order
// of paths. The first failure cancels the remaining runs.
func (d *Driver) CompileAll(ctx context.Context, paths []string) ([]*Report, error) {
	reports := make([]*Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if d.opts.Parallel > 0 {
		g.SetLimit(d.opts.Parallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			r, err := d.Run(ctx, path)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

type phase int

const (
	phaseConfigure phase = iota
	phaseDecode
	phaseCompile
	phaseExecute
)

var phases = []phase{phaseConfigure, phaseDecode, phaseCompile, phaseExecute}

func (p phase) String() string {
	switch p {
	case phaseConfigure:
		return "configure"
	case phaseDecode:
		return "decode"
	case phaseCompile:
		return "compile"
	case phaseExecute:
		return "execute"
	}
	return "phase(?)"
}

// job is the state threaded through the workflow.
type job struct {
	phase      phase
	path       string
	cfg        *config.Project
	configPath string
	source     *surface.Module
	lowered    *abstract.Module
}

func (j job) Kind() phase { return j.phase }

func (j job) next(p phase) job {
	j.phase = p
	return j
}

type (
	outcome    = statemachine.Outcome[job, *Report]
	transition = func(job) outcome
	resolve    = func(*Report) outcome
	reject     = func(error) outcome
)

func (d *Driver) describe(next transition, done resolve, fail reject) statemachine.Table[phase, job, *Report] {
	return statemachine.Table[phase, job, *Report]{
		phaseConfigure: func(ctx context.Context, j job) outcome {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}
			cfg, path := d.opts.Config, ""
			if cfg == nil {
				var err error
				if cfg, path, err = config.LoadForSource(j.path); err != nil {
					return fail(err)
				}
			}
			own := *cfg
			if d.opts.Override != nil {
				d.opts.Override(&own)
			}
			j.cfg, j.configPath = &own, path
			d.logger.Debug("configuration", "source", j.path, "config", path, "backend", own.Backend)
			return next(j.next(phaseDecode))
		},

		phaseDecode: func(ctx context.Context, j job) outcome {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}
			m, err := surface.LoadModule(j.path)
			if err != nil {
				return fail(err)
			}
			j.source = m
			if d.logger.Enabled(ctx, slog.LevelDebug) {
				d.logger.Debug("decoded", "source", j.path, "globals", len(m.Globals), "tree", prettyprinter.SurfaceModule(m))
			}
			return next(j.next(phaseCompile))
		},

		phaseCompile: func(ctx context.Context, j job) outcome {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}
			res := NewCompiler(j.cfg, d.logger).Compile(j.source)
			lowered, ok := res.Value()
			if !ok {
				diags, _ := res.Error()
				return fail(&CompileError{Path: j.path, Diagnostics: diags.WithFile(j.path)})
			}
			j.lowered = lowered
			if d.logger.Enabled(ctx, slog.LevelDebug) {
				d.logger.Debug("lowered", "source", j.path, "module", prettyprinter.AbstractModule(lowered))
			}
			return next(j.next(phaseExecute))
		},

		phaseExecute: func(ctx context.Context, j job) outcome {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}
			b, err := backend.ForName(j.cfg.Backend)
			if err != nil {
				return fail(err)
			}
			if tw, ok := b.(*backend.TreeWalkBackend); ok {
				tw.Out = d.opts.Out
			}
			run := &capturing{Backend: b}
			res := backend.Pass(run).Run(j.lowered)
			out, ok := res.Value()
			if !ok {
				diags, _ := res.Error()
				return fail(&CompileError{Path: j.path, Diagnostics: diags.WithFile(j.path), Output: run.out})
			}
			d.logger.Info("done", "source", j.path, "backend", b.Name(), "bytes", len(out))
			return done(&Report{Path: j.path, Module: utils.ExtractModuleName(j.path), ConfigPath: j.configPath, Backend: b.Name(), Output: out})
		},
	}
}

// capturing keeps the output of a failed back-end run, which the pipeline
// pass drops.
type capturing struct {
	backend.Backend
	out []byte
}

func (c *capturing) Run(m *abstract.Module) ([]byte, error) {
	out, err := c.Backend.Run(m)
	c.out = out
	return out, err
}

// Render writes err for humans. Compile errors get the diagnostic renderer;
// anything else is printed as is.
func Render(w io.Writer, err error, mode diagnostics.ColorMode) {
	var ce *CompileError
	if errors.As(err, &ce) {
		_ = diagnostics.NewRenderer(w, mode).Render(ce.Diagnostics, ce.Path)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

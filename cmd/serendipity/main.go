package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/driver"
	"github.com/funvibe/serendipity/internal/utils"
)

const usage = `Usage: serendipity [options] <file|dir>...

Runs each tree file (` + config.SourceFileExt + `) through the compiler. A directory
stands for the tree files directly inside it.

Options:
  -debug        log every workflow step and the trees it produces
  -emit         print the lowered module instead of running it
  -no-opt       skip dead closure elimination
  -color=MODE   auto, always or never (default from the project file)
  -j=N          run up to N files at once; the first failure stops the rest
  -help         show this message
`

type cliOptions struct {
	debug bool
	emit  bool
	noOpt bool
	color string
	jobs  int
	files []string
}

// parseArgs splits host flags from file arguments.
func parseArgs(args []string) (cliOptions, error) {
	var o cliOptions
	for _, arg := range args {
		switch {
		case arg == "-debug" || arg == "--debug":
			o.debug = true
		case arg == "-emit" || arg == "--emit":
			o.emit = true
		case arg == "-no-opt" || arg == "--no-opt":
			o.noOpt = true
		case strings.HasPrefix(arg, "-color=") || strings.HasPrefix(arg, "--color="):
			o.color = arg[strings.Index(arg, "=")+1:]
			switch diagnostics.ColorMode(o.color) {
			case diagnostics.ColorAuto, diagnostics.ColorAlways, diagnostics.ColorNever:
			default:
				return o, fmt.Errorf("unknown color mode %q", o.color)
			}
		case strings.HasPrefix(arg, "-j=") || strings.HasPrefix(arg, "--j="):
			n, err := strconv.Atoi(arg[strings.Index(arg, "=")+1:])
			if err != nil || n < 1 {
				return o, fmt.Errorf("bad job count in %s", arg)
			}
			o.jobs = n
		case strings.HasPrefix(arg, "-"):
			return o, fmt.Errorf("unknown option %s", arg)
		default:
			o.files = append(o.files, arg)
		}
	}
	return o, nil
}

func (o cliOptions) override(p *config.Project) {
	if o.emit {
		p.Backend = config.BackendEmit
	}
	if o.noOpt {
		off := false
		p.Optimize.DeadCode = &off
	}
	if o.debug {
		p.Optimize.LogEliminations = true
	}
	if o.color != "" {
		p.Output.Color = o.color
	}
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	for _, arg := range os.Args[1:] {
		if arg == "-help" || arg == "--help" || arg == "help" {
			fmt.Print(usage)
			return
		}
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if len(opts.files) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := utils.ExpandSources(opts.files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	d := driver.New(driver.Options{Logger: logger, Override: opts.override, Parallel: opts.jobs})
	if opts.jobs > 1 {
		reports, err := d.CompileAll(ctx, files)
		if err != nil {
			writePartial(os.Stdout, err)
			driver.Render(os.Stderr, err, colorFor(failedPath(err, files), opts))
			os.Exit(1)
		}
		for _, r := range reports {
			os.Stdout.Write(r.Output)
		}
		return
	}

	failed := false
	for _, file := range files {
		report, err := d.Run(ctx, file)
		if err != nil {
			writePartial(os.Stdout, err)
			driver.Render(os.Stderr, err, colorFor(file, opts))
			failed = true
			continue
		}
		os.Stdout.Write(report.Output)
	}
	if failed {
		os.Exit(1)
	}
}

// writePartial flushes what a program printed before it failed.
func writePartial(w io.Writer, err error) {
	var ce *driver.CompileError
	if errors.As(err, &ce) {
		w.Write(ce.Output)
	}
}

// failedPath names the file behind a CompileAll error, falling back to the
// first file.
func failedPath(err error, files []string) string {
	var ce *driver.CompileError
	if errors.As(err, &ce) {
		return ce.Path
	}
	return files[0]
}

// colorFor picks the diagnostic colour mode: the flag wins over the
// project file.
func colorFor(file string, o cliOptions) diagnostics.ColorMode {
	if o.color != "" {
		return diagnostics.ColorMode(o.color)
	}
	cfg, _, err := config.LoadForSource(file)
	if err != nil {
		return diagnostics.ColorAuto
	}
	return diagnostics.ColorMode(cfg.Output.Color)
}

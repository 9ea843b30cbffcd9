package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects when the renderer emits ANSI colours.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Renderer writes diagnostics for humans.
type Renderer struct {
	w     io.Writer
	label *color.Color
	where *color.Color
}

// NewRenderer creates a renderer writing to w. In ColorAuto mode colour is
// used only when w is a terminal and NO_COLOR / TERM=dumb do not object.
func NewRenderer(w io.Writer, mode ColorMode) *Renderer {
	r := &Renderer{
		w:     w,
		label: color.New(color.FgRed, color.Bold),
		where: color.New(color.Faint),
	}
	if useColor(w, mode) {
		r.label.EnableColor()
		r.where.EnableColor()
	} else {
		r.label.DisableColor()
		r.where.DisableColor()
	}
	return r
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes every diagnostic in l. file is used for diagnostics that do
// not name their own.
func (r *Renderer) Render(l List, file string) error {
	_, err := io.WriteString(r.w, r.format(l, file))
	return err
}

// Format renders l without colour.
//
//	error[E001 main.yaml:3:10]: unbound identifier 'x'
func Format(l List, file string) string {
	return NewRenderer(io.Discard, ColorNever).format(l, file)
}

func (r *Renderer) format(l List, file string) string {
	var b strings.Builder
	for _, d := range l {
		where := d.File
		if where == "" {
			where = file
		}
		if pos, ok := d.Position(); ok {
			if where == "" {
				where = pos.String()
			} else {
				where = fmt.Sprintf("%s:%s", where, pos)
			}
		}
		head := d.Kind.Code()
		if where != "" {
			head += " " + r.where.Sprint(where)
		}
		fmt.Fprintf(&b, "%s[%s]: %s\n", r.label.Sprint("error"), head, d.Message)
	}
	return b.String()
}

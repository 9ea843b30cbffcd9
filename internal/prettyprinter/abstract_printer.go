package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/syntax/abstract"
)

// --- Abstract Printer (compact lambda-calculus notation) ---
//
//	λx.(+ x 1)     closure
//	(f x)          call
//	[a b]          tuple
//	(c ? t : e)    conditional
//	∅              void

type AbstractPrinter struct {
	buf   bytes.Buffer
	print func(abstract.Expression) struct{}
}

func NewAbstractPrinter() *AbstractPrinter {
	p := &AbstractPrinter{}
	p.print = abstract.MatchExpression(abstract.ExpressionPattern[struct{}]{
		Number: func(n *abstract.Number) struct{} {
			p.write(formatNumber(n.Value))
			return struct{}{}
		},
		String: func(s *abstract.String) struct{} {
			p.write(strconv.Quote(s.Value))
			return struct{}{}
		},
		Boolean: func(b *abstract.Boolean) struct{} {
			p.write(strconv.FormatBool(b.Value))
			return struct{}{}
		},
		Name: func(n *abstract.Name) struct{} {
			p.write(n.Name)
			return struct{}{}
		},
		Accessor: func(a *abstract.Accessor) struct{} {
			p.print(a.Accessee)
			p.write("[")
			p.print(a.Index)
			p.write("]")
			return struct{}{}
		},
		Call: func(c *abstract.Call) struct{} {
			p.write("(")
			p.print(c.Callee)
			if c.Parameter != nil {
				p.write(" ")
				p.print(c.Parameter)
			}
			p.write(")")
			return struct{}{}
		},
		Closure: func(c *abstract.Closure) struct{} {
			p.write("λ" + c.Parameter + ".")
			p.print(c.Body)
			return struct{}{}
		},
		Tuple: func(t *abstract.Tuple) struct{} {
			p.write("[")
			for i, v := range t.Values {
				if i > 0 {
					p.write(" ")
				}
				p.print(v)
			}
			p.write("]")
			return struct{}{}
		},
		If: func(i *abstract.If) struct{} {
			p.write("(")
			p.print(i.Cond)
			p.write(" ? ")
			p.print(i.Then)
			p.write(" : ")
			p.print(i.Else)
			p.write(")")
			return struct{}{}
		},
		BinaryOp: func(b *abstract.BinaryOp) struct{} {
			p.write("(" + string(b.Op) + " ")
			p.print(b.Left)
			p.write(" ")
			p.print(b.Right)
			p.write(")")
			return struct{}{}
		},
		Void: func(*abstract.Void) struct{} {
			p.write("∅")
			return struct{}{}
		},
	})
	return p
}

func (p *AbstractPrinter) write(s string) {
	p.buf.WriteString(s)
}

// PrintExpression appends e to the printer's buffer.
func (p *AbstractPrinter) PrintExpression(e abstract.Expression) {
	if e == nil {
		p.write("<???>")
		return
	}
	p.print(e)
}

// PrintModule appends one line per global. The entry point is printed under
// its reserved name.
func (p *AbstractPrinter) PrintModule(m *abstract.Module) {
	line := abstract.MatchGlobal(abstract.GlobalPattern[struct{}]{
		Main: func(g *abstract.Main) struct{} {
			p.write(config.EntryName + " = ")
			p.PrintExpression(g.Body)
			return struct{}{}
		},
		Define: func(g *abstract.Define) struct{} {
			p.write(g.Name + " = ")
			p.PrintExpression(g.Value)
			return struct{}{}
		},
	})
	for _, g := range m.Globals {
		line(g)
		p.write("\n")
	}
}

func (p *AbstractPrinter) String() string {
	return p.buf.String()
}

func (p *AbstractPrinter) Bytes() []byte {
	return p.buf.Bytes()
}

// Abstract renders a single lowered expression.
func Abstract(e abstract.Expression) string {
	p := NewAbstractPrinter()
	p.PrintExpression(e)
	return p.String()
}

// AbstractModule renders a lowered module.
func AbstractModule(m *abstract.Module) string {
	p := NewAbstractPrinter()
	p.PrintModule(m)
	return p.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/serendipity/internal/syntax/surface"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  7,
	"-":  7,
	"*":  8,
	"/":  8,
	"%":  8,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

// Forms that extend as far right as possible (with, fn, if) bind loosest.
const openEndedPrec = 0

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr surface.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *surface.Arithmetic:
		p.printInfix(e.Op, e.Left, e.Right, parentPrec, isRight)
	case *surface.Compare:
		p.printInfix(e.Op, e.Left, e.Right, parentPrec, isRight)
	case *surface.With, *surface.Closure, *surface.If:
		if parentPrec > openEndedPrec {
			p.write("(")
			p.printPrimary(expr)
			p.write(")")
			return
		}
		p.printPrimary(expr)
	default:
		p.printPrimary(expr)
	}
}

func (p *CodePrinter) printInfix(op string, left, right surface.Expression, parentPrec int, isRight bool) {
	prec := getPrecedence(op)
	// All operators are left-associative.
	needParens := prec < parentPrec || (prec == parentPrec && isRight)
	if needParens {
		p.write("(")
	}
	p.printExpr(left, prec, false)
	p.write(" " + op + " ")
	p.printExpr(right, prec, true)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printPrimary(expr surface.Expression) {
	switch e := expr.(type) {
	case *surface.Number:
		p.write(formatNumber(e.Value))
	case *surface.String:
		p.write(strconv.Quote(e.Value))
	case *surface.Boolean:
		p.write(strconv.FormatBool(e.Value))
	case *surface.Name:
		p.write(e.Name)
	case *surface.Void:
		p.write("()")
	case *surface.Hole:
		p.write("@hole")
	case *surface.Accessor:
		p.printExpr(e.Accessee, 100, false)
		p.write("[")
		p.printExpr(e.Index, openEndedPrec, false)
		p.write("]")
	case *surface.Call:
		p.printExpr(e.Callee, 100, false)
		p.write("(")
		p.printList(e.Parameters)
		p.write(")")
	case *surface.Closure:
		p.write("fn(" + strings.Join(e.Parameters, ", ") + ") -> ")
		p.printExpr(e.Body, openEndedPrec, false)
	case *surface.With:
		p.write("with " + e.Name + " = ")
		p.printExpr(e.Value, openEndedPrec, false)
		p.write(": ")
		p.printExpr(e.Expr, openEndedPrec, false)
	case *surface.If:
		p.write("if ")
		p.printExpr(e.Cond, openEndedPrec, false)
		p.write(" then ")
		p.printExpr(e.Then, openEndedPrec, false)
		p.write(" else ")
		p.printExpr(e.Else, openEndedPrec, false)
	case *surface.List:
		p.write("[")
		p.printList(e.Contents)
		p.write("]")
	case *surface.Tuple:
		p.write("(")
		p.printList(e.Values)
		if len(e.Values) == 1 {
			p.write(",")
		}
		p.write(")")
	case *surface.Procedure:
		p.write("proc ")
		p.printBlock(e.Body)
	case *surface.Arithmetic, *surface.Compare:
		p.printExpr(expr, openEndedPrec, false)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printList(exprs []surface.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, openEndedPrec, false)
	}
}

// printBlock prints statements between braces, one per line.
func (p *CodePrinter) printBlock(stmts []surface.Statement) {
	if len(stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, s := range stmts {
		p.writeln()
		p.writeIndent()
		p.printStatement(s)
	}
	p.indent--
	p.writeln()
	p.writeIndent()
	p.write("}")
}

// printNested prints the body of a compound statement. Procedures keep their
// braces; anything else is wrapped in a block.
func (p *CodePrinter) printNested(s surface.Statement) {
	if do, ok := s.(*surface.Do); ok {
		if proc, ok := do.Body.(*surface.Procedure); ok {
			p.printBlock(proc.Body)
			return
		}
	}
	p.printBlock([]surface.Statement{s})
}

func (p *CodePrinter) printStatement(s surface.Statement) {
	if s == nil {
		p.write("<???>")
		return
	}
	switch s := s.(type) {
	case *surface.Print:
		p.write("print ")
		p.printExpr(s.Value, openEndedPrec, false)
	case *surface.Let:
		p.write("let " + s.Name + " = ")
		p.printExpr(s.Value, openEndedPrec, false)
	case *surface.Set:
		p.write("set " + s.Name + " = ")
		p.printExpr(s.Value, openEndedPrec, false)
	case *surface.IfStmt:
		p.write("if ")
		p.printExpr(s.Condition, openEndedPrec, false)
		p.write(" ")
		p.printNested(s.Body)
		if s.Else != nil {
			p.write(" else ")
			p.printNested(s.Else)
		}
	case *surface.ForIn:
		p.write("for " + s.Binding + " in ")
		p.printExpr(s.Value, openEndedPrec, false)
		p.write(" ")
		p.printNested(s.Body)
	case *surface.Forever:
		p.write("forever ")
		p.printNested(s.Body)
	case *surface.Do:
		p.write("do ")
		p.printExpr(s.Body, openEndedPrec, false)
	case *surface.Break:
		p.write("break")
	case *surface.HoleStmt:
		p.write("@hole")
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printGlobal(g surface.Global) {
	switch g := g.(type) {
	case *surface.Main:
		p.write("main = ")
		p.printExpr(g.Body, openEndedPrec, false)
	case *surface.Define:
		p.write("define " + g.Name + " = ")
		p.printExpr(g.Value, openEndedPrec, false)
	case *surface.DefineFunction:
		p.write("fn " + g.Name + "(" + strings.Join(g.Parameters, ", ") + ") -> ")
		p.printExpr(g.Body, openEndedPrec, false)
	default:
		p.write("<???>")
	}
}

// PrintExpression appends e to the printer's buffer.
func (p *CodePrinter) PrintExpression(e surface.Expression) {
	p.printExpr(e, openEndedPrec, false)
}

// PrintModule appends every global, separated by blank lines.
func (p *CodePrinter) PrintModule(m *surface.Module) {
	for i, g := range m.Globals {
		if i > 0 {
			p.writeln()
		}
		p.printGlobal(g)
		p.writeln()
	}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

// Surface renders a surface expression as source text.
func Surface(e surface.Expression) string {
	p := NewCodePrinter()
	p.PrintExpression(e)
	return p.String()
}

// SurfaceModule renders a surface module as source text.
func SurfaceModule(m *surface.Module) string {
	p := NewCodePrinter()
	p.PrintModule(m)
	return p.String()
}

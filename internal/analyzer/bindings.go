package analyzer

import (
	"github.com/funvibe/serendipity/internal/config"
	"github.com/funvibe/serendipity/internal/diagnostics"
	"github.com/funvibe/serendipity/internal/pipeline"
	"github.com/funvibe/serendipity/internal/syntax/surface"
)

// BindingChecker verifies that every name in a surface module refers to a
// global, a prelude name, an intrinsic, or an enclosing local binding. It
// collects every problem before failing.
type BindingChecker struct {
	globals map[string]bool
	locals  []map[string]bool
	errors  diagnostics.List

	expr func(surface.Expression) struct{}
	stmt func(surface.Statement) struct{}
}

// NewBindingChecker creates a checker ready to run.
func NewBindingChecker() *BindingChecker {
	bc := &BindingChecker{}
	bc.expr = surface.MatchExpression(surface.ExpressionPattern[struct{}]{
		Name: func(n *surface.Name) struct{} {
			if !bc.bound(n.Name) {
				bc.errors = append(bc.errors, diagnostics.Unbound(n, n.Name))
			}
			return struct{}{}
		},
		Accessor: func(a *surface.Accessor) struct{} {
			bc.visit(a.Accessee, a.Index)
			return struct{}{}
		},
		Arithmetic: func(a *surface.Arithmetic) struct{} {
			bc.visit(a.Left, a.Right)
			return struct{}{}
		},
		Compare: func(c *surface.Compare) struct{} {
			bc.visit(c.Left, c.Right)
			return struct{}{}
		},
		With: func(w *surface.With) struct{} {
			bc.visit(w.Value)
			bc.push(w.Name)
			bc.visit(w.Expr)
			bc.pop()
			return struct{}{}
		},
		Call: func(c *surface.Call) struct{} {
			bc.visit(c.Callee)
			bc.visit(c.Parameters...)
			return struct{}{}
		},
		Closure: func(c *surface.Closure) struct{} {
			bc.push(c.Parameters...)
			bc.visit(c.Body)
			bc.pop()
			return struct{}{}
		},
		List: func(l *surface.List) struct{} {
			bc.visit(l.Contents...)
			return struct{}{}
		},
		Tuple: func(t *surface.Tuple) struct{} {
			bc.visit(t.Values...)
			return struct{}{}
		},
		Procedure: func(p *surface.Procedure) struct{} {
			bc.push()
			for _, s := range p.Body {
				bc.stmt(s)
			}
			bc.pop()
			return struct{}{}
		},
		If: func(i *surface.If) struct{} {
			bc.visit(i.Cond, i.Then, i.Else)
			return struct{}{}
		},
		// Literals, Void and Hole bind and reference nothing.
		Default: func(surface.Expression) struct{} { return struct{}{} },
	})
	bc.stmt = surface.MatchStatement(surface.StatementPattern[struct{}]{
		Print: func(p *surface.Print) struct{} {
			bc.visit(p.Value)
			return struct{}{}
		},
		Let: func(l *surface.Let) struct{} {
			bc.visit(l.Value)
			bc.locals[len(bc.locals)-1][l.Name] = true
			return struct{}{}
		},
		Set: func(s *surface.Set) struct{} {
			if !bc.bound(s.Name) {
				bc.errors = append(bc.errors, diagnostics.Unbound(s, s.Name))
			}
			bc.visit(s.Value)
			return struct{}{}
		},
		If: func(i *surface.IfStmt) struct{} {
			bc.visit(i.Condition)
			bc.nested(i.Body)
			if i.Else != nil {
				bc.nested(i.Else)
			}
			return struct{}{}
		},
		ForIn: func(f *surface.ForIn) struct{} {
			bc.visit(f.Value)
			bc.push(f.Binding)
			bc.stmt(f.Body)
			bc.pop()
			return struct{}{}
		},
		Forever: func(f *surface.Forever) struct{} {
			bc.nested(f.Body)
			return struct{}{}
		},
		Do: func(d *surface.Do) struct{} {
			bc.visit(d.Body)
			return struct{}{}
		},
		Break: func(*surface.Break) struct{} { return struct{}{} },
		Hole:  func(*surface.HoleStmt) struct{} { return struct{}{} },
	})
	return bc
}

// Check returns the diagnostics for m, or nil when every name resolves.
func (bc *BindingChecker) Check(m *surface.Module) diagnostics.List {
	bc.globals = make(map[string]bool)
	bc.locals = nil
	bc.errors = nil

	mains := 0
	for _, g := range m.Globals {
		switch g := g.(type) {
		case *surface.Main:
			mains++
			if mains > 1 {
				bc.errors = append(bc.errors, diagnostics.NewError(diagnostics.MultipleEntryPoints, g, "module has more than one main"))
			}
		case *surface.Define:
			bc.declare(g, g.Name)
		case *surface.DefineFunction:
			bc.declare(g, g.Name)
		}
	}

	check := surface.MatchGlobal(surface.GlobalPattern[struct{}]{
		Main: func(m *surface.Main) struct{} {
			bc.visit(m.Body)
			return struct{}{}
		},
		Define: func(d *surface.Define) struct{} {
			bc.visit(d.Value)
			return struct{}{}
		},
		DefineFunction: func(d *surface.DefineFunction) struct{} {
			bc.push(d.Parameters...)
			bc.visit(d.Body)
			bc.pop()
			return struct{}{}
		},
	})
	for _, g := range m.Globals {
		check(g)
	}
	return bc.errors
}

// Run implements pipeline.Pass.
func (bc *BindingChecker) Run(m *surface.Module) pipeline.Output[*surface.Module] {
	if errs := bc.Check(m); len(errs) > 0 {
		return pipeline.Fail[*surface.Module](errs...)
	}
	return pipeline.Succeed(m)
}

func (bc *BindingChecker) declare(g surface.Global, name string) {
	if bc.globals[name] {
		bc.errors = append(bc.errors, diagnostics.Duplicate(g, name))
		return
	}
	bc.globals[name] = true
}

func (bc *BindingChecker) bound(name string) bool {
	for i := len(bc.locals) - 1; i >= 0; i-- {
		if bc.locals[i][name] {
			return true
		}
	}
	if bc.globals[name] {
		return true
	}
	if _, ok := config.PreludeNames[name]; ok {
		return true
	}
	return config.IsIntrinsicName(name)
}

func (bc *BindingChecker) visit(es ...surface.Expression) {
	for _, e := range es {
		if e != nil {
			bc.expr(e)
		}
	}
}

// nested checks a statement body in its own block so its lets do not leak.
func (bc *BindingChecker) nested(s surface.Statement) {
	bc.push()
	bc.stmt(s)
	bc.pop()
}

func (bc *BindingChecker) push(names ...string) {
	frame := make(map[string]bool, len(names))
	for _, n := range names {
		frame[n] = true
	}
	bc.locals = append(bc.locals, frame)
}

func (bc *BindingChecker) pop() {
	bc.locals = bc.locals[:len(bc.locals)-1]
}

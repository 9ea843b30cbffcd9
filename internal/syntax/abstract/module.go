package abstract

import (
	"github.com/funvibe/serendipity/internal/match"
	"github.com/funvibe/serendipity/internal/syntax"
)

// GlobalKind discriminates module-level definitions.
type GlobalKind int

const (
	GlobalMain GlobalKind = iota
	GlobalDefine
)

func (k GlobalKind) String() string {
	switch k {
	case GlobalMain:
		return "Main"
	case GlobalDefine:
		return "Define"
	default:
		return "GlobalKind(?)"
	}
}

// GlobalKinds is the registered discriminant set of Global.
var GlobalKinds = match.NewUniverse(GlobalMain, GlobalDefine)

// Global is a module-level definition.
type Global interface {
	syntax.Node
	Kind() GlobalKind
	globalNode()
}

// Main is the module entry point.
type Main struct {
	syntax.Object
	Body Expression
}

// Define binds a name to a value at module level.
type Define struct {
	syntax.Object
	Name  string
	Value Expression
}

func (*Main) Kind() GlobalKind   { return GlobalMain }
func (*Define) Kind() GlobalKind { return GlobalDefine }
func (*Main) globalNode()        {}
func (*Define) globalNode()      {}

// Module is the root of a lowered program. Global order carries no meaning.
type Module struct {
	Globals []Global
}

// Main returns the entry point, or nil when the module has none.
func (m *Module) Main() *Main {
	for _, g := range m.Globals {
		if main, ok := g.(*Main); ok {
			return main
		}
	}
	return nil
}

// Lookup returns the value bound to name by a Define.
func (m *Module) Lookup(name string) (Expression, bool) {
	for _, g := range m.Globals {
		if d, ok := g.(*Define); ok && d.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

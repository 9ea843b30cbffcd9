package surface

import (
	"github.com/funvibe/serendipity/internal/match"
	"github.com/funvibe/serendipity/internal/syntax"
)

// GlobalKind discriminates module-level definitions.
type GlobalKind int

const (
	GlobalMain GlobalKind = iota
	GlobalDefine
	GlobalDefineFunction
)

func (k GlobalKind) String() string {
	switch k {
	case GlobalMain:
		return "Main"
	case GlobalDefine:
		return "Define"
	case GlobalDefineFunction:
		return "DefineFunction"
	default:
		return "GlobalKind(?)"
	}
}

// GlobalKinds is the registered discriminant set of Global.
var GlobalKinds = match.NewUniverse(GlobalMain, GlobalDefine, GlobalDefineFunction)

// Global is a module-level definition.
type Global interface {
	syntax.Node
	Kind() GlobalKind
	globalNode()
}

type Main struct {
	syntax.Object
	Body Expression
}

type Define struct {
	syntax.Object
	Name  string
	Value Expression
}

// DefineFunction is sugar for a Define whose value is a Closure.
type DefineFunction struct {
	syntax.Object
	Name       string
	Parameters []string
	Body       Expression
}

func (*Main) Kind() GlobalKind           { return GlobalMain }
func (*Define) Kind() GlobalKind         { return GlobalDefine }
func (*DefineFunction) Kind() GlobalKind { return GlobalDefineFunction }
func (*Main) globalNode()                {}
func (*Define) globalNode()              {}
func (*DefineFunction) globalNode()      {}

// Module is the root of a surface program. Global order carries no meaning.
type Module struct {
	Globals []Global
}

// Package diagnostics defines the closed set of problems compiler passes
// report. A failing pass returns its diagnostics as the failure payload of
// its result; diagnostics are never thrown.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/serendipity/internal/match"
	"github.com/funvibe/serendipity/internal/syntax"
)

// Kind identifies a diagnostic variant.
type Kind int

const (
	UnboundIdentifier Kind = iota
	DuplicateDefinition
	MultipleEntryPoints
	IncompleteProgram
	UnsupportedConstruct
	RuntimeFailure
)

var kindInfo = [...]struct{ code, name string }{
	UnboundIdentifier:    {"E001", "unbound identifier"},
	DuplicateDefinition:  {"E002", "duplicate definition"},
	MultipleEntryPoints:  {"E003", "multiple entry points"},
	IncompleteProgram:    {"E004", "incomplete program"},
	UnsupportedConstruct: {"E005", "unsupported construct"},
	RuntimeFailure:       {"R001", "runtime error"},
}

// Kinds is the registered discriminant set of Kind.
var Kinds = match.NewUniverse(
	UnboundIdentifier, DuplicateDefinition, MultipleEntryPoints, IncompleteProgram, UnsupportedConstruct,
	RuntimeFailure,
)

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindInfo) {
		return kindInfo[k].name
	}
	return "unknown"
}

// Code is the stable short code printed with the message.
func (k Kind) Code() string {
	if k >= 0 && int(k) < len(kindInfo) {
		return kindInfo[k].code
	}
	return "E000"
}

// Diagnostic is a single problem attached to the syntax node that caused it.
type Diagnostic struct {
	Kind       Kind
	Node       syntax.Node
	Identifier string // the offending name, when there is one
	Message    string
	File       string
}

// NewError creates a diagnostic of the given kind.
func NewError(kind Kind, node syntax.Node, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Node:    node,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unbound reports a reference to a name no enclosing scope binds.
func Unbound(node syntax.Node, name string) *Diagnostic {
	d := NewError(UnboundIdentifier, node, "unbound identifier '%s'", name)
	d.Identifier = name
	return d
}

// Duplicate reports a second global definition of name.
func Duplicate(node syntax.Node, name string) *Diagnostic {
	d := NewError(DuplicateDefinition, node, "'%s' is already defined", name)
	d.Identifier = name
	return d
}

// Position returns the source position of the offending node, if known.
func (d *Diagnostic) Position() (syntax.Position, bool) {
	return syntax.PositionOf(d.Node)
}

func (d *Diagnostic) Error() string {
	var where []string
	if d.File != "" {
		where = append(where, d.File)
	}
	if pos, ok := d.Position(); ok {
		where = append(where, pos.String())
	}
	msg := d.Kind.Code() + ": " + d.Message
	if len(where) == 0 {
		return msg
	}
	return strings.Join(where, ":") + ": " + msg
}

// List is the failure payload of a compiler pass.
type List []*Diagnostic

// Error joins every diagnostic on its own line.
func (l List) Error() string {
	parts := make([]string, len(l))
	for i, d := range l {
		parts[i] = d.Error()
	}
	return strings.Join(parts, "\n")
}

// WithFile stamps file on every diagnostic that has none.
func (l List) WithFile(file string) List {
	for _, d := range l {
		if d.File == "" {
			d.File = file
		}
	}
	return l
}

// Count returns the number of diagnostics of kind k.
func (l List) Count(k Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == k {
			n++
		}
	}
	return n
}

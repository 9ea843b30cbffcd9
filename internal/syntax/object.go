// Package syntax holds what the surface and abstract dialects share: the
// metadata-carrying base every node embeds.
package syntax

import (
	"fmt"

	"github.com/google/uuid"
)

// Well-known metadata keys.
const (
	MetaID       = "id"   // editor identifier
	MetaPosition = "pos"  // source position, a Position
	MetaDead     = "dead" // optimizer liveness flag, a bool
)

// Metadata is an open-ended map of node annotations.
type Metadata map[string]any

// Clone returns an independent shallow copy. Nil stays nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Position is a source location recorded by the external parser.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every tree node of either dialect.
type Node interface {
	Meta() Metadata
	SetMeta(key string, value any)
}

// Object is embedded by every node. Its metadata belongs to that node alone.
type Object struct {
	Metadata Metadata
}

// Meta returns the node's metadata, allocating it on first use.
func (o *Object) Meta() Metadata {
	if o.Metadata == nil {
		o.Metadata = make(Metadata)
	}
	return o.Metadata
}

// SetMeta records a single annotation.
func (o *Object) SetMeta(key string, value any) {
	o.Meta()[key] = value
}

// Flag reads a boolean annotation; absent or non-bool values read as false.
func Flag(n Node, key string) bool {
	if n == nil {
		return false
	}
	b, _ := n.Meta()[key].(bool)
	return b
}

// PositionOf returns the recorded source position of n, if any.
func PositionOf(n Node) (Position, bool) {
	if n == nil {
		return Position{}, false
	}
	p, ok := n.Meta()[MetaPosition].(Position)
	return p, ok
}

// AssignID gives n an editor identifier unless it already has one, and
// returns the identifier.
func AssignID(n Node) string {
	if id, ok := n.Meta()[MetaID].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	n.SetMeta(MetaID, id)
	return id
}

// IDOf returns the editor identifier of n, or "" when none was assigned.
func IDOf(n Node) string {
	if n == nil {
		return ""
	}
	id, _ := n.Meta()[MetaID].(string)
	return id
}

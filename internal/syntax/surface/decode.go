package surface

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/serendipity/internal/syntax"
)

// LoadModule reads a YAML tree description of a surface module.
func LoadModule(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w", path, err)
	}
	return DecodeModule(data, path)
}

// DecodeModule decodes the YAML form of an already-parsed surface tree:
//
//	globals:
//	  - kind: define
//	    name: two
//	    value: {kind: number, value: 2}
//	  - kind: main
//	    body: {kind: call, callee: {kind: name, name: print}, parameters: [{kind: name, name: two}]}
//
// Every node may carry line, column and id keys, which land in its metadata.
// Nodes decoded without an id are assigned one.
// The path argument is used only for error messages.
func DecodeModule(data []byte, path string) (*Module, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return &Module{}, nil
	}
	root, err := fieldsOf(doc.Content[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m := &Module{}
	globals, ok := root["globals"]
	if !ok {
		return m, nil
	}
	if globals.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s:%d: globals must be a sequence", path, globals.Line)
	}
	for _, gn := range globals.Content {
		g, err := decodeGlobal(gn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m.Globals = append(m.Globals, g)
	}
	return m, nil
}

type fields map[string]*yaml.Node

func fieldsOf(n *yaml.Node) (fields, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	f := make(fields, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		f[n.Content[i].Value] = n.Content[i+1]
	}
	return f, nil
}

func (f fields) str(key string, line int) (string, error) {
	n, ok := f[key]
	if !ok || n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: missing scalar %q", line, key)
	}
	return n.Value, nil
}

func (f fields) strs(key string, line int) ([]string, error) {
	n, ok := f[key]
	if !ok {
		return nil, nil
	}
	var out []string
	if err := n.Decode(&out); err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", line, key, err)
	}
	return out, nil
}

func (f fields) expr(key string, line int) (Expression, error) {
	n, ok := f[key]
	if !ok {
		return nil, fmt.Errorf("line %d: missing expression %q", line, key)
	}
	return decodeExpr(n)
}

func (f fields) exprs(key string, line int) ([]Expression, error) {
	n, ok := f[key]
	if !ok {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a sequence", line, key)
	}
	out := make([]Expression, 0, len(n.Content))
	for _, c := range n.Content {
		e, err := decodeExpr(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (f fields) stmt(key string, line int) (Statement, error) {
	n, ok := f[key]
	if !ok {
		return nil, fmt.Errorf("line %d: missing statement %q", line, key)
	}
	return decodeStmt(n)
}

// annotate copies position and identifier keys into the node's metadata.
// Nodes without an id key get a fresh one.
func (f fields) annotate(node syntax.Node, n *yaml.Node) {
	line, column := n.Line, n.Column
	if v, ok := f["line"]; ok {
		if i, err := strconv.Atoi(v.Value); err == nil {
			line = i
		}
	}
	if v, ok := f["column"]; ok {
		if i, err := strconv.Atoi(v.Value); err == nil {
			column = i
		}
	}
	node.SetMeta(syntax.MetaPosition, syntax.Position{Line: line, Column: column})
	if v, ok := f["id"]; ok && v.Value != "" {
		node.SetMeta(syntax.MetaID, v.Value)
	}
	syntax.AssignID(node)
}

func decodeGlobal(n *yaml.Node) (Global, error) {
	f, err := fieldsOf(n)
	if err != nil {
		return nil, err
	}
	kind, err := f.str("kind", n.Line)
	if err != nil {
		return nil, err
	}
	var g Global
	switch kind {
	case "main":
		body, err := f.expr("body", n.Line)
		if err != nil {
			return nil, err
		}
		g = &Main{Body: body}
	case "define":
		name, err := f.str("name", n.Line)
		if err != nil {
			return nil, err
		}
		value, err := f.expr("value", n.Line)
		if err != nil {
			return nil, err
		}
		g = &Define{Name: name, Value: value}
	case "function":
		name, err := f.str("name", n.Line)
		if err != nil {
			return nil, err
		}
		params, err := f.strs("parameters", n.Line)
		if err != nil {
			return nil, err
		}
		body, err := f.expr("body", n.Line)
		if err != nil {
			return nil, err
		}
		g = &DefineFunction{Name: name, Parameters: params, Body: body}
	default:
		return nil, fmt.Errorf("line %d: unknown global kind %q", n.Line, kind)
	}
	f.annotate(g, n)
	return g, nil
}

func decodeExpr(n *yaml.Node) (Expression, error) {
	f, err := fieldsOf(n)
	if err != nil {
		return nil, err
	}
	kind, err := f.str("kind", n.Line)
	if err != nil {
		return nil, err
	}
	e, err := decodeExprKind(kind, f, n.Line)
	if err != nil {
		return nil, err
	}
	f.annotate(e, n)
	return e, nil
}

func decodeExprKind(kind string, f fields, line int) (Expression, error) {
	switch kind {
	case "number":
		s, err := f.str("value", line)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad number %q", line, s)
		}
		return &Number{Value: v}, nil
	case "string":
		s, err := f.str("value", line)
		if err != nil {
			return nil, err
		}
		return &String{Value: s}, nil
	case "boolean":
		s, err := f.str("value", line)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad boolean %q", line, s)
		}
		return &Boolean{Value: v}, nil
	case "name":
		s, err := f.str("name", line)
		if err != nil {
			return nil, err
		}
		return &Name{Name: s}, nil
	case "accessor":
		accessee, err := f.expr("accessee", line)
		if err != nil {
			return nil, err
		}
		index, err := f.expr("index", line)
		if err != nil {
			return nil, err
		}
		return &Accessor{Accessee: accessee, Index: index}, nil
	case "arithmetic", "compare":
		op, err := f.str("op", line)
		if err != nil {
			return nil, err
		}
		left, err := f.expr("left", line)
		if err != nil {
			return nil, err
		}
		right, err := f.expr("right", line)
		if err != nil {
			return nil, err
		}
		if kind == "arithmetic" {
			if !IsArithmeticOp(op) {
				return nil, fmt.Errorf("line %d: bad arithmetic operator %q", line, op)
			}
			return &Arithmetic{Op: op, Left: left, Right: right}, nil
		}
		if !IsCompareOp(op) {
			return nil, fmt.Errorf("line %d: bad comparison operator %q", line, op)
		}
		return &Compare{Op: op, Left: left, Right: right}, nil
	case "with":
		name, err := f.str("name", line)
		if err != nil {
			return nil, err
		}
		value, err := f.expr("value", line)
		if err != nil {
			return nil, err
		}
		body, err := f.expr("expr", line)
		if err != nil {
			return nil, err
		}
		return &With{Name: name, Value: value, Expr: body}, nil
	case "call":
		callee, err := f.expr("callee", line)
		if err != nil {
			return nil, err
		}
		params, err := f.exprs("parameters", line)
		if err != nil {
			return nil, err
		}
		return &Call{Callee: callee, Parameters: params}, nil
	case "closure":
		params, err := f.strs("parameters", line)
		if err != nil {
			return nil, err
		}
		body, err := f.expr("body", line)
		if err != nil {
			return nil, err
		}
		return &Closure{Parameters: params, Body: body}, nil
	case "list":
		contents, err := f.exprs("contents", line)
		if err != nil {
			return nil, err
		}
		return &List{Contents: contents}, nil
	case "tuple":
		values, err := f.exprs("values", line)
		if err != nil {
			return nil, err
		}
		return &Tuple{Values: values}, nil
	case "procedure":
		n, ok := f["body"]
		if !ok || n.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: procedure body must be a sequence", line)
		}
		p := &Procedure{}
		for _, c := range n.Content {
			s, err := decodeStmt(c)
			if err != nil {
				return nil, err
			}
			p.Body = append(p.Body, s)
		}
		return p, nil
	case "if":
		cond, err := f.expr("cond", line)
		if err != nil {
			return nil, err
		}
		then, err := f.expr("then", line)
		if err != nil {
			return nil, err
		}
		els, err := f.expr("else", line)
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els}, nil
	case "void":
		return &Void{}, nil
	case "hole", "@hole":
		return &Hole{}, nil
	}
	return nil, fmt.Errorf("line %d: unknown expression kind %q", line, kind)
}

func decodeStmt(n *yaml.Node) (Statement, error) {
	f, err := fieldsOf(n)
	if err != nil {
		return nil, err
	}
	kind, err := f.str("kind", n.Line)
	if err != nil {
		return nil, err
	}
	s, err := decodeStmtKind(kind, f, n.Line)
	if err != nil {
		return nil, err
	}
	f.annotate(s, n)
	return s, nil
}

func decodeStmtKind(kind string, f fields, line int) (Statement, error) {
	switch kind {
	case "print":
		v, err := f.expr("value", line)
		if err != nil {
			return nil, err
		}
		return &Print{Value: v}, nil
	case "let", "set":
		name, err := f.str("name", line)
		if err != nil {
			return nil, err
		}
		v, err := f.expr("value", line)
		if err != nil {
			return nil, err
		}
		if kind == "let" {
			return &Let{Name: name, Value: v}, nil
		}
		return &Set{Name: name, Value: v}, nil
	case "if":
		cond, err := f.expr("condition", line)
		if err != nil {
			return nil, err
		}
		body, err := f.stmt("body", line)
		if err != nil {
			return nil, err
		}
		s := &IfStmt{Condition: cond, Body: body}
		if _, ok := f["else"]; ok {
			if s.Else, err = f.stmt("else", line); err != nil {
				return nil, err
			}
		}
		return s, nil
	case "forin":
		binding, err := f.str("binding", line)
		if err != nil {
			return nil, err
		}
		v, err := f.expr("value", line)
		if err != nil {
			return nil, err
		}
		body, err := f.stmt("body", line)
		if err != nil {
			return nil, err
		}
		return &ForIn{Binding: binding, Value: v, Body: body}, nil
	case "forever":
		body, err := f.stmt("body", line)
		if err != nil {
			return nil, err
		}
		return &Forever{Body: body}, nil
	case "do":
		body, err := f.expr("body", line)
		if err != nil {
			return nil, err
		}
		return &Do{Body: body}, nil
	case "break":
		return &Break{}, nil
	case "hole", "@hole":
		return &HoleStmt{}, nil
	}
	return nil, fmt.Errorf("line %d: unknown statement kind %q", line, kind)
}

package ast

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const indentSize = 2

// SymbolNamer resolves table indices to names for rendering. It is
// implemented by symtab.Tables.
type SymbolNamer interface {
	LiteralText(idx int) (string, error)
	VarName(idx int) (string, error)
}

// RenderOption configures RenderText and RenderDOT.
type RenderOption func(*renderConfig)

type renderConfig struct {
	symbols   SymbolNamer
	graphName string
}

// WithSymbols labels str_val and variable nodes with table contents
// instead of raw indices.
func WithSymbols(s SymbolNamer) RenderOption {
	return func(c *renderConfig) { c.symbols = s }
}

// WithGraphName sets the name of the DOT digraph.
func WithGraphName(name string) RenderOption {
	return func(c *renderConfig) { c.graphName = name }
}

func newRenderConfig(opts []RenderOption) *renderConfig {
	cfg := &renderConfig{graphName: "ast"}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// label returns the one-line description of a node: kind label, payload
// (if meaningful for the kind) and static type (if set).
func (c *renderConfig) label(n *Node) string {
	var b strings.Builder
	b.WriteString(n.kind.String())
	if p := c.payloadText(n); p != "" {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	if n.typ.Valid() {
		b.WriteString(" [")
		b.WriteString(n.typ.String())
		b.WriteByte(']')
	}
	return b.String()
}

func (c *renderConfig) payloadText(n *Node) string {
	switch p := n.payload.(type) {
	case Tag:
		if p.Value == 0 {
			return ""
		}
		return "#" + p.String()
	case LiteralRef:
		if c.symbols != nil {
			if s, err := c.symbols.LiteralText(p.Index); err == nil {
				return strconv.Quote(s)
			}
		}
		return p.String()
	case VarRef:
		if c.symbols != nil {
			if s, err := c.symbols.VarName(p.Index); err == nil {
				return s
			}
		}
		return p.String()
	default:
		return p.String()
	}
}

// textPrinter writes the indented rendering.
type textPrinter struct {
	cfg    *renderConfig
	output *bytes.Buffer
}

func (p *textPrinter) node(n *Node, depth int) {
	for i := 0; i < depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.output.WriteString(p.cfg.label(n))
	p.output.WriteByte('\n')
	for _, c := range n.children {
		p.node(c, depth+1)
	}
}

// Text returns the indented rendering of the tree: one line per node in
// pre-order, indented two spaces per level.
func Text(root *Node, opts ...RenderOption) string {
	if root == nil {
		return ""
	}
	p := &textPrinter{cfg: newRenderConfig(opts), output: &bytes.Buffer{}}
	p.node(root, 0)
	return p.output.String()
}

// RenderText writes Text(root) to w.
func RenderText(w io.Writer, root *Node, opts ...RenderOption) error {
	_, err := io.WriteString(w, Text(root, opts...))
	return err
}

// dotPrinter writes the Graphviz rendering. Nodes are numbered in
// pre-order so the output is stable for a given tree.
type dotPrinter struct {
	cfg    *renderConfig
	output *bytes.Buffer
	next   int
}

func (p *dotPrinter) node(n *Node) int {
	id := p.next
	p.next++
	fmt.Fprintf(p.output, "node%d[label=\"%s\"];\n", id, escapeDOT(p.cfg.label(n)))
	for _, c := range n.children {
		childID := p.node(c)
		fmt.Fprintf(p.output, "node%d -> node%d;\n", id, childID)
	}
	return id
}

// DOT returns the tree as a Graphviz digraph.
func DOT(root *Node, opts ...RenderOption) string {
	p := &dotPrinter{cfg: newRenderConfig(opts), output: &bytes.Buffer{}}
	fmt.Fprintf(p.output, "digraph \"%s\" {\n", escapeDOT(p.cfg.graphName))
	p.output.WriteString("graph [ordering=\"out\"];\n")
	if root != nil {
		p.node(root)
	}
	p.output.WriteString("}\n")
	return p.output.String()
}

// RenderDOT writes DOT(root) to w.
func RenderDOT(w io.Writer, root *Node, opts ...RenderOption) error {
	_, err := io.WriteString(w, DOT(root, opts...))
	return err
}

func escapeDOT(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return r.Replace(s)
}

func formatReal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nI") {
		s += ".0"
	}
	return s
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/digtower/pkg/dag"
)

// Output formats produced by Graphviz.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatCMAPX = "cmapx"
)

// DefaultEdgeColor is the edge color used when Options.EdgeColor is empty.
const DefaultEdgeColor = "red"

// Options configures DOT generation.
type Options struct {
	// EdgeColor colors every edge. Empty means DefaultEdgeColor.
	EdgeColor string
	// Flat disables the nested clusters that mirror task nesting.
	Flat bool
}

// ToDOT converts a workflow graph to Graphviz DOT format.
//
// Each node is emitted as "n<ID>" with its label and style attributes. Nodes
// contained in another node are placed in a cluster named after the
// container, so nested tasks are drawn inside a box. Edges follow in
// insertion order.
func ToDOT(g *dag.Graph, opts Options) string {
	edgeColor := opts.EdgeColor
	if edgeColor == "" {
		edgeColor = DefaultEdgeColor
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box];\n")
	fmt.Fprintf(&buf, "  edge [color=%s];\n", quote(edgeColor))
	buf.WriteString("\n")

	if opts.Flat {
		for _, n := range g.Nodes() {
			writeNode(&buf, n, "  ")
		}
	} else {
		for _, n := range g.Roots() {
			writeTree(&buf, g, n, "  ")
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(e.From), nodeName(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeTree emits n at the current level and its contained nodes inside a
// cluster.
func writeTree(buf *bytes.Buffer, g *dag.Graph, n *dag.Node, indent string) {
	writeNode(buf, n, indent)
	kids := g.Contained(n.ID)
	if len(kids) == 0 {
		return
	}
	fmt.Fprintf(buf, "%ssubgraph cluster_%d {\n", indent, n.ID)
	for _, id := range kids {
		child, _ := g.Node(id)
		writeTree(buf, g, child, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeNode(buf *bytes.Buffer, n *dag.Node, indent string) {
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, nodeName(n.ID), strings.Join(fmtAttrs(n), ", "))
}

func nodeName(id dag.NodeID) string {
	return "n" + strconv.Itoa(int(id))
}

func fmtAttrs(n *dag.Node) []string {
	attrs := []string{fmt.Sprintf("label=%s", quote(n.Label))}
	s := n.Style
	if s.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%s", quote(s.Color)))
	}
	if s.PenWidth != 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%s", quote(strconv.FormatFloat(s.PenWidth, 'f', 1, 64))))
	}
	if s.Shape != "" {
		attrs = append(attrs, fmt.Sprintf("shape=%s", quote(s.Shape)))
	}
	if s.Href != "" {
		attrs = append(attrs, fmt.Sprintf("href=%s", quote(s.Href)))
	}
	if s.Tooltip != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%s", quote(s.Tooltip)))
	}
	if n.Kind == dag.NodeKindEmpty {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// quote returns s as a DOT double-quoted string. Newlines become the \n
// line break escape, other control characters except tab are dropped, and
// invalid UTF-8 is replaced.
func quote(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

// RenderMap renders the client-side image map (cmapx) for a DOT graph. The
// map's regions carry each node's href and tooltip.
func RenderMap(dot string) ([]byte, error) {
	return render(dot, graphviz.Format(FormatCMAPX))
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Package nodelink renders divergence trees as node-link diagrams via Graphviz.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/evoviz/phylosim/pkg/phylo"
)

// Options configures node-link diagram rendering.
type Options struct {
	// EdgeLabels annotates each edge with its mutation value.
	EdgeLabels bool

	// Detailed includes node IDs and depths in labels.
	// When false, only the label is shown.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Leaves are drawn as filled boxes, ancestors as ellipses, so the taxa stand
// out from the synthetic internal nodes.
func ToDOT(t *phylo.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph phylogeny {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for n := range t.PreOrder() {
		label := fmtLabel(t, n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for n := range t.PreOrder() {
		for _, c := range n.Children {
			if opts.EdgeLabels {
				child, _ := t.Node(c)
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.ID, c,
					strconv.FormatFloat(child.MutationValue, 'g', 4, 64))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, c)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *phylo.Tree, n *phylo.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	depth, _ := t.Depth(n.ID)
	return fmt.Sprintf("%s\nid: %s\ndepth: %d", n.Label, n.ID, depth)
}

func fmtAttrs(n *phylo.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsLeaf() {
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=\"#d6eaf8\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the diagram scales
// from origin instead of carrying point-based offsets.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

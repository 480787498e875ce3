// Package newick encodes divergence trees in Newick format.
//
// Newick is the standard interchange format for phylogenies:
//
//	((Human:3.5,Chimp:2.1)anc-1:0.2,(Gorilla:6,Orangutan:8.4)anc-2:0.3)anc-3;
//
// Only encoding is provided; tree construction from sequence data is handled
// elsewhere (simulation) or out of scope (FASTA import).
package newick

import (
	"bytes"
	"strconv"

	"github.com/evoviz/phylosim/pkg/phylo"
)

// Options configures Newick encoding.
type Options struct {
	// InternalLabels includes ancestor labels on internal nodes.
	InternalLabels bool

	// Precision is the number of digits for mutation values,
	// per strconv.FormatFloat 'g'. Zero means minimal exact formatting.
	Precision int
}

// Encode serializes the tree as a single-line Newick string, terminated
// with the conventional semicolon and newline.
func Encode(t *phylo.Tree, opts Options) []byte {
	var buf bytes.Buffer
	encodeNode(&buf, t, t.RootID(), true, opts)
	buf.WriteString(";\n")
	return buf.Bytes()
}

func encodeNode(buf *bytes.Buffer, t *phylo.Tree, id string, isRoot bool, opts Options) {
	n, _ := t.Node(id)

	if !n.IsLeaf() {
		buf.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeNode(buf, t, c, false, opts)
		}
		buf.WriteByte(')')
		if opts.InternalLabels {
			buf.WriteString(n.Label)
		}
	} else {
		buf.WriteString(n.Label)
	}

	// The root has no parent edge, so it carries no branch length.
	if !isRoot {
		buf.WriteByte(':')
		buf.WriteString(formatValue(n.MutationValue, opts.Precision))
	}
}

func formatValue(v float64, precision int) string {
	if precision <= 0 {
		precision = -1
	}
	return strconv.FormatFloat(v, 'g', precision, 64)
}

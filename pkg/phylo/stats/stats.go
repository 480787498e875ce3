// Package stats computes summary statistics over divergence trees.
package stats

import (
	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo"
)

// Summary is a read-only snapshot of aggregate statistics for one tree.
// Mutation aggregates cover all edges (every non-root node); depth covers
// root-to-leaf paths.
type Summary struct {
	MinMutation  float64 `json:"min_mutation" bson:"min_mutation"`
	MaxMutation  float64 `json:"max_mutation" bson:"max_mutation"`
	MeanMutation float64 `json:"mean_mutation" bson:"mean_mutation"`

	// DeepestLeafID is the leaf ending the longest root-to-leaf path.
	// Depth ties resolve to the first leaf in pre-order traversal.
	DeepestLeafID string `json:"deepest_leaf_id" bson:"deepest_leaf_id"`

	// MaxDepth is the edge count of that longest path.
	MaxDepth int `json:"max_depth" bson:"max_depth"`

	LeafCount int `json:"leaf_count" bson:"leaf_count"`
	EdgeCount int `json:"edge_count" bson:"edge_count"`
}

// Summarize computes a Summary in a single depth-first traversal.
//
// A tree with only a root has no edges and therefore no mutation values;
// rather than returning zeroes that could be misread as "no divergence",
// Summarize fails with an EMPTY_STATISTICS error.
func Summarize(t *phylo.Tree) (Summary, error) {
	if t.EdgeCount() == 0 {
		return Summary{}, errors.New(errors.ErrCodeEmptyStatistics, "tree has no edges to summarize")
	}

	s := Summary{EdgeCount: t.EdgeCount()}
	var sum float64
	first := true

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, _ := t.Node(id)

		if id != t.RootID() {
			v := n.MutationValue
			if first {
				s.MinMutation, s.MaxMutation = v, v
				first = false
			} else {
				if v < s.MinMutation {
					s.MinMutation = v
				}
				if v > s.MaxMutation {
					s.MaxMutation = v
				}
			}
			sum += v
		}

		if n.IsLeaf() {
			s.LeafCount++
			// Strict inequality keeps the first pre-order leaf on ties.
			if depth > s.MaxDepth || s.DeepestLeafID == "" {
				s.MaxDepth = depth
				s.DeepestLeafID = id
			}
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.RootID(), 0)

	s.MeanMutation = sum / float64(s.EdgeCount)
	return s, nil
}

// Package insight renders a short textual interpretation of a simulation.
//
// The insight is a pure formatting function over the tree's leaf mutation
// values - a canned observation, not a learned model.
package insight

import (
	"fmt"
	"strings"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo"
)

// Insight identifies the extremes of leaf divergence in a tree.
type Insight struct {
	// MostDivergent is the leaf label with the highest edge mutation value.
	MostDivergent string `json:"most_divergent"`
	MaxValue      float64 `json:"max_value"`

	// ClosestToRoot is the leaf label with the lowest edge mutation value.
	ClosestToRoot string `json:"closest_to_root"`
	MinValue      float64 `json:"min_value"`
}

// FromTree derives an Insight from the tree's leaves.
// Ties resolve to the first leaf in pre-order traversal.
// Fails with EMPTY_STATISTICS for a tree without edges.
func FromTree(t *phylo.Tree) (Insight, error) {
	if t.EdgeCount() == 0 {
		return Insight{}, errors.New(errors.ErrCodeEmptyStatistics, "tree has no edges to interpret")
	}

	var ins Insight
	first := true
	for _, leaf := range t.Leaves() {
		v := leaf.MutationValue
		if first {
			ins = Insight{MostDivergent: leaf.Label, MaxValue: v, ClosestToRoot: leaf.Label, MinValue: v}
			first = false
			continue
		}
		if v > ins.MaxValue {
			ins.MostDivergent, ins.MaxValue = leaf.Label, v
		}
		if v < ins.MinValue {
			ins.ClosestToRoot, ins.MinValue = leaf.Label, v
		}
	}
	return ins, nil
}

// String formats the insight as display bullet points.
func (i Insight) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- The most genetically divergent species is %s (%.2f)\n", i.MostDivergent, i.MaxValue)
	fmt.Fprintf(&b, "- The closest to the ancestral root is %s (%.2f)\n", i.ClosestToRoot, i.MinValue)
	b.WriteString("- Observations suggest environmental or behavioral pressures may explain this divergence\n")
	return b.String()
}

package stats

import (
	"math"
	"testing"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo"
)

func mustBuild(t *testing.T, nodes []phylo.Node, root string) *phylo.Tree {
	t.Helper()
	b := phylo.NewBuilder()
	for _, n := range nodes {
		if err := b.Add(n); err != nil {
			t.Fatalf("Add(%s) error: %v", n.ID, err)
		}
	}
	tree, err := b.Build(root)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree
}

func TestSummarizeRootOnly(t *testing.T) {
	tree := mustBuild(t, []phylo.Node{{ID: "root", Label: "root"}}, "root")

	_, err := Summarize(tree)
	if !errors.Is(err, errors.ErrCodeEmptyStatistics) {
		t.Errorf("Summarize() error = %v, want EMPTY_STATISTICS", err)
	}
}

func TestSummarizeSingleEdge(t *testing.T) {
	tree := mustBuild(t, []phylo.Node{
		{ID: "Human", Label: "Human", MutationValue: 3.5},
		{ID: "root", Label: "root", Children: []string{"Human"}},
	}, "root")

	s, err := Summarize(tree)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}

	if s.MinMutation != 3.5 || s.MaxMutation != 3.5 || s.MeanMutation != 3.5 {
		t.Errorf("min/max/mean = %g/%g/%g, want all 3.5", s.MinMutation, s.MaxMutation, s.MeanMutation)
	}
	if s.DeepestLeafID != "Human" || s.MaxDepth != 1 {
		t.Errorf("deepest = %q at depth %d, want Human at 1", s.DeepestLeafID, s.MaxDepth)
	}
	if s.LeafCount != 1 || s.EdgeCount != 1 {
		t.Errorf("counts = %d leaves, %d edges, want 1 and 1", s.LeafCount, s.EdgeCount)
	}
}

func TestSummarize(t *testing.T) {
	// root
	// ├── a (0.5)
	// │   ├── L1 (2.0)
	// │   └── L2 (8.0)
	// └── L3 (4.0)
	tree := mustBuild(t, []phylo.Node{
		{ID: "L1", Label: "L1", MutationValue: 2},
		{ID: "L2", Label: "L2", MutationValue: 8},
		{ID: "L3", Label: "L3", MutationValue: 4},
		{ID: "a", Label: "a", Children: []string{"L1", "L2"}, MutationValue: 0.5},
		{ID: "root", Label: "root", Children: []string{"a", "L3"}},
	}, "root")

	s, err := Summarize(tree)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}

	if s.MinMutation != 0.5 {
		t.Errorf("MinMutation = %g, want 0.5", s.MinMutation)
	}
	if s.MaxMutation != 8 {
		t.Errorf("MaxMutation = %g, want 8", s.MaxMutation)
	}
	wantMean := (0.5 + 2 + 8 + 4) / 4
	if math.Abs(s.MeanMutation-wantMean) > 1e-12 {
		t.Errorf("MeanMutation = %g, want %g", s.MeanMutation, wantMean)
	}
	if s.DeepestLeafID != "L1" || s.MaxDepth != 2 {
		t.Errorf("deepest = %q at depth %d, want L1 at 2", s.DeepestLeafID, s.MaxDepth)
	}
	if s.LeafCount != 3 || s.EdgeCount != 4 {
		t.Errorf("counts = %d leaves, %d edges, want 3 and 4", s.LeafCount, s.EdgeCount)
	}
}

func TestSummarizeDepthTieBreak(t *testing.T) {
	// Two leaves at equal depth: the first in pre-order wins.
	tree := mustBuild(t, []phylo.Node{
		{ID: "B", Label: "B", MutationValue: 1},
		{ID: "A", Label: "A", MutationValue: 1},
		{ID: "root", Label: "root", Children: []string{"B", "A"}},
	}, "root")

	s, err := Summarize(tree)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.DeepestLeafID != "B" {
		t.Errorf("DeepestLeafID = %q, want B (first in pre-order)", s.DeepestLeafID)
	}
	if s.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", s.MaxDepth)
	}
}

func TestSummarizeZeroValues(t *testing.T) {
	// Mutation values of zero are legal and must not be confused with the
	// empty-tree case.
	tree := mustBuild(t, []phylo.Node{
		{ID: "x", Label: "x"},
		{ID: "y", Label: "y"},
		{ID: "root", Label: "root", Children: []string{"x", "y"}},
	}, "root")

	s, err := Summarize(tree)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.MinMutation != 0 || s.MaxMutation != 0 || s.MeanMutation != 0 {
		t.Errorf("min/max/mean = %g/%g/%g, want all 0", s.MinMutation, s.MaxMutation, s.MeanMutation)
	}
}

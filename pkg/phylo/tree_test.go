package phylo

import (
	"testing"

	"github.com/evoviz/phylosim/pkg/errors"
)

// buildTestTree constructs this tree:
//
//	anc-2
//	├── Human (3.5)
//	└── anc-1 (0.2)
//	    ├── Chimp (2.1)
//	    └── Gorilla (6.0)
func buildTestTree(t *testing.T) *Tree {
	t.Helper()
	b := NewBuilder()
	nodes := []Node{
		{ID: "Human", Label: "Human", MutationValue: 3.5},
		{ID: "Chimp", Label: "Chimp", MutationValue: 2.1},
		{ID: "Gorilla", Label: "Gorilla", MutationValue: 6.0},
		{ID: "anc-1", Label: "anc-1", Children: []string{"Chimp", "Gorilla"}, MutationValue: 0.2},
		{ID: "anc-2", Label: "anc-2", Children: []string{"Human", "anc-1"}},
	}
	for _, n := range nodes {
		if err := b.Add(n); err != nil {
			t.Fatalf("Add(%s) error: %v", n.ID, err)
		}
	}
	tree, err := b.Build("anc-2")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree
}

func TestBuilderAddErrors(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"empty ID", Node{Label: "x"}},
		{"negative mutation value", Node{ID: "x", MutationValue: -1}},
	}

	for _, tt := range tests {
		b := NewBuilder()
		if err := b.Add(tt.node); !errors.Is(err, errors.ErrCodeInvalidTree) {
			t.Errorf("%s: Add() error = %v, want INVALID_TREE", tt.name, err)
		}
	}
}

func TestBuilderAddDuplicate(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(Node{ID: "a"}); err != nil {
		t.Fatalf("first Add error: %v", err)
	}
	if err := b.Add(Node{ID: "a"}); !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("duplicate Add() error = %v, want INVALID_TREE", err)
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		root  string
	}{
		{
			name:  "root never added",
			nodes: []Node{{ID: "a"}},
			root:  "missing",
		},
		{
			name:  "unknown child",
			nodes: []Node{{ID: "r", Children: []string{"ghost"}}},
			root:  "r",
		},
		{
			name: "two parents",
			nodes: []Node{
				{ID: "c"},
				{ID: "p1", Children: []string{"c"}},
				{ID: "r", Children: []string{"p1", "c"}},
			},
			root: "r",
		},
		{
			name: "root is a child",
			nodes: []Node{
				{ID: "r"},
				{ID: "p", Children: []string{"r"}},
			},
			root: "r",
		},
		{
			name: "unreachable node",
			nodes: []Node{
				{ID: "r"},
				{ID: "island"},
			},
			root: "r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			for _, n := range tt.nodes {
				if err := b.Add(n); err != nil {
					t.Fatalf("Add(%s) error: %v", n.ID, err)
				}
			}
			if _, err := b.Build(tt.root); !errors.Is(err, errors.ErrCodeInvalidTree) {
				t.Errorf("Build() error = %v, want INVALID_TREE", err)
			}
		})
	}
}

func TestTreeAccessors(t *testing.T) {
	tree := buildTestTree(t)

	if got := tree.RootID(); got != "anc-2" {
		t.Errorf("RootID() = %q, want anc-2", got)
	}
	if got := tree.Root().ID; got != "anc-2" {
		t.Errorf("Root().ID = %q, want anc-2", got)
	}
	if got := tree.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := tree.EdgeCount(); got != 4 {
		t.Errorf("EdgeCount() = %d, want 4", got)
	}
	if !tree.IsLeaf("Human") {
		t.Error("IsLeaf(Human) = false, want true")
	}
	if tree.IsLeaf("anc-1") {
		t.Error("IsLeaf(anc-1) = true, want false")
	}
	if tree.IsLeaf("ghost") {
		t.Error("IsLeaf(ghost) = true, want false")
	}

	children := tree.Children("anc-1")
	if len(children) != 2 || children[0] != "Chimp" || children[1] != "Gorilla" {
		t.Errorf("Children(anc-1) = %v, want [Chimp Gorilla]", children)
	}
	if tree.Children("ghost") != nil {
		t.Error("Children(ghost) should be nil")
	}
}

func TestTreeNodeNotFound(t *testing.T) {
	tree := buildTestTree(t)

	n, err := tree.Node("Human")
	if err != nil || n.MutationValue != 3.5 {
		t.Errorf("Node(Human) = %v, %v", n, err)
	}

	if _, err := tree.Node("ghost"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Node(ghost) error = %v, want NODE_NOT_FOUND", err)
	}
	if _, err := tree.Depth("ghost"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("Depth(ghost) error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestPreOrder(t *testing.T) {
	tree := buildTestTree(t)

	want := []string{"anc-2", "Human", "anc-1", "Chimp", "Gorilla"}
	var got []string
	for n := range tree.PreOrder() {
		got = append(got, n.ID)
	}

	if len(got) != len(want) {
		t.Fatalf("PreOrder() yielded %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PreOrder()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPreOrderRestartable(t *testing.T) {
	tree := buildTestTree(t)
	seq := tree.PreOrder()

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != second {
		t.Errorf("traversals differ: %d vs %d", first, second)
	}
}

func TestPreOrderEarlyStop(t *testing.T) {
	tree := buildTestTree(t)

	n := 0
	for range tree.PreOrder() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early stop yielded %d nodes, want 2", n)
	}
}

func TestLeaves(t *testing.T) {
	tree := buildTestTree(t)

	want := []string{"Human", "Chimp", "Gorilla"}
	leaves := tree.Leaves()
	if len(leaves) != len(want) {
		t.Fatalf("Leaves() returned %d, want %d", len(leaves), len(want))
	}
	for i, leaf := range leaves {
		if leaf.ID != want[i] {
			t.Errorf("Leaves()[%d] = %q, want %q", i, leaf.ID, want[i])
		}
	}
}

func TestDepth(t *testing.T) {
	tree := buildTestTree(t)

	tests := []struct {
		id   string
		want int
	}{
		{"anc-2", 0},
		{"Human", 1},
		{"anc-1", 1},
		{"Chimp", 2},
		{"Gorilla", 2},
	}
	for _, tt := range tests {
		got, err := tree.Depth(tt.id)
		if err != nil {
			t.Errorf("Depth(%s) error: %v", tt.id, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Depth(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

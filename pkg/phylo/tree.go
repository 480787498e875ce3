// Package phylo provides the in-memory model for phylogenetic divergence trees.
//
// A [Tree] is a rooted tree of named taxa: leaves carry species labels,
// internal nodes are synthetic ancestors, and every non-root node carries a
// non-negative mutation value on the edge to its parent. Trees are built once
// (via [Builder], typically by the sim package) and are immutable afterwards,
// so they are safe for concurrent reads.
//
// # Structure
//
//   - [Node]: one vertex with an ordered child list and an edge weight
//   - [Tree]: the root plus an ID index over the reachable node set
//   - [Builder]: the only way to construct a Tree; enforces the structural
//     invariants (unique IDs, single parent, acyclic, fully connected)
//
// # Traversal
//
// [Tree.PreOrder] yields nodes root-first in depth-first, child-order
// preserving order. Each call returns a fresh sequence, so traversals are
// restartable and hold no shared cursor:
//
//	for n := range tree.PreOrder() {
//	    fmt.Println(n.Label, n.MutationValue)
//	}
package phylo

import (
	"iter"

	"github.com/evoviz/phylosim/pkg/errors"
)

// Node represents a vertex in a divergence tree.
// Leaves carry taxon labels; internal nodes carry synthetic ancestor labels.
//
// MutationValue is the divergence weight on the edge from this node's parent.
// The root has no parent edge, so its MutationValue is 0 by convention.
type Node struct {
	ID            string   `json:"id" bson:"id"`
	Label         string   `json:"label" bson:"label"`
	Children      []string `json:"children,omitempty" bson:"children,omitempty"`
	MutationValue float64  `json:"mutation_value" bson:"mutation_value"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is an immutable rooted divergence tree.
//
// Invariants, enforced by [Builder.Build]:
//   - exactly one root (the only node with no parent)
//   - every non-root node is the child of exactly one node
//   - the node graph is acyclic and connected from the root
//   - the ID index contains exactly the reachable set from the root
//
// The zero value is not usable - construct trees with a Builder.
type Tree struct {
	rootID string
	nodes  map[string]*Node
}

// RootID returns the ID of the root node.
func (t *Tree) RootID() string { return t.rootID }

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[t.rootID] }

// Node returns the node with the given ID, or a NODE_NOT_FOUND error if the
// ID is absent from the tree.
func (t *Tree) Node(id string) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	return n, nil
}

// Children returns the ordered child IDs of the given node.
// Returns nil for leaves and for unknown IDs - use Node to distinguish.
func (t *Tree) Children(id string) []string {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return n.Children
}

// IsLeaf reports whether the node with the given ID has no children.
// Unknown IDs report false.
func (t *Tree) IsLeaf(id string) bool {
	n, ok := t.nodes[id]
	return ok && n.IsLeaf()
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges in the tree.
// For any rooted tree this is NodeCount()-1.
func (t *Tree) EdgeCount() int { return len(t.nodes) - 1 }

// PreOrder returns a lazy sequence of nodes in root-first, depth-first,
// child-order preserving order. The sequence is finite and each call yields
// a fresh traversal, so callers can range over it any number of times.
func (t *Tree) PreOrder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var walk func(id string) bool
		walk = func(id string) bool {
			n := t.nodes[id]
			if !yield(n) {
				return false
			}
			for _, c := range n.Children {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(t.rootID)
	}
}

// Leaves returns all leaf nodes in pre-order traversal order.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	for n := range t.PreOrder() {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Depth returns the number of edges on the path from the root to the given
// node, or a NODE_NOT_FOUND error if the ID is absent.
func (t *Tree) Depth(id string) (int, error) {
	if _, ok := t.nodes[id]; !ok {
		return 0, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	depth, found := t.findDepth(t.rootID, id, 0)
	if !found {
		// Unreachable for a tree built by Builder, which indexes exactly
		// the reachable set.
		return 0, errors.New(errors.ErrCodeInternal, "node %q not reachable from root", id)
	}
	return depth, nil
}

func (t *Tree) findDepth(cur, target string, depth int) (int, bool) {
	if cur == target {
		return depth, true
	}
	for _, c := range t.nodes[cur].Children {
		if d, ok := t.findDepth(c, target, depth+1); ok {
			return d, true
		}
	}
	return 0, false
}

package phylo

import (
	"github.com/evoviz/phylosim/pkg/errors"
)

// Builder accumulates nodes and produces a validated, immutable [Tree].
//
// Nodes are added with their child lists already set; Build then checks the
// whole structure at once. This keeps the generator's merge loop simple while
// still guaranteeing every Tree in the program satisfies the invariants.
type Builder struct {
	nodes map[string]*Node
	order []string // insertion order, for deterministic validation messages
}

// NewBuilder creates an empty tree builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]*Node)}
}

// Add registers a node. Returns an INVALID_TREE error for an empty or
// duplicate ID. The node is copied; later mutation of the argument does not
// affect the builder.
func (b *Builder) Add(n Node) error {
	if n.ID == "" {
		return errors.New(errors.ErrCodeInvalidTree, "node ID must not be empty")
	}
	if _, exists := b.nodes[n.ID]; exists {
		return errors.New(errors.ErrCodeInvalidTree, "duplicate node ID %q", n.ID)
	}
	if n.MutationValue < 0 {
		return errors.New(errors.ErrCodeInvalidTree, "node %q has negative mutation value %g", n.ID, n.MutationValue)
	}
	node := n
	b.nodes[node.ID] = &node
	b.order = append(b.order, node.ID)
	return nil
}

// Build validates the accumulated nodes and returns the finished tree.
//
// Validation covers the full set of Tree invariants:
//   - rootID names an added node
//   - every child reference resolves
//   - every non-root node has exactly one parent
//   - all nodes are reachable from the root (connected, acyclic)
//
// An INVALID_TREE error names the first violated constraint. The builder
// must not be reused after a successful Build.
func (b *Builder) Build(rootID string) (*Tree, error) {
	if _, ok := b.nodes[rootID]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidTree, "root %q was never added", rootID)
	}

	parents := make(map[string]string, len(b.nodes))
	for _, id := range b.order {
		for _, c := range b.nodes[id].Children {
			if _, ok := b.nodes[c]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidTree, "node %q references unknown child %q", id, c)
			}
			if p, claimed := parents[c]; claimed {
				return nil, errors.New(errors.ErrCodeInvalidTree, "node %q has two parents: %q and %q", c, p, id)
			}
			parents[c] = id
		}
	}
	if p, ok := parents[rootID]; ok {
		return nil, errors.New(errors.ErrCodeInvalidTree, "root %q is a child of %q", rootID, p)
	}

	// Single-parent plus a valid root rules out cycles among reachable
	// nodes; a reachability walk catches disconnected components.
	reached := make(map[string]bool, len(b.nodes))
	var walk func(id string)
	walk = func(id string) {
		if reached[id] {
			return
		}
		reached[id] = true
		for _, c := range b.nodes[id].Children {
			walk(c)
		}
	}
	walk(rootID)

	if len(reached) != len(b.nodes) {
		for _, id := range b.order {
			if !reached[id] {
				return nil, errors.New(errors.ErrCodeInvalidTree, "node %q is not reachable from root %q", id, rootID)
			}
		}
	}

	return &Tree{rootID: rootID, nodes: b.nodes}, nil
}

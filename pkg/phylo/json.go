package phylo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// TreeDoc is the canonical serialization format for divergence trees.
// Used for API responses, history storage, caching, and file export.
//
// The format is designed for round-trip fidelity: generate → export →
// re-import produces an identical tree. Child order is carried on the nodes
// themselves, so the node list order does not matter structurally; it is
// sorted by ID for deterministic output.
type TreeDoc struct {
	Root  string `json:"root" bson:"root"`
	Nodes []Node `json:"nodes" bson:"nodes"`
}

// ToDoc converts a Tree to its serialization format.
// Nodes are sorted by ID for deterministic output.
func ToDoc(t *Tree) TreeDoc {
	doc := TreeDoc{
		Root:  t.rootID,
		Nodes: make([]Node, 0, len(t.nodes)),
	}
	for _, n := range t.nodes {
		doc.Nodes = append(doc.Nodes, *n)
	}
	slices.SortFunc(doc.Nodes, func(a, b Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return doc
}

// FromDoc converts a TreeDoc back into a validated Tree.
// Returns an INVALID_TREE error if the document violates tree constraints.
func FromDoc(doc TreeDoc) (*Tree, error) {
	b := NewBuilder()
	for _, n := range doc.Nodes {
		if err := b.Add(n); err != nil {
			return nil, err
		}
	}
	return b.Build(doc.Root)
}

// MarshalTree converts a Tree to indented JSON bytes.
func MarshalTree(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTree writes a Tree as JSON to an io.Writer.
func WriteTree(t *Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDoc(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTreeFile writes a Tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(t, f)
}

// ReadTree decodes a JSON tree from an io.Reader.
// Returns validation errors for malformed documents or constraint violations.
func ReadTree(r io.Reader) (*Tree, error) {
	var doc TreeDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDoc(doc)
}

// ReadTreeFile reads a JSON file and returns the decoded Tree.
func ReadTreeFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// UnmarshalTree deserializes JSON bytes to a Tree.
func UnmarshalTree(data []byte) (*Tree, error) {
	return ReadTree(bytes.NewReader(data))
}

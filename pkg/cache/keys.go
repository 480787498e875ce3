package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// TreeKeyOpts are the generation inputs that determine a tree's identity.
type TreeKeyOpts struct {
	Taxa        []string
	Policy      string
	KMin, KMax  int
	MutationMin float64
	MutationMax float64
	Seed        uint64
}

// TreeKey generates a cache key for a generated tree.
func TreeKey(opts TreeKeyOpts) string {
	return hashKey("tree", opts)
}

// StatsKey generates a cache key for summary statistics of a tree.
func StatsKey(treeHash string) string {
	return hashKey("stats", treeHash)
}

// ArtifactKeyOpts are the rendering inputs that determine an artifact's identity.
type ArtifactKeyOpts struct {
	Format      string
	EdgeLabels  bool
	Detailed    bool
	ChartWidth  float64
	ChartHeight float64
}

// ArtifactKey generates a cache key for a rendered artifact of a tree.
func ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

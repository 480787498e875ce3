// Package sim generates random divergence trees over a set of taxa.
//
// The generator builds a rooted tree bottom-up by agglomerative pairing:
// every taxon starts as its own subtree, and subtrees are repeatedly merged
// under fresh ancestor nodes until a single root remains. Each new edge gets
// a mutation value sampled uniformly from the configured range.
//
// Generation is deterministic for a fixed seed, which makes simulations
// reproducible and testable:
//
//	tree, err := sim.Generate(sim.Options{
//	    Taxa:        []string{"Human", "Chimp", "Gorilla", "Orangutan"},
//	    MutationMin: 0,
//	    MutationMax: 10,
//	    Seed:        42,
//	})
package sim

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/phylo"
)

// Branching policies.
const (
	// PolicyBinary merges exactly two subtrees per ancestor, yielding a
	// strictly binary phylogeny: n leaves, n-1 ancestors, 2n-1 nodes.
	PolicyBinary = "binary"

	// PolicyKary merges a random number of subtrees per ancestor, drawn
	// from [KMin, KMax], yielding variable-arity trees.
	PolicyKary = "kary"
)

// ValidPolicies is the set of supported branching policies.
var ValidPolicies = map[string]bool{
	PolicyBinary: true,
	PolicyKary:   true,
}

// Default k-range for the k-ary policy.
const (
	DefaultKMin = 2
	DefaultKMax = 4
)

// Options configures tree generation.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Taxa is the ordered set of distinct leaf labels. At least two.
	Taxa []string `json:"taxa"`

	// Policy selects the branching policy: "binary" (default) or "kary".
	Policy string `json:"policy,omitempty"`

	// KMin and KMax bound the merge arity for the k-ary policy (inclusive).
	// Ignored for binary. Defaults: 2 and 4.
	KMin int `json:"k_min,omitempty"`
	KMax int `json:"k_max,omitempty"`

	// MutationMin and MutationMax are the inclusive bounds for sampled
	// edge mutation values. Both non-negative, min <= max.
	MutationMin float64 `json:"mutation_min"`
	MutationMax float64 `json:"mutation_max"`

	// Seed drives the random source. The same seed with the same inputs
	// produces an identical tree.
	Seed uint64 `json:"seed"`
}

// Validate checks the options and applies policy defaults.
func (o *Options) Validate() error {
	if err := errors.ValidateTaxonLabels(o.Taxa); err != nil {
		return err
	}
	if err := errors.ValidateMutationRange(o.MutationMin, o.MutationMax); err != nil {
		return err
	}

	if o.Policy == "" {
		o.Policy = PolicyBinary
	}
	if !ValidPolicies[o.Policy] {
		return errors.New(errors.ErrCodeInvalidPolicy, "invalid branching policy: %q (must be one of: binary, kary)", o.Policy)
	}

	if o.Policy == PolicyKary {
		if o.KMin == 0 {
			o.KMin = DefaultKMin
		}
		if o.KMax == 0 {
			o.KMax = DefaultKMax
		}
		if o.KMin < 2 || o.KMax < o.KMin {
			return errors.New(errors.ErrCodeInvalidPolicy, "invalid k range [%d, %d]: need 2 <= k_min <= k_max", o.KMin, o.KMax)
		}
	}

	return nil
}

// Generate builds a random divergence tree over opts.Taxa.
//
// Leaves are exactly the given taxa (one per label, using the label as node
// ID). Ancestors are synthetic, labeled by a counter ("anc-1", "anc-2", ...).
// Every non-root node carries a mutation value sampled uniformly from
// [MutationMin, MutationMax]. The input slice is not mutated.
//
// Returns an INVALID_INPUT, INVALID_RANGE, or INVALID_POLICY error for
// malformed options.
func Generate(opts Options) (*phylo.Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	b := phylo.NewBuilder()

	// Active set of subtree root IDs, initialized to one leaf per taxon.
	active := slices.Clone(opts.Taxa)

	// Leaf mutation values are assigned at merge time, when the leaf
	// gains a parent edge. Stage the nodes and patch values via a map.
	pending := make(map[string]*phylo.Node, 2*len(opts.Taxa))
	for _, taxon := range opts.Taxa {
		pending[taxon] = &phylo.Node{ID: taxon, Label: taxon}
	}

	ancestors := 0
	for len(active) > 1 {
		k := 2
		if opts.Policy == PolicyKary {
			k = opts.KMin + rng.IntN(opts.KMax-opts.KMin+1)
			if k > len(active) {
				k = len(active)
			}
		}

		children := make([]string, 0, k)
		for range k {
			i := rng.IntN(len(active))
			children = append(children, active[i])
			active = slices.Delete(active, i, i+1)
		}

		for _, c := range children {
			pending[c].MutationValue = sample(rng, opts.MutationMin, opts.MutationMax)
		}

		ancestors++
		id := fmt.Sprintf("anc-%d", ancestors)
		pending[id] = &phylo.Node{ID: id, Label: id, Children: children}
		active = append(active, id)
	}

	root := active[0]
	for _, taxon := range opts.Taxa {
		if err := b.Add(*pending[taxon]); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= ancestors; i++ {
		if err := b.Add(*pending[fmt.Sprintf("anc-%d", i)]); err != nil {
			return nil, err
		}
	}

	return b.Build(root)
}

// sample draws a uniform value from the inclusive range [min, max].
func sample(rng *rand.Rand, min, max float64) float64 {
	if min == max {
		return min
	}
	return min + rng.Float64()*(max-min)
}

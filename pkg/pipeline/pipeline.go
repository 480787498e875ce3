// Package pipeline provides the core simulation pipeline for phylosim.
//
// This package implements the complete generate → summarize → render pipeline
// shared by the CLI and the HTTP API. Centralizing this logic keeps behavior
// consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: build a random divergence tree from the configured taxa
//  2. Summarize: compute aggregate statistics and the insight text inputs
//  3. Render: produce output artifacts (Newick, JSON, DOT, SVG, PNG, charts)
//
// Generation is deterministic for a fixed seed, so rendered artifacts are
// cached under content-derived keys.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Taxa:    []string{"Human", "Chimp", "Gorilla", "Orangutan"},
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatNewick},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/insight"
	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/phylo/sim"
	"github.com/evoviz/phylosim/pkg/phylo/stats"
	"github.com/evoviz/phylosim/pkg/render/charts"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultMutationMin and DefaultMutationMax bound sampled mutation
	// values when the caller configures neither.
	DefaultMutationMin = 10.0
	DefaultMutationMax = 100.0

	// MaxTaxa bounds a single simulation. The core is O(n), but artifacts
	// (DOT layout, charts) degrade well before this.
	MaxTaxa = 512
)

// Output format constants.
const (
	FormatNewick  = "newick"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatBar     = "bar"
	FormatHeatmap = "heatmap"
	FormatPie     = "pie"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatNewick:  true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatSVG:     true,
	FormatPNG:     true,
	FormatBar:     true,
	FormatHeatmap: true,
	FormatPie:     true,
}

// Chart titles shown in rendered chart artifacts.
const (
	barTitle     = "Mutation Rates per Species"
	heatmapTitle = "Divergence Scores"
	pieTitle     = "Relative Divergence"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one simulation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation options
	Taxa        []string `json:"taxa"`
	Policy      string   `json:"policy,omitempty"`
	KMin        int      `json:"k_min,omitempty"`
	KMax        int      `json:"k_max,omitempty"`
	MutationMin float64  `json:"mutation_min,omitempty"`
	MutationMax float64  `json:"mutation_max,omitempty"`
	Seed        uint64   `json:"seed,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	EdgeLabels  bool     `json:"edge_labels,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`
	ChartWidth  float64  `json:"chart_width,omitempty"`
	ChartHeight float64  `json:"chart_height,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Taxa) > MaxTaxa {
		return errors.New(errors.ErrCodeInvalidInput, "too many taxa: %d (max %d)", len(o.Taxa), MaxTaxa)
	}
	if o.MutationMin == 0 && o.MutationMax == 0 {
		o.MutationMin = DefaultMutationMin
		o.MutationMax = DefaultMutationMax
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	// Generation parameters validate through the generator's own checks.
	simOpts := o.SimOptions()
	if err := simOpts.Validate(); err != nil {
		return err
	}
	o.Policy = simOpts.Policy
	o.KMin = simOpts.KMin
	o.KMax = simOpts.KMax

	o.validated = true
	return nil
}

// SimOptions projects the generation subset of the options.
func (o *Options) SimOptions() sim.Options {
	return sim.Options{
		Taxa:        o.Taxa,
		Policy:      o.Policy,
		KMin:        o.KMin,
		KMax:        o.KMax,
		MutationMin: o.MutationMin,
		MutationMax: o.MutationMax,
		Seed:        o.Seed,
	}
}

// ChartOptions projects the chart geometry subset of the options.
func (o *Options) ChartOptions(title string) charts.Options {
	return charts.Options{
		Width:  o.ChartWidth,
		Height: o.ChartHeight,
		Title:  title,
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: newick, json, dot, svg, png, bar, heatmap, pie)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the generated divergence tree.
	Tree *phylo.Tree

	// TreeHash is the content hash of the tree's canonical JSON form.
	TreeHash string

	// Summary contains aggregate statistics over the tree.
	Summary stats.Summary

	// Insight is the canned interpretation of the leaf extremes.
	Insight insight.Insight

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which pipeline products came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	LeafCount     int
	GenerateTime  time.Duration
	SummarizeTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache behavior across the pipeline: the generated tree,
// its summary, and each rendered artifact count as one entry each.
type CacheInfo struct {
	// Hits counts products served from cache.
	Hits int
	// Misses counts products computed fresh.
	Misses int
}

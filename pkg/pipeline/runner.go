package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evoviz/phylosim/pkg/cache"
	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/insight"
	"github.com/evoviz/phylosim/pkg/observability"
	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/phylo/sim"
	"github.com/evoviz/phylosim/pkg/phylo/stats"
	"github.com/evoviz/phylosim/pkg/render/charts"
	"github.com/evoviz/phylosim/pkg/render/newick"
	"github.com/evoviz/phylosim/pkg/render/nodelink"
)

// cacheTTL bounds how long cached trees, summaries, and artifacts stay valid.
const cacheTTL = 7 * 24 * time.Hour

// Runner executes the simulation pipeline with caching and logging.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner.
// A nil cache disables caching; a nil logger discards log output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cache: c, logger: logger}
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// Execute runs the complete generate → summarize → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.logger
	}

	result := &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}

	// Generate. Trees are deterministic per generation options, so a cached
	// document is interchangeable with a fresh run.
	start := time.Now()
	tree, treeJSON, err := r.generate(ctx, opts, result, logger)
	result.Stats.GenerateTime = time.Since(start)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Stats.NodeCount = tree.NodeCount()
	result.Stats.LeafCount = len(tree.Leaves())
	result.TreeHash = cache.Hash(treeJSON)

	// Summarize
	start = time.Now()
	summary, err := r.summarize(ctx, tree, result, logger)
	result.Stats.SummarizeTime = time.Since(start)
	if err != nil {
		return nil, err
	}
	result.Summary = summary

	ins, err := insight.FromTree(tree)
	if err != nil {
		return nil, err
	}
	result.Insight = ins

	// Render
	start = time.Now()
	observability.Simulation().OnRenderStart(ctx, opts.Formats)
	err = r.render(ctx, tree, treeJSON, opts, result)
	result.Stats.RenderTime = time.Since(start)
	observability.Simulation().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// generate returns the tree for opts, consulting the tree cache keyed by the
// generation inputs before running the simulation.
func (r *Runner) generate(ctx context.Context, opts Options, result *Result, logger *log.Logger) (*phylo.Tree, []byte, error) {
	key := cache.TreeKey(cache.TreeKeyOpts{
		Taxa:        opts.Taxa,
		Policy:      opts.Policy,
		KMin:        opts.KMin,
		KMax:        opts.KMax,
		MutationMin: opts.MutationMin,
		MutationMax: opts.MutationMax,
		Seed:        opts.Seed,
	})

	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		if tree, err := phylo.UnmarshalTree(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "tree")
			result.CacheInfo.Hits++
			logger.Debug("tree cache hit", "taxa", len(opts.Taxa), "seed", opts.Seed)
			return tree, data, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "tree")

	start := time.Now()
	observability.Simulation().OnGenerateStart(ctx, len(opts.Taxa))
	tree, err := sim.Generate(opts.SimOptions())
	observability.Simulation().OnGenerateComplete(ctx, nodeCountOf(tree), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("generated tree", "taxa", len(opts.Taxa), "nodes", tree.NodeCount(), "seed", opts.Seed)

	treeJSON, err := phylo.MarshalTree(tree)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal tree")
	}
	result.CacheInfo.Misses++

	if err := r.cache.Set(ctx, key, treeJSON, cacheTTL); err != nil {
		logger.Warn("cache tree", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "tree", len(treeJSON))
	}
	return tree, treeJSON, nil
}

// summarize returns statistics for tree, consulting the stats cache keyed by
// the tree hash.
func (r *Runner) summarize(ctx context.Context, tree *phylo.Tree, result *Result, logger *log.Logger) (stats.Summary, error) {
	key := cache.StatsKey(result.TreeHash)

	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		var summary stats.Summary
		if err := json.Unmarshal(data, &summary); err == nil {
			observability.Cache().OnCacheHit(ctx, "stats")
			result.CacheInfo.Hits++
			return summary, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "stats")

	start := time.Now()
	summary, err := stats.Summarize(tree)
	observability.Simulation().OnSummarizeComplete(ctx, time.Since(start), err)
	if err != nil {
		return stats.Summary{}, err
	}
	result.CacheInfo.Misses++

	if data, err := json.Marshal(summary); err == nil {
		if err := r.cache.Set(ctx, key, data, cacheTTL); err != nil {
			logger.Warn("cache stats", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "stats", len(data))
		}
	}
	return summary, nil
}

// Summarize computes statistics for an existing tree, outside a full run.
func (r *Runner) Summarize(ctx context.Context, tree *phylo.Tree) (stats.Summary, error) {
	return stats.Summarize(tree)
}

// Render produces artifacts for an existing tree, outside a full run.
// This backs the CLI render command and the history re-render endpoint.
func (r *Runner) Render(ctx context.Context, tree *phylo.Tree, opts Options) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	treeJSON, err := phylo.MarshalTree(tree)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal tree")
	}

	result := &Result{
		TreeHash:  cache.Hash(treeJSON),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	if err := r.render(ctx, tree, treeJSON, opts, result); err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}

// render fills result.Artifacts for every requested format, consulting the
// artifact cache keyed by tree hash and render options.
func (r *Runner) render(ctx context.Context, tree *phylo.Tree, treeJSON []byte, opts Options, result *Result) error {
	for _, format := range opts.Formats {
		key := cache.ArtifactKey(result.TreeHash, cache.ArtifactKeyOpts{
			Format:      format,
			EdgeLabels:  opts.EdgeLabels,
			Detailed:    opts.Detailed,
			ChartWidth:  opts.ChartWidth,
			ChartHeight: opts.ChartHeight,
		})

		if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.Artifacts[format] = data
			result.CacheInfo.Hits++
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")

		data, err := r.renderOne(ctx, tree, treeJSON, format, opts)
		if err != nil {
			return err
		}
		result.Artifacts[format] = data
		result.CacheInfo.Misses++

		if err := r.cache.Set(ctx, key, data, cacheTTL); err != nil {
			r.logger.Warn("cache artifact", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return nil
}

func (r *Runner) renderOne(ctx context.Context, tree *phylo.Tree, treeJSON []byte, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return treeJSON, nil

	case FormatNewick:
		return newick.Encode(tree, newick.Options{InternalLabels: opts.Detailed}), nil

	case FormatDOT:
		return []byte(nodelink.ToDOT(tree, r.dotOptions(opts))), nil

	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(tree, r.dotOptions(opts)))

	case FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(tree, r.dotOptions(opts)))

	case FormatBar, FormatHeatmap, FormatPie:
		series, err := charts.FromTree(tree)
		if err != nil {
			return nil, err
		}
		switch format {
		case FormatBar:
			return charts.Bar(series, opts.ChartOptions(barTitle))
		case FormatHeatmap:
			return charts.Heatmap(series, opts.ChartOptions(heatmapTitle))
		default:
			return charts.Pie(series, opts.ChartOptions(pieTitle))
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
}

func (r *Runner) dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		EdgeLabels: opts.EdgeLabels,
		Detailed:   opts.Detailed,
	}
}

func nodeCountOf(t *phylo.Tree) int {
	if t == nil {
		return 0
	}
	return t.NodeCount()
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evoviz/phylosim/pkg/config"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

// simulateCommand creates the simulate command, the main entry point of the
// tool: generate a tree, summarize it, and render the requested artifacts.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		taxaStr    string
		preset     string
		formatsStr string
		output     string
		configPath string
		noCache    bool
	)
	opts := pipeline.Options{
		Seed:        pipeline.DefaultSeed,
		MutationMin: pipeline.DefaultMutationMin,
		MutationMax: pipeline.DefaultMutationMax,
	}

	cmd := &cobra.Command{
		Use:   "simulate [taxon...]",
		Short: "Generate a random divergence tree and render it",
		Long: `Generate a random divergence tree and render it.

Taxon labels are taken from positional arguments, from --taxa as a
comma-separated list, or from a named --preset defined in the config file.
The same seed always produces the same tree for the same inputs.

Rendered artifacts are cached locally for faster subsequent runs.`,
		Example: `  phylosim simulate Human Chimpanzee Gorilla Orangutan
  phylosim simulate --preset primates --seed 7
  phylosim simulate --taxa "Wolf,Dog,Fox" --format newick,svg,bar -o out/canids`,
		RunE: func(cmd *cobra.Command, args []string) error {
			taxa, err := resolveTaxa(args, taxaStr, preset, configPath, &opts)
			if err != nil {
				return err
			}
			opts.Taxa = taxa
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runSimulate(cmd.Context(), opts, output, noCache)
		},
	}

	// Input flags
	cmd.Flags().StringVar(&taxaStr, "taxa", "", "comma-separated taxon labels")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "named taxon preset from the config file")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/phylosim/phylosim.toml)")

	// Generation flags
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "merge policy: binary (default), kary")
	cmd.Flags().IntVar(&opts.KMin, "k-min", 0, "minimum subtrees per merge (kary policy)")
	cmd.Flags().IntVar(&opts.KMax, "k-max", 0, "maximum subtrees per merge (kary policy)")
	cmd.Flags().Float64Var(&opts.MutationMin, "min", opts.MutationMin, "minimum mutation value")
	cmd.Flags().Float64Var(&opts.MutationMax, "max", opts.MutationMax, "maximum mutation value")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), newick, json, dot, png, bar, heatmap, pie (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "label edges with mutation values (dot, svg, png)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show detailed node information")
	cmd.Flags().Float64Var(&opts.ChartWidth, "width", 0, "chart width in pixels")
	cmd.Flags().Float64Var(&opts.ChartHeight, "height", 0, "chart height in pixels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// resolveTaxa determines the taxon labels from args, the --taxa flag, or a
// preset, in that priority order. When a preset is used, the config file's
// generation defaults fill any options still at their zero value.
func resolveTaxa(args []string, taxaStr, preset, configPath string, opts *pipeline.Options) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if taxaStr != "" {
		return parseTaxa(taxaStr), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyConfigDefaults(opts, cfg.Defaults)
	if preset != "" {
		p, err := cfg.Preset(preset)
		if err != nil {
			return nil, err
		}
		return p.Taxa, nil
	}
	return nil, fmt.Errorf("no taxa given: pass labels as arguments, --taxa, or --preset (see 'phylosim presets')")
}

// applyConfigDefaults fills unset generation options from config defaults.
func applyConfigDefaults(opts *pipeline.Options, d config.Defaults) {
	if opts.Policy == "" {
		opts.Policy = d.Policy
	}
	if opts.KMin == 0 {
		opts.KMin = d.KMin
	}
	if opts.KMax == 0 {
		opts.KMax = d.KMax
	}
	if d.MutationMin != 0 && opts.MutationMin == pipeline.DefaultMutationMin {
		opts.MutationMin = d.MutationMin
	}
	if d.MutationMax != 0 && opts.MutationMax == pipeline.DefaultMutationMax {
		opts.MutationMax = d.MutationMax
	}
}

// runSimulate executes the full pipeline and prints the results.
func (c *CLI) runSimulate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	// Normalize up front so the recorded history options match the run.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Simulating divergence of %d taxa...", len(opts.Taxa)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Simulated %d taxa", len(opts.Taxa)))

	printSummary(result)
	c.recordRun(ctx, opts, result)

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
		base:      "tree",
	})
}

// printSummary prints the statistics block and the insight lines.
func printSummary(result *pipeline.Result) {
	printNewline()
	fmt.Println(StyleTitle.Render("Divergence Summary"))
	printTreeStats(result.Stats.NodeCount, result.Stats.LeafCount,
		result.CacheInfo.Hits, result.CacheInfo.Misses)
	printNewline()

	s := result.Summary
	printKeyValue("Min mutation", formatValue(s.MinMutation))
	printKeyValue("Max mutation", formatValue(s.MaxMutation))
	printKeyValue("Mean mutation", formatValue(s.MeanMutation))
	printKeyValue("Deepest leaf", s.DeepestLeafID)
	printKeyValue("Max depth", strconv.Itoa(s.MaxDepth))
	printNewline()

	fmt.Println(StyleTitle.Render("Insight"))
	fmt.Print(StyleDim.Render(result.Insight.String()))
	printNewline()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

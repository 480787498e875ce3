package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

// renderCommand creates the render command for re-rendering a saved tree.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a saved tree to output formats",
		Long: `Render a saved tree to output formats.

Reads a tree previously written with 'simulate --format json' and renders it
without regenerating, so the same tree can be exported to several formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), newick, json, dot, png, bar, heatmap, pie (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.EdgeLabels, "edge-labels", false, "label edges with mutation values (dot, svg, png)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show detailed node information")
	cmd.Flags().Float64Var(&opts.ChartWidth, "width", 0, "chart width in pixels")
	cmd.Flags().Float64Var(&opts.ChartHeight, "height", 0, "chart height in pixels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// runRender loads the tree and renders the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	tree, err := phylo.ReadTreeFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}
	c.Logger.Info("loaded tree", "nodes", tree.NodeCount(), "leaves", len(tree.Leaves()))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, err := runner.Render(ctx, tree, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		output:    output,
		base:      strings.TrimSuffix(input, filepath.Ext(input)),
	})
}

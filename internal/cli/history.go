package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evoviz/phylosim/pkg/errors"
	"github.com/evoviz/phylosim/pkg/history"
	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

// localSession owns all records written by the CLI. The server scopes
// history per cookie; the CLI has a single local user.
const localSession = "local"

// =============================================================================
// History Store
// =============================================================================

// newHistoryStore opens the file-backed run history.
func newHistoryStore() (history.Store, error) {
	dir, err := historyDir()
	if err != nil {
		return nil, err
	}
	return history.NewFileStore(dir)
}

// recordRun persists a completed simulation to local history. A persistence
// failure downgrades to a warning; the run itself already succeeded.
func (c *CLI) recordRun(ctx context.Context, opts pipeline.Options, result *pipeline.Result) {
	store, err := newHistoryStore()
	if err != nil {
		printWarning("run not saved to history: %v", err)
		return
	}
	defer store.Close()

	rec := history.NewRecord(localSession, opts.SimOptions(), result.Tree, result.Summary)
	if err := store.Put(ctx, rec); err != nil {
		printWarning("run not saved to history: %v", err)
		return
	}
	printDetail("history id: %s", rec.ID)
}

// findRecord resolves a full record ID or a unique ID prefix.
func findRecord(ctx context.Context, store history.Store, id string) (*history.Record, error) {
	if rec, err := store.Get(ctx, id); err == nil {
		return rec, nil
	}

	recs, err := store.List(ctx, localSession, 0)
	if err != nil {
		return nil, err
	}
	var match *history.Record
	for _, rec := range recs {
		if strings.HasPrefix(rec.ID, id) {
			if match != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "ambiguous run id prefix: %q", id)
			}
			match = rec
		}
	}
	if match == nil {
		return nil, errors.New(errors.ErrCodeSimulationNotFound, "no simulation with id %q", id)
	}
	return match, nil
}

// =============================================================================
// History Command
// =============================================================================

// historyCommand creates the history command with list and render subcommands.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and re-render past simulation runs",
		Long: `List and re-render past simulation runs.

Every simulate run is recorded locally. Runs are addressed by their full
id or any unique prefix of it.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyRenderCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past simulation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newHistoryStore()
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(cmd.Context(), localSession, limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No simulations recorded yet")
				printDetail("Run one with: phylosim simulate Human Chimpanzee Gorilla")
				return nil
			}

			for _, rec := range recs {
				printKeyValue(rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.ID)
				printDetail("%s", strings.Join(rec.Options.Taxa, ", "))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")

	return cmd
}

func (c *CLI) historyRenderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		edgeLabels bool
		detailed   bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Re-render artifacts for a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newHistoryStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := findRecord(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			tree, err := phylo.FromDoc(rec.Tree)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			formats := parseFormats(formatsStr)
			artifacts, err := runner.Render(cmd.Context(), tree, pipeline.Options{
				Formats:    formats,
				EdgeLabels: edgeLabels,
				Detailed:   detailed,
				Logger:     c.Logger,
			})
			if err != nil {
				return err
			}

			return writeArtifacts(artifactWriteParams{
				artifacts: artifacts,
				formats:   formats,
				output:    output,
				base:      "run-" + rec.ID[:8],
			})
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), newick, json, dot, png, bar, heatmap, pie (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&edgeLabels, "edge-labels", false, "label edges with mutation values (dot, svg, png)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show detailed node information")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evoviz/phylosim/pkg/insight"
	"github.com/evoviz/phylosim/pkg/phylo"
	"github.com/evoviz/phylosim/pkg/phylo/stats"
)

// statsCommand creates the stats command for summarizing a saved tree.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [tree.json]",
		Short: "Summarize mutation statistics of a saved tree",
		Long: `Summarize mutation statistics of a saved tree.

Reads a tree previously written with 'simulate --format json' and prints
the min/max/mean mutation values, the deepest leaf, and the insight lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := phylo.ReadTreeFile(args[0])
			if err != nil {
				return fmt.Errorf("load tree %s: %w", args[0], err)
			}

			summary, err := stats.Summarize(tree)
			if err != nil {
				return err
			}
			ins, err := insight.FromTree(tree)
			if err != nil {
				return err
			}

			printNewline()
			fmt.Println(StyleTitle.Render("Divergence Summary"))
			printTreeStats(tree.NodeCount(), summary.LeafCount, 0, 0)
			printNewline()
			printKeyValue("Min mutation", formatValue(summary.MinMutation))
			printKeyValue("Max mutation", formatValue(summary.MaxMutation))
			printKeyValue("Mean mutation", formatValue(summary.MeanMutation))
			printKeyValue("Deepest leaf", summary.DeepestLeafID)
			printKeyValue("Max depth", strconv.Itoa(summary.MaxDepth))
			printNewline()
			fmt.Println(StyleTitle.Render("Insight"))
			fmt.Print(StyleDim.Render(ins.String()))
			return nil
		},
	}
}

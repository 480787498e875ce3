package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evoviz/phylosim/pkg/config"
	"github.com/evoviz/phylosim/pkg/pipeline"
)

// presetsCommand creates the presets command for listing and picking taxon
// presets from the config file.
func (c *CLI) presetsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List taxon presets from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			printNewline()
			fmt.Println(StyleTitle.Render("Presets"))
			for _, p := range cfg.Presets {
				printKeyValue(p.Name, strings.Join(p.Taxa, ", "))
				if p.Description != "" {
					printDetail("%s", p.Description)
				}
			}
			printNewline()
			printInfo("Run one with: phylosim simulate --preset <name>")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/phylosim/phylosim.toml)")
	cmd.AddCommand(c.presetsPickCommand(&configPath))

	return cmd
}

// presetsPickCommand creates the "presets pick" subcommand: an interactive
// picker that runs a simulation with the selected preset.
func (c *CLI) presetsPickCommand(configPath *string) *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Interactively pick a preset and simulate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			preset, err := pickPreset(cfg.Presets)
			if err != nil {
				return err
			}
			if preset == nil {
				printInfo("No preset selected")
				return nil
			}

			opts := pipeline.Options{
				Taxa:        preset.Taxa,
				Seed:        seed,
				MutationMin: pipeline.DefaultMutationMin,
				MutationMax: pipeline.DefaultMutationMax,
				Formats:     parseFormats(formatsStr),
			}
			applyConfigDefaults(&opts, cfg.Defaults)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runSimulate(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), newick, json, dot, png, bar, heatmap, pie (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

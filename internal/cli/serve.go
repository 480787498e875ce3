package cli

import (
	"github.com/spf13/cobra"

	"github.com/evoviz/phylosim/internal/server"
	"github.com/evoviz/phylosim/pkg/config"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation HTTP API",
		Long: `Run the simulation HTTP API.

The server exposes POST /api/simulate plus read endpoints over a session's
simulation history. Redis (artifact cache) and MongoDB (history) backends
are optional and configured via the config file; without them the server
uses in-process fallbacks suitable for local use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			srv, err := server.New(cmd.Context(), cfg.Server, c.Logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config, default :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/phylosim/phylosim.toml)")

	return cmd
}

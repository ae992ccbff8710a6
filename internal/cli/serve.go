package cli

import (
	"github.com/spf13/cobra"

	"github.com/netblend/netblend/internal/server"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		maxNeurons int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/layout                 body {"arch": [...], ...} -> scene JSON
  POST /v1/render?format=<fmt>    same body -> artifact

Layout and render defaults come from the [layout] and [render] tables of the
config file. Set [cache.redis] to share the cache between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}
			if noCache {
				printWarning("Caching disabled")
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := []server.Option{server.WithDefaults(cfg)}
			if cmd.Flags().Changed("max-neurons") {
				opts = append(opts, server.WithMaxNeurons(maxNeurons))
			}
			srv := server.New(runner, loggerFromContext(ctx), opts...)
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&maxNeurons, "max-neurons", 0, "refuse requests for larger networks (default from config, then pipeline default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

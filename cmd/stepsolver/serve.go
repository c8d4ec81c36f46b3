package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/stepsolver/internal/config"
	"github.com/njchilds90/stepsolver/internal/logging"
	"github.com/njchilds90/stepsolver/internal/server"
)

// useConfigAddr is the value of --http or --mcp-http given without an
// address; it selects server.http_addr.
const useConfigAddr = "config"

func serveCmd(a *app) *cobra.Command {
	var httpAddr, mcpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver as MCP tools or a JSON HTTP API",
		Long: `Serve exposes the solve and solve_rational tools over MCP on stdio.

--mcp-http serves the same tools over streamable HTTP instead. --http starts
the JSON API (POST /solve, POST /rational, GET /health, GET /schema).
Either flag accepts an address (--http=ADDR); without one
server.http_addr is used.

When a config file is in use it is watched: log level and rate limit
changes apply without a restart.`,
		Example: `  stepsolver serve
  stepsolver serve --http
  stepsolver serve --http=127.0.0.1:9000
  stepsolver serve --mcp-http=:8081`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := a.solver()

			switch {
			case httpAddr != "":
				api := server.NewAPI(s,
					server.WithLogger(slog.Default()),
					server.WithRateLimit(a.cfg.Server.RateLimit, a.cfg.Server.Burst))
				a.watchConfig(api)
				return server.ListenAndServe(ctx, a.addr(httpAddr), api.Handler())
			case mcpAddr != "":
				a.watchConfig(nil)
				return server.NewMCP(s).RunHTTP(ctx, a.addr(mcpAddr))
			}
			a.watchConfig(nil)
			slog.Debug("Serving MCP over stdio")
			return server.NewMCP(s).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve the JSON API on this address")
	cmd.Flags().StringVar(&mcpAddr, "mcp-http", "", "serve MCP over streamable HTTP on this address")
	cmd.Flags().Lookup("http").NoOptDefVal = useConfigAddr
	cmd.Flags().Lookup("mcp-http").NoOptDefVal = useConfigAddr
	cmd.MarkFlagsMutuallyExclusive("http", "mcp-http")
	return cmd
}

func (a *app) addr(flag string) string {
	if flag == useConfigAddr {
		return a.cfg.Server.HTTPAddr
	}
	return flag
}

// watchConfig applies log level and, when api is set, rate limit changes
// from the config file while serving.
func (a *app) watchConfig(api *server.API) {
	if a.v.ConfigFileUsed() == "" {
		return
	}
	config.Watch(a.v, func(cfg *config.Config) {
		if err := logging.SetLevel(cfg.Logging.Level); err != nil {
			slog.Warn("Ignoring log level from reloaded config", "error", err)
		}
		if api != nil {
			api.SetRateLimit(cfg.Server.RateLimit, cfg.Server.Burst)
		}
		slog.Info("Config reloaded", "file", a.v.ConfigFileUsed())
	}, func(err error) {
		slog.Warn("Config reload failed", "error", err)
	})
}

package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/platform"
	"github.com/mj1618/arrange/internal/server"
	"github.com/mj1618/arrange/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the layout session over MCP or REST",
	Long: `Start a server that keeps one layout session and exposes it to agents
and scripts. State is saved after every change, so CLI commands and the
server share it.

Supported transports:
  stdio             MCP over standard I/O (default, for MCP clients)
  streamable-http   MCP over streamable HTTP
  rest              JSON REST API (GET /state, POST /apply, GET /preview.png, ...)

Examples:
  arrange serve
  arrange serve --transport streamable-http --addr :8080
  arrange serve --transport rest --addr 127.0.0.1:7878 --cache-ttl 0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", server.TransportStdio, "Transport: stdio, streamable-http, rest")
	serveCmd.Flags().String("addr", ":8080", "Listen address for HTTP transports")
	serveCmd.Flags().Int("cache-ttl", 500, "Window list cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	addr, _ := cmd.Flags().GetString("addr")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	var cache *server.WindowCache
	e, err := openEnv(cmd, func(p *platform.Provider) {
		if p.Windows != nil {
			cache = server.NewWindowCache(p.Windows, time.Duration(cacheTTLMs)*time.Millisecond)
			p.Windows = cache
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer e.Close()

	srv := server.New(e.session, cache, server.Config{
		Transport: transport,
		Addr:      addr,
		Version:   version.Version,
		Logger:    e.log,
		Persist:   func(st arrange.State) error { return e.state.Save(st) },
	})

	ctx, stop := signal.NotifyContext(e.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}

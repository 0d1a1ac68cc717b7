// Command helpscout-mcp serves the Help Scout Docs knowledge base as MCP tools.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"helpscout-mcp/internal/config"
	"helpscout-mcp/internal/logging"
	"helpscout-mcp/internal/server"
)

// Version is set by ldflags during build.
var Version = "dev"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup, including the
// logger flush, happens before the process exits.
func run() int {
	cfg, err := config.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	log, sync, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer sync()

	log.Info("starting helpscout-mcp",
		"version", Version,
		"transport", cfg.Transport,
		"addr", cfg.Addr(),
		"timeout", cfg.Timeout)
	if cfg.Transport == config.TransportStreamableHTTP {
		log.Info("inbound requests are not authenticated; run behind a TLS-terminating proxy that enforces access control")
	}

	srv, err := server.New(cfg, server.WithLogger(log), server.WithVersion(Version))
	if err != nil {
		log.Error(err, "failed to create server")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Error(err, "server error")
		return 1
	}
	log.Info("server stopped")
	return 0
}

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hep-mcp/inspire-mcp/pkg/cache"
	"github.com/hep-mcp/inspire-mcp/pkg/cache/sqlite"
	"github.com/hep-mcp/inspire-mcp/pkg/config"
	"github.com/hep-mcp/inspire-mcp/pkg/inspire"
	"github.com/hep-mcp/inspire-mcp/pkg/mcp"
	"github.com/hep-mcp/inspire-mcp/pkg/ratelimit"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// stdout carries the protocol; everything else goes to stderr.
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: parseLogLevel(cfg.LogLevel),
			}))

			store := openStore(cfg, log)
			defer store.Close()

			fetcher := inspire.NewFetcher(
				cfg.APIBaseURL,
				cfg.APITimeout,
				cache.NewMemory(cfg.CacheTTL, cfg.CacheMaxSize),
				store,
				ratelimit.New(cfg.RequestsPerSecond),
				log,
			)
			client := inspire.NewClient(fetcher)
			srv := mcp.New(client, fetcher, version, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("inspire-mcp server starting",
				"api_base_url", cfg.APIBaseURL,
				"requests_per_second", cfg.RequestsPerSecond,
				"cache_persistent", cfg.CachePersistent)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to optional YAML config file")
	return cmd
}

// openStore returns the persistent store, degrading to the no-op store when
// the database cannot be opened. Persistence is an optimization, not a
// correctness requirement.
func openStore(cfg *config.Config, log *slog.Logger) cache.Store {
	if !cfg.CachePersistent {
		return cache.NewNoopStore()
	}
	store, err := sqlite.New(cfg.CacheDBPath, cfg.CacheTTL, cfg.CacheMaxSize)
	if err != nil {
		log.Warn("failed to open persistent cache, continuing in-memory only",
			"path", cfg.CacheDBPath, "error", err)
		return cache.NewNoopStore()
	}
	log.Info("persistent cache opened", "path", cfg.CacheDBPath)
	return store
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

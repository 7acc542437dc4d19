package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hep-mcp/inspire-mcp/pkg/cache/sqlite"
	"github.com/hep-mcp/inspire-mcp/pkg/config"
	"github.com/hep-mcp/inspire-mcp/pkg/mcp"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent response cache",
	}

	openCache := func() (*sqlite.Cache, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return sqlite.New(cfg.CacheDBPath, cfg.CacheTTL, cfg.CacheMaxSize)
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show persistent cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Print(mcp.FormatCacheStats(stats))
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear persistent cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.Clear(expiredOnly); err != nil {
				return err
			}
			if expiredOnly {
				fmt.Println("Expired cache entries cleared.")
			} else {
				fmt.Println("All cache entries cleared.")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to optional YAML config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

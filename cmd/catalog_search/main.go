// Package main provides the catalog search server and command-line tools.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mioding/catalog-search/config"
	"github.com/mioding/catalog-search/internal/logging"
)

var (
	// Global flags
	cfgFile string

	// Configuration and logger, set up before every command runs
	cfg    config.AppConfig
	logger zerolog.Logger
)

// newRootCmd builds the command tree. A fresh tree per run keeps flag state from leaking between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catalog-search",
		Short: "Product catalog search for building-material and plumbing products",
		Long: `catalog-search serves fuzzy, facet-aware search over a product catalog.

Use this tool to:
- Run the HTTP API (serve)
- Query the catalog from the shell (search, attributes, dialog)
- Bootstrap a SQL product store from a seed file (seed)

Configuration comes from defaults, an optional .env file, --config,
CATALOG_* environment variables and the flags below, in that order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger = logging.New(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: os.Stderr,
			})
			return nil
		},
	}

	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file path (yaml, toml or json)")
	flags.String("log-level", defaults.Logging.Level, "log level: debug, info, warn, error")
	flags.String("log-format", defaults.Logging.Format, "log format: json or console")
	flags.String("store-driver", defaults.Store.Driver, "product store: memory, bleve, sqlite, postgres")
	flags.String("store-dsn", "", "data source name for sqlite or postgres stores")
	flags.String("seed-file", "", "catalog file loaded into the store at startup")
	flags.String("cache-driver", defaults.Cache.Driver, "cache backend: memory or redis")
	flags.Duration("cache-ttl", defaults.Cache.TTL, "facet and attribute cache time to live")
	flags.String("redis-addr", defaults.Cache.Redis.Addr, "redis address for the redis cache backend")
	flags.String("segmenter", defaults.Search.Segmenter, "query segmenter: dictionary, bigram, lexicon")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newAttributesCmd())
	rootCmd.AddCommand(newDialogCmd())
	rootCmd.AddCommand(newSeedCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

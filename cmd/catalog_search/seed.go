package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mioding/catalog-search/store"
)

// newSeedCmd creates the seed subcommand.
func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Create the product table in a SQL store and load a catalog file into it",
		Long: `Seed bootstraps a sqlite or postgres product store from a JSON, YAML or TOML
catalog. Existing rows with the same id are updated in place.`,
		Example: `  catalog-search seed catalog.yaml --store-driver sqlite --store-dsn catalog.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			driver := cfg.Store.Driver
			if driver != store.DriverSQLite && driver != store.DriverPostgres {
				return fmt.Errorf("seed needs a sqlite or postgres store, got %q", driver)
			}

			products, err := store.LoadCatalog(args[0])
			if err != nil {
				return err
			}

			s, err := store.NewSQL(ctx, driver, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Load(ctx, products); err != nil {
				return err
			}

			logger.Info().Str("driver", driver).Str("file", args[0]).Int("products", len(products)).Msg("Catalog seeded")
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products into %s store\n", len(products), driver)
			return nil
		},
	}
	return cmd
}

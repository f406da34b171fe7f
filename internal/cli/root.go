// Package cli holds the opsdesk cobra commands.
package cli

import (
	"context"
	"fmt"

	"delivery-ops/internal/config"
	"delivery-ops/internal/store"
	"delivery-ops/internal/store/persist"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "opsdesk",
	Short: "Operations backend for a food-delivery kitchen",
	Long: `opsdesk serves the order pipeline used by kitchen, packaging, dispatch,
couriers and customer service, and keeps its state in a versioned snapshot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// openPersister connects the configured snapshot backend. The returned
// function releases it.
func openPersister(ctx context.Context, c *config.Config) (store.Persister, func(), error) {
	switch c.Storage.Backend {
	case config.BackendPostgres:
		pg, err := persist.OpenPostgres(ctx, c.Storage.DatabaseURL, c.Storage.Key)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.BackendRedis:
		rs, err := persist.OpenRedis(ctx, c.Storage.RedisAddr, c.Storage.Key)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		return persist.NewFileStore(c.Storage.FilePath), func() {}, nil
	}
}

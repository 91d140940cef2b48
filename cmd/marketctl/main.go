// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/marketplace-api/internal/config"
	"github.com/carterperez-dev/marketplace-api/internal/core"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Operator tooling for the marketplace API",
	Example: `  # Create signing keys and an administrator
  marketctl keys generate
  marketctl migrate
  marketctl create-admin --username root --password 's3cret-pass'

  # Publish products in bulk
  marketctl approve 5b0d... 9c1e...`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(pruneTokensCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openDatabase loads configuration, installs the configured logger and
// connects to PostgreSQL.
func openDatabase(ctx context.Context) (*core.Database, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(core.NewLogger(cfg.Log, os.Stderr))

	return core.NewDatabase(ctx, cfg.Database)
}

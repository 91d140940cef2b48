// AngelaMos | 2026
// tokens.go

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/marketplace-api/internal/auth"
)

var pruneGrace time.Duration

var pruneTokensCmd = &cobra.Command{
	Use:   "prune-tokens",
	Short: "Delete refresh tokens that expired before now minus --grace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits next

		repo := auth.NewRepository(db.DB)

		n, err := repo.DeleteExpired(cmd.Context(), time.Now().Add(-pruneGrace))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d refresh tokens\n", n)
		return nil
	},
}

func init() {
	pruneTokensCmd.Flags().DurationVar(&pruneGrace, "grace", 24*time.Hour, "keep tokens that expired within this window")
}

// AngelaMos | 2026
// keys.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/marketplace-api/internal/auth"
)

var (
	privateKeyPath string
	publicKeyPath  string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage JWT signing keys",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a new ES256 key pair as PEM files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, p := range []string{privateKeyPath, publicKeyPath} {
			if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
				return fmt.Errorf("create key directory: %w", err)
			}
		}

		if err := auth.GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privateKeyPath, publicKeyPath)
		return nil
	},
}

func init() {
	keysGenerateCmd.Flags().StringVar(&privateKeyPath, "private", "keys/private.pem", "private key output path")
	keysGenerateCmd.Flags().StringVar(&publicKeyPath, "public", "keys/public.pem", "public key output path")

	keysCmd.AddCommand(keysGenerateCmd)
}

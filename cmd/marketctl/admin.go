// AngelaMos | 2026
// admin.go

package main

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/marketplace-api/internal/business"
	"github.com/carterperez-dev/marketplace-api/internal/core"
	"github.com/carterperez-dev/marketplace-api/internal/product"
	"github.com/carterperez-dev/marketplace-api/internal/user"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
	adminBusiness string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user with the admin role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := user.CreateUserRequest{
			Username: adminUsername,
			Email:    adminEmail,
			Password: adminPassword,
		}
		if adminBusiness != "" {
			req.Business = &adminBusiness
		}

		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.Struct(req); err != nil {
			return errors.New(core.FormatValidationError(err))
		}

		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits next

		businesses := business.NewService(business.NewRepository(db.DB))
		users := user.NewService(user.NewRepository(db.DB), businesses)

		u, err := users.CreateAdmin(cmd.Context(), req)
		if err != nil {
			if errors.Is(err, core.ErrInvalidInput) {
				return errors.New(core.InputMessage(err))
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Username, u.ID)
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <product-id>...",
	Short: "Approve products regardless of their current status",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits next

		products := product.NewService(product.NewRepository(db.DB))

		n, err := products.ForceApprove(cmd.Context(), args)
		fmt.Fprintf(cmd.OutOrStdout(), "approved %d of %d products\n", n, len(args))
		return err
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "login name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password")
	createAdminCmd.Flags().StringVar(&adminBusiness, "business", "", "optional business id")

	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/entrypoint"
)

var adminUsername string

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the administrator account",
	Long: `Creates the single admin account. Fails once an admin exists.

The password is read from ADMIN_PASSWORD so it does not end up in shell history.

Example:
  ADMIN_PASSWORD=... capacity-backend create-admin --username owner`,
	Args: cobra.NoArgs,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "admin username")
	_ = createAdminCmd.MarkFlagRequired("username")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set")
	}
	cfg.Tasks.Enabled = false

	app, err := entrypoint.NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	admin, err := app.Auth.RegisterFirstAdmin(cmd.Context(), auth.Credentials{Username: adminUsername, Password: password})
	if err != nil {
		return err
	}
	id := admin.ID
	app.Audit.LogAuth(&id, "register", admin.Username, "", "cli", true)

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q (%s)\n", admin.Username, admin.ID)
	return nil
}

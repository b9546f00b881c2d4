package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vintegcorp/vintegcorp/auth"
	"github.com/vintegcorp/vintegcorp/internal/logging"
	"github.com/vintegcorp/vintegcorp/server"
	"github.com/vintegcorp/vintegcorp/storage/sqlite"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and the super admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path, err := c.GetDatabasePath()
			if err != nil {
				return err
			}
			logger := logging.New(c.GetEnv(), c.GetLogLevel())

			store, err := sqlite.Open(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close() // nolint:errcheck

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Schema up to date (%s)\n", path)

			password, err := server.SeedAdmin(cmd.Context(), store.Users(), auth.NewHasher(c.GetBcryptCost()),
				c.GetAdminEmail(), c.GetAdminPassword(), logger)
			if err != nil {
				return err
			}
			switch {
			case password == "":
				fmt.Fprintf(out, "👤 Super admin %s already exists\n", c.GetAdminEmail())
			case c.GetAdminPassword() == "":
				fmt.Fprintf(out, "👤 Super admin %s created with password: %s\n", c.GetAdminEmail(), password)
				fmt.Fprintln(out, "   ⚠️ Change it after the first login.")
			default:
				fmt.Fprintf(out, "👤 Super admin %s created with the configured password\n", c.GetAdminEmail())
			}
			return nil
		},
	}
}

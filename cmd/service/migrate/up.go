package migrate

import (
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Upgrades the database with migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromCmd(cmd)
		if err != nil {
			return err
		}

		return execute(cfg, migrate.Up)
	},
}

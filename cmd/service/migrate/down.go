package migrate

import (
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Downgrades the database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromCmd(cmd)
		if err != nil {
			return err
		}

		return execute(cfg, migrate.Down)
	},
}

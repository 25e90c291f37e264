package migrate

import (
	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/assets"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	dbconfig "github.com/Bridgeless-Project/stake-svc/internal/db/config"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

func init() {
	registerMigrateCommands(Cmd)
}

var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Command for running database migrations",
}

func registerMigrateCommands(cmd *cobra.Command) {
	cmd.AddCommand(upCmd, downCmd)
}

var migrations = &migrate.EmbedFileSystemMigrationSource{
	FileSystem: assets.Migrations,
	Root:       "migrations",
}

func configFromCmd(cmd *cobra.Command) (config.Config, error) {
	cfg, err := utils.ConfigFromFlags(cmd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config from flags")
	}
	if cfg.Backend() != dbconfig.BackendPostgres {
		return nil, errors.Errorf("migrations are not applicable to the %s backend", cfg.Backend())
	}

	return cfg, nil
}

func execute(cfg config.Config, direction migrate.MigrationDirection) error {
	applied, err := migrate.Exec(cfg.DB().RawDB(), "postgres", migrations, direction)
	if err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	cfg.Log().WithField("applied", applied).Info("migrations applied")

	return nil
}

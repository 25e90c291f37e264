package tx

import (
	"strconv"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func init() {
	registerTxCommands(Cmd)
}

var Cmd = &cobra.Command{
	Use:   "tx",
	Short: "Command for executing staking program instructions",
}

func registerTxCommands(cmd *cobra.Command) {
	cmd.AddCommand(
		initializeSignerCmd,
		initializeHoldingCmd,
		initializeLockedCmd,
		stakeCmd,
		unstakeCmd,
		statusCmd,
		accountsCmd,
	)
}

// withService runs f against a service bound to the configured storage and
// closes the storage afterwards.
func withService(cmd *cobra.Command, f func(cfg config.Config, service *staking.Service) error) error {
	cfg, err := utils.ConfigFromFlags(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to get config from flags")
	}
	defer func() {
		if err := cfg.CloseStorage(); err != nil {
			cfg.Log().WithError(err).Error("failed to close storage")
		}
	}()

	service, err := utils.NewService(cfg, prometheus.NewRegistry())
	if err != nil {
		return errors.Wrap(err, "failed to create staking service")
	}

	return f(cfg, service)
}

func parseAmount(raw string) (uint64, error) {
	amount, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid amount")
	}

	return amount, nil
}

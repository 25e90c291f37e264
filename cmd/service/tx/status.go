package tx

import (
	"fmt"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [user] [asset]",
	Short: "Prints the staking stage and locked balance of the user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := utils.PublicKeyArg(args[0], "user")
		if err != nil {
			return err
		}
		asset, err := utils.PublicKeyArg(args[1], "asset")
		if err != nil {
			return err
		}

		return withService(cmd, func(_ config.Config, service *staking.Service) error {
			info, err := service.Locked(user, asset)
			if err != nil && !errors.Is(err, staking.ErrLockedBalanceNotFound) {
				return errors.Wrap(err, "failed to get locked balance")
			}

			fmt.Println("Stage:", info.Stage.String())
			fmt.Println("Locked balance:", info.Address.String())
			if err == nil {
				fmt.Println("Amount:", info.Amount)
			}

			return nil
		})
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Lists the accounts owned by the staking program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(_ config.Config, service *staking.Service) error {
			accounts, err := service.Accounts()
			if err != nil {
				return errors.Wrap(err, "failed to list program accounts")
			}

			for _, acc := range accounts {
				fmt.Printf("%s lamports=%d size=%d\n", acc.Address.String(), acc.Lamports, len(acc.Data))
			}

			return nil
		})
	},
}

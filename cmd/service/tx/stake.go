package tx

import (
	"fmt"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var user string

func init() {
	for _, cmd := range []*cobra.Command{stakeCmd, unstakeCmd} {
		utils.RegisterKeypairFlag(cmd)
		cmd.Flags().StringVar(&user, "user", "", "User the instruction is executed for (defaults to the keypair owner)")
	}
}

type balanceCall func(service *staking.Service, caller, user, asset solana.PublicKey, amount uint64) (*staking.LockedInfo, error)

var stakeCmd = &cobra.Command{
	Use:   "stake [asset] [amount]",
	Short: "Moves tokens from the user holding into the vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBalanceCall(cmd, args, (*staking.Service).Stake)
	},
}

var unstakeCmd = &cobra.Command{
	Use:   "unstake [asset] [amount]",
	Short: "Releases tokens from the vault back to the user holding",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBalanceCall(cmd, args, (*staking.Service).Unstake)
	},
}

func runBalanceCall(cmd *cobra.Command, args []string, call balanceCall) error {
	asset, err := utils.PublicKeyArg(args[0], "asset")
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	key, err := utils.KeypairFromFlags(cmd)
	if err != nil {
		return err
	}

	caller := key.PublicKey()
	target := caller
	if user != "" {
		if target, err = utils.PublicKeyArg(user, "user"); err != nil {
			return err
		}
	}

	return withService(cmd, func(_ config.Config, service *staking.Service) error {
		info, err := call(service, caller, target, asset, amount)
		if err != nil {
			return errors.Wrapf(err, "failed to %s", cmd.Name())
		}

		fmt.Println("Locked balance:", info.Address.String())
		fmt.Println("Amount:", info.Amount)

		return nil
	})
}

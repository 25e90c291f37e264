package tx

import (
	"fmt"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	utils.RegisterKeypairFlag(initializeLockedCmd)
}

var initializeSignerCmd = &cobra.Command{
	Use:   "initialize-signer",
	Short: "Creates the vault signer account, paid by the operator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(cfg config.Config, service *staking.Service) error {
			payer, err := utils.Payer(cfg)
			if err != nil {
				return err
			}

			info, err := service.InitializeSigner(payer)
			if err != nil {
				return errors.Wrap(err, "failed to initialize signer")
			}

			fmt.Println("Vault signer:", info.Address.String())
			fmt.Println("Nonce:", info.Nonce)

			return nil
		})
	},
}

var initializeHoldingCmd = &cobra.Command{
	Use:   "initialize-holding [asset]",
	Short: "Creates the vault holding of the given asset, paid by the operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asset, err := utils.PublicKeyArg(args[0], "asset")
		if err != nil {
			return err
		}

		return withService(cmd, func(cfg config.Config, service *staking.Service) error {
			payer, err := utils.Payer(cfg)
			if err != nil {
				return err
			}

			address, err := service.InitializeHolding(payer, asset)
			if err != nil {
				return errors.Wrap(err, "failed to initialize vault holding")
			}

			fmt.Println("Vault holding:", address.String())

			return nil
		})
	},
}

var initializeLockedCmd = &cobra.Command{
	Use:   "initialize-locked [asset]",
	Short: "Creates the locked balance of the keypair owner for the given asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asset, err := utils.PublicKeyArg(args[0], "asset")
		if err != nil {
			return err
		}
		key, err := utils.KeypairFromFlags(cmd)
		if err != nil {
			return err
		}

		return withService(cmd, func(_ config.Config, service *staking.Service) error {
			info, err := service.InitializeLockedBalance(key.PublicKey(), asset)
			if err != nil {
				return errors.Wrap(err, "failed to initialize locked balance")
			}

			fmt.Println("Locked balance:", info.Address.String())

			return nil
		})
	},
}

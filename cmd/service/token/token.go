package token

import (
	"fmt"
	"strconv"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func init() {
	registerTokenCommands(Cmd)
}

var Cmd = &cobra.Command{
	Use:   "token",
	Short: "Command for managing devnet mints, holdings and lamports",
}

func registerTokenCommands(cmd *cobra.Command) {
	cmd.AddCommand(createMintCmd, createHoldingCmd, mintToCmd, airdropCmd)
}

var decimals uint8

func init() {
	createMintCmd.Flags().Uint8Var(&decimals, "decimals", 9, "Number of base 10 digits to the right of the decimal place")
}

var createMintCmd = &cobra.Command{
	Use:   "create-mint",
	Short: "Creates a new mint controlled by the mint authority from Vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(cfg config.Config, service *staking.Service) error {
			payer, err := utils.Payer(cfg)
			if err != nil {
				return err
			}
			authority, err := mintAuthority(cfg)
			if err != nil {
				return err
			}
			mint, err := solana.NewRandomPrivateKey()
			if err != nil {
				return errors.Wrap(err, "failed to generate mint account")
			}

			if err = service.CreateMint(payer, mint.PublicKey(), authority, decimals); err != nil {
				return errors.Wrap(err, "failed to create mint")
			}

			fmt.Println("Mint:", mint.PublicKey().String())
			fmt.Println("Decimals:", decimals)

			return nil
		})
	},
}

var createHoldingCmd = &cobra.Command{
	Use:   "create-holding [owner] [mint]",
	Short: "Creates the associated holding of the owner for the mint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := utils.PublicKeyArg(args[0], "owner")
		if err != nil {
			return err
		}
		mint, err := utils.PublicKeyArg(args[1], "mint")
		if err != nil {
			return err
		}

		return withService(cmd, func(cfg config.Config, service *staking.Service) error {
			payer, err := utils.Payer(cfg)
			if err != nil {
				return err
			}

			address, err := service.CreateHolding(payer, owner, mint)
			if err != nil {
				return errors.Wrap(err, "failed to create holding")
			}

			fmt.Println("Holding:", address.String())

			return nil
		})
	},
}

var mintToCmd = &cobra.Command{
	Use:   "mint-to [mint] [owner] [amount]",
	Short: "Issues tokens into the associated holding of the owner",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := utils.PublicKeyArg(args[0], "mint")
		if err != nil {
			return err
		}
		owner, err := utils.PublicKeyArg(args[1], "owner")
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid amount")
		}

		return withService(cmd, func(cfg config.Config, service *staking.Service) error {
			authority, err := mintAuthority(cfg)
			if err != nil {
				return err
			}

			info, err := service.MintTo(authority, mint, owner, amount)
			if err != nil {
				return errors.Wrap(err, "failed to mint tokens")
			}

			fmt.Println("Holding:", info.Address.String())
			fmt.Println("Amount:", info.Amount)

			return nil
		})
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop [address] [lamports]",
	Short: "Credits lamports to the given account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := utils.PublicKeyArg(args[0], "address")
		if err != nil {
			return err
		}
		lamports, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid lamports")
		}

		return withService(cmd, func(_ config.Config, service *staking.Service) error {
			balance, err := service.Airdrop(to, lamports)
			if err != nil {
				return errors.Wrap(err, "failed to airdrop")
			}

			fmt.Println("Balance:", balance)

			return nil
		})
	},
}

func mintAuthority(cfg config.Config) (solana.PublicKey, error) {
	key, err := cfg.SecretsStorage().GetMintAuthorityKey()
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "failed to get mint authority key from vault")
	}

	return key.PublicKey(), nil
}

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

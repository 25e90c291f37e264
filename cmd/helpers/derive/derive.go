package derive

import (
	"fmt"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/Bridgeless-Project/stake-svc/internal/token"
	"github.com/Bridgeless-Project/stake-svc/pkg/encoding"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	programID    string
	encodingName string
)

func init() {
	registerDeriveFlags(Cmd)
	registerDeriveCommands(Cmd)
}

func registerDeriveFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&programID, "program", "p", "", "Staking program id")
	cmd.PersistentFlags().StringVarP(&encodingName, "encoding", "e", "base58", "Address encoding: base58, hex, base64 or base64url")
	_ = cmd.MarkPersistentFlagRequired("program")
}

func registerDeriveCommands(cmd *cobra.Command) {
	cmd.AddCommand(signerCmd, lockedCmd, holdingCmd)
}

var Cmd = &cobra.Command{
	Use:   "derive",
	Short: "Command for deriving program addresses offline",
}

var signerCmd = &cobra.Command{
	Use:   "signer",
	Short: "Derives the vault signer address and its nonce",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		program, encoder, err := setup()
		if err != nil {
			return err
		}

		address, nonce, err := program.SignerAddress()
		if err != nil {
			return errors.Wrap(err, "failed to derive signer address")
		}

		fmt.Println("Vault signer:", encoder.Encode(address.Bytes()))
		fmt.Println("Nonce:", nonce)

		return nil
	},
}

var lockedCmd = &cobra.Command{
	Use:   "locked [user] [asset]",
	Short: "Derives the locked balance address of the user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, encoder, err := setup()
		if err != nil {
			return err
		}
		user, err := utils.PublicKeyArg(args[0], "user")
		if err != nil {
			return err
		}
		asset, err := utils.PublicKeyArg(args[1], "asset")
		if err != nil {
			return err
		}

		address, err := program.LockedAddress(user, asset)
		if err != nil {
			return errors.Wrap(err, "failed to derive locked balance address")
		}

		fmt.Println("Locked balance:", encoder.Encode(address.Bytes()))

		return nil
	},
}

var holdingCmd = &cobra.Command{
	Use:   "holding [owner] [asset]",
	Short: "Derives the associated holding address; the owner defaults to the vault signer",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, encoder, err := setup()
		if err != nil {
			return err
		}

		var address solana.PublicKey
		if len(args) == 1 {
			asset, err := utils.PublicKeyArg(args[0], "asset")
			if err != nil {
				return err
			}
			if address, err = program.VaultHoldingAddress(asset); err != nil {
				return errors.Wrap(err, "failed to derive vault holding address")
			}
		} else {
			owner, err := utils.PublicKeyArg(args[0], "owner")
			if err != nil {
				return err
			}
			asset, err := utils.PublicKeyArg(args[1], "asset")
			if err != nil {
				return err
			}
			if address, err = program.Token().HoldingAddress(owner, asset); err != nil {
				return errors.Wrap(err, "failed to derive holding address")
			}
		}

		fmt.Println("Holding:", encoder.Encode(address.Bytes()))

		return nil
	},
}

func setup() (*staking.Program, encoding.Encoder, error) {
	id, err := utils.PublicKeyArg(programID, "program id")
	if err != nil {
		return nil, nil, err
	}

	typ, err := encoding.ParseType(encodingName)
	if err != nil {
		return nil, nil, err
	}

	deriver := pda.Default()

	return staking.NewProgram(id, deriver, token.NewProgram(deriver)), encoding.GetEncoder(typ), nil
}

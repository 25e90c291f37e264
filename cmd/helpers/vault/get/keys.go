package get

import (
	"fmt"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/secrets"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var payerCmd = &cobra.Command{
	Use:   "payer",
	Short: "Prints the public key of the operator payer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printPublicKey(cmd, secrets.Storage.GetPayerKey)
	},
}

var mintAuthorityCmd = &cobra.Command{
	Use:   "mint-authority",
	Short: "Prints the public key of the devnet mint authority",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printPublicKey(cmd, secrets.Storage.GetMintAuthorityKey)
	},
}

func printPublicKey(cmd *cobra.Command, get func(secrets.Storage) (solana.PrivateKey, error)) error {
	config, err := utils.ConfigFromFlags(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to get config from flags")
	}

	key, err := get(config.SecretsStorage())
	if err != nil {
		return errors.Wrap(err, "failed to get key from vault")
	}

	fmt.Println("Public key:", key.PublicKey().String())

	return nil
}

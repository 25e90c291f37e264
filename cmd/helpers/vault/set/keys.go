package set

import (
	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/secrets"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var payerCmd = &cobra.Command{
	Use:   "payer [priv-key]",
	Short: "Stores the base58 private key of the operator payer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveKey(cmd, args[0], "payer", secrets.Storage.SavePayerKey)
	},
}

var mintAuthorityCmd = &cobra.Command{
	Use:   "mint-authority [priv-key]",
	Short: "Stores the base58 private key of the devnet mint authority",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveKey(cmd, args[0], "mint authority", secrets.Storage.SaveMintAuthorityKey)
	},
}

func saveKey(cmd *cobra.Command, raw, name string, save func(secrets.Storage, solana.PrivateKey) error) error {
	key, err := solana.PrivateKeyFromBase58(raw)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s key", name)
	}

	config, err := utils.ConfigFromFlags(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to get config from flags")
	}

	if err = save(config.SecretsStorage(), key); err != nil {
		return errors.Wrapf(err, "failed to save %s key to vault", name)
	}

	config.Log().WithField("public_key", key.PublicKey().String()).Infof("%s key was successfully saved", name)

	return nil
}

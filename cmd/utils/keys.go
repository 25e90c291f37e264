package utils

import (
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// KeypairFromFlags loads the signer keypair given with --keypair.
func KeypairFromFlags(cmd *cobra.Command) (solana.PrivateKey, error) {
	path, err := cmd.Flags().GetString(keypairFlag)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get keypair flag")
	}

	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load keypair from %s", path)
	}

	return key, nil
}

// Payer is the operator account funding rent, kept in Vault.
func Payer(cfg config.Config) (solana.PublicKey, error) {
	key, err := cfg.SecretsStorage().GetPayerKey()
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "failed to get payer key from vault")
	}

	return key.PublicKey(), nil
}

func PublicKeyArg(value, name string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "invalid %s", name)
	}

	return key, nil
}

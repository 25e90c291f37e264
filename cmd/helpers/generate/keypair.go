package generate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	roleUser          = "user"
	rolePayer         = "payer"
	roleMintAuthority = "mint-authority"
)

var role string

func init() {
	utils.RegisterOutputFlags(keypairCmd, "keypair.json")
	keypairCmd.Flags().StringVar(&role, "role", roleUser, "Vault slot for the key: payer or mint-authority (used when output type is 'vault')")
}

var keypairCmd = &cobra.Command{
	Use:   "keypair",
	Short: "Generates a new ed25519 keypair",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !utils.OutputValid() {
			return errors.New("invalid output type")
		}
		if utils.OutputType == utils.OutputVault && role != rolePayer && role != roleMintAuthority {
			return errors.Errorf("role %q can not be stored in vault", role)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return errors.Wrap(err, "failed to generate keypair")
		}

		fmt.Println("Public key:", key.PublicKey().String())

		return storeKeypair(cmd, key)
	},
}

func storeKeypair(cmd *cobra.Command, key solana.PrivateKey) error {
	switch utils.OutputType {
	case utils.OutputConsole:
		fmt.Println("Private key:", key.String())
	case utils.OutputFile:
		// solana-keygen layout: JSON array of the 64 key bytes
		raw, err := json.Marshal(toInts(key))
		if err != nil {
			return errors.Wrap(err, "failed to marshal keypair")
		}
		if err = os.WriteFile(utils.FilePath, raw, 0600); err != nil {
			return errors.Wrap(err, "failed to write keypair to file")
		}
		fmt.Println("Keypair saved to", utils.FilePath)
	case utils.OutputVault:
		config, err := utils.ConfigFromFlags(cmd)
		if err != nil {
			return errors.Wrap(err, "failed to get config from flags")
		}

		storage := config.SecretsStorage()
		if role == rolePayer {
			err = storage.SavePayerKey(key)
		} else {
			err = storage.SaveMintAuthorityKey(key)
		}
		if err != nil {
			return errors.Wrap(err, "failed to save keypair to vault")
		}

		config.Log().WithField("role", role).Info("keypair was successfully saved")
	}

	return nil
}

func toInts(key solana.PrivateKey) []int {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}

	return ints
}

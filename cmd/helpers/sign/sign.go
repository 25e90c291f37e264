package sign

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/api/auth"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ttl time.Duration

func init() {
	utils.RegisterKeypairFlag(Cmd)
	Cmd.Flags().DurationVar(&ttl, "ttl", time.Minute, "How long the signed request stays valid")
}

var Cmd = &cobra.Command{
	Use:       "sign [operation] [asset] [amount]",
	Short:     "Signs an API request with the user keypair",
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{staking.OpInitializeLocked, staking.OpStake, staking.OpUnstake},
	RunE: func(cmd *cobra.Command, args []string) error {
		op := args[0]
		if op != staking.OpInitializeLocked && op != staking.OpStake && op != staking.OpUnstake {
			return errors.Errorf("operation %q does not take a signed request", op)
		}
		asset, err := utils.PublicKeyArg(args[1], "asset")
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid amount")
		}
		key, err := utils.KeypairFromFlags(cmd)
		if err != nil {
			return err
		}

		expiresAt := time.Now().Add(ttl).Unix()
		signature, err := auth.Sign(key, op, asset, amount, expiresAt)
		if err != nil {
			return errors.Wrap(err, "failed to sign request")
		}

		fmt.Println("User:", key.PublicKey().String())
		fmt.Println("Expires at:", expiresAt)
		fmt.Println("Signature:", signature)

		return nil
	},
}

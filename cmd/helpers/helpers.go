package helpers

import (
	"github.com/Bridgeless-Project/stake-svc/cmd/helpers/derive"
	"github.com/Bridgeless-Project/stake-svc/cmd/helpers/generate"
	"github.com/Bridgeless-Project/stake-svc/cmd/helpers/sign"
	"github.com/Bridgeless-Project/stake-svc/cmd/helpers/vault"
	"github.com/spf13/cobra"
)

func init() {
	registerHelpersCommands(Cmd)
}

var Cmd = &cobra.Command{
	Use:   "helpers",
	Short: "Command for running helper operations",
}

func registerHelpersCommands(cmd *cobra.Command) {
	cmd.AddCommand(generate.Cmd, derive.Cmd, sign.Cmd, vault.Cmd)
}

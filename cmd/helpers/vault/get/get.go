package get

import "github.com/spf13/cobra"

func init() {
	registerGetCommands(Cmd)
}

var Cmd = &cobra.Command{
	Use:   "get",
	Short: "Command for getting sensitive data from Vault",
}

func registerGetCommands(cmd *cobra.Command) {
	cmd.AddCommand(payerCmd, mintAuthorityCmd)
}

package cmd

import (
	"os"

	"github.com/Bridgeless-Project/stake-svc/cmd/helpers"
	"github.com/Bridgeless-Project/stake-svc/cmd/service"
	"github.com/spf13/cobra"
)

func Execute() {
	root := &cobra.Command{
		Use:   "stake-svc",
		Short: "Staking vault service controlled by a program-derived signer",
	}

	root.AddCommand(service.Cmd, helpers.Cmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

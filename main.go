package main

import "github.com/Bridgeless-Project/stake-svc/cmd"

func main() {
	cmd.Execute()
}

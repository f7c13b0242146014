// Package main is the entry point for mqlectl, the milk ledger admin tool.
package main

import (
	"fmt"
	"os"

	"milkledger/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// ABOUTME: Entry point for the freelancehub CLI
// ABOUTME: Command-line and terminal client for the FreelanceHub marketplace

package main

import (
	"fmt"
	"os"

	"github.com/freelancehub/freelancehub-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

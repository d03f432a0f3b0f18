// Package main is offerctl, a command-line host for the offer filtering engine.
// It reads the same request document as POST /api/v1/offers/filter and prints the result.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

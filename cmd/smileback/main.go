// ABOUTME: Entry point for the smileback CLI
// ABOUTME: Executes the root command and maps failures to a non-zero exit code

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", withHint(err))
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clerkctl",
	Short: "Command-line client for a Clerk node",
}

func init() {
	rootCmd.PersistentFlags().String("addr", "127.0.0.1:7999", "Clerk node address")

	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(instanceCmd)
	rootCmd.AddCommand(applyCmd)
}

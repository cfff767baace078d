package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sozercan/impact-analyzer/internal/server"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Print the example situations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, ex := range server.Examples {
			fmt.Fprintln(cmd.OutOrStdout(), ex)
		}
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/store"
)

// minimalCmd represents the minimal command
var minimalCmd = &cobra.Command{
	Use:   "minimal",
	Short: "Print a one-line status of pending tasks",
	Long: `Print a one-line status with the number of pending tasks, suitable for a
shell prompt or a login message.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			return newPrinter(cmd).basic(st.SummarizeBasic())
		})
	},
}

func init() {
	rootCmd.AddCommand(minimalCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/store"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a new task for today",
	Long: `Add a new pending task. Multiple arguments are joined with spaces.

Examples:
  progress add "Buy groceries"
  progress add Review the release notes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := strings.Join(args, " ")

		return withStore(func(st *store.Store) error {
			id, err := st.AddTask(label)
			if err != nil {
				return err
			}

			task, _ := st.FindTask(id)
			return newPrinter(cmd).taskChange("added", task)
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

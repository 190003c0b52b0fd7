/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/model"
	"github.com/ssargent/progress/pkg/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the store",
	Long: `List tasks in store order.

Examples:
  progress list
  progress list --state pending
  progress list -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")
		if state != "all" && state != "pending" && state != "done" {
			return fmt.Errorf("unknown state %q (use all, pending or done)", state)
		}

		return withStore(func(st *store.Store) error {
			tasks := []model.Task{}
			for _, t := range st.Tasks() {
				if (state == "pending" && t.Done) || (state == "done" && !t.Done) {
					continue
				}
				tasks = append(tasks, t)
			}
			return newPrinter(cmd).tasks(tasks)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("state", "all", "Filter by state: all, pending or done")
}

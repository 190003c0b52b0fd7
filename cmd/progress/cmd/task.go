/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/model"
	"github.com/ssargent/progress/pkg/store"
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task <TSK-n> [check|uncheck|remove|rename <label>]",
	Short: "Show or change a single task",
	Long: `Show a task, or change it with one of the actions:

  check            mark the task as done
  uncheck          mark the task as not done (tasks created today only)
  remove           delete the task (tasks created today only)
  rename <label>   replace the label of a task that is not done

Examples:
  progress task TSK-1
  progress task TSK-1 check
  progress task tsk-2 rename "Buy more groceries"`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"check", "uncheck", "remove", "rename"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := model.ParseTaskRef(args[0])
		if err != nil {
			return err
		}

		return withStore(func(st *store.Store) error {
			if len(args) == 1 {
				task, found := st.FindTask(id)
				if !found {
					return fmt.Errorf("%s: %w", model.FormatTaskRef(id), store.ErrTaskNotFound)
				}
				return newPrinter(cmd).task(task)
			}

			return runTaskAction(cmd, st, id, args[1], args[2:])
		})
	},
}

// runTaskAction applies one mutation and persists the store
func runTaskAction(cmd *cobra.Command, st *store.Store, id uint32, action string, rest []string) error {
	if action != "rename" && len(rest) > 0 {
		return fmt.Errorf("unexpected arguments after %s: %s", action, strings.Join(rest, " "))
	}

	// removal drops the task, so keep a copy for the report
	before, _ := st.FindTask(id)

	var (
		err    error
		result string
	)
	switch action {
	case "check":
		result = "checked"
		err = st.ToggleCheck(id, true)
	case "uncheck":
		result = "unchecked"
		err = st.ToggleCheck(id, false)
	case "remove":
		result = "removed"
		err = st.RemoveTask(id)
	case "rename":
		label := strings.Join(rest, " ")
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("rename needs a label")
		}
		result = "renamed"
		err = st.RelabelTask(id, label)
	default:
		return fmt.Errorf("unknown task action %q (use check, uncheck, remove or rename)", action)
	}
	if err != nil {
		return err
	}

	if err := st.Save(); err != nil {
		return err
	}

	task, found := st.FindTask(id)
	if !found {
		task = before
	}
	return newPrinter(cmd).taskChange(result, task)
}

func init() {
	rootCmd.AddCommand(taskCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/storage"
)

var errHistoryDisabled = errors.New("history is disabled (set history.enabled: true in the config file)")

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived snapshots of the store file",
	Long: `When history is enabled every save keeps the previous store contents as a
snapshot. This command lists them, newest first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(archive *storage.Archive) error {
			snaps, err := archive.List()
			if err != nil {
				return err
			}
			return newPrinter(cmd).snapshots(snaps)
		})
	},
}

// historyRmCmd represents the history rm command
var historyRmCmd = &cobra.Command{
	Use:   "rm <snapshot-id>",
	Short: "Delete an archived snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(archive *storage.Archive) error {
			// Read first so unknown ids are reported instead of silently ignored
			if _, err := archive.Read(args[0]); err != nil {
				return err
			}
			if err := archive.Delete(args[0]); err != nil {
				return fmt.Errorf("failed to delete snapshot: %w", err)
			}
			cmd.Printf("Snapshot %s deleted\n", args[0])
			return nil
		})
	},
}

// withArchive opens the history archive for the duration of fn
func withArchive(fn func(archive *storage.Archive) error) error {
	if !container.Config().History.Enabled {
		return errHistoryDisabled
	}

	archive, err := container.OpenArchive()
	if err != nil {
		return err
	}
	return errors.Join(fn(archive), archive.Close())
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyRmCmd)
}

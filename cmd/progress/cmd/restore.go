/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/codec"
	"github.com/ssargent/progress/pkg/storage"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot-id>",
	Short: "Replace the store with an archived snapshot",
	Long: `Replace the store contents with a snapshot listed by 'progress history'.
The current contents are archived first, so a restore can itself be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		return withArchive(func(archive *storage.Archive) error {
			contents, err := archive.Read(id)
			if err != nil {
				return err
			}

			data, err := codec.NewTaskCodec().Decode(contents)
			if err != nil {
				return fmt.Errorf("snapshot %s cannot be restored: %w", id, err)
			}

			st, err := container.OpenStoreWithArchive(archive)
			if err != nil {
				return err
			}

			if err := st.Replace(data); err != nil {
				return fmt.Errorf("snapshot %s cannot be restored: %w", id, err)
			}

			cmd.Printf("Restored snapshot %s (%d tasks)\n", id, len(data.Tasks))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

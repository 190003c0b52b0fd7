/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file and create the store directory.

Examples:
  progress init
  progress init --root ~/notes/progress
  progress init --config ./progress.yaml --force`,
	Args: cobra.NoArgs,
	// the config file usually does not exist yet, so skip loading it
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := resolveConfigPath(cmd)
		rootDir, _ := cmd.Flags().GetString("root")
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, rootDir)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.RootDir, 0750); err != nil {
			return fmt.Errorf("failed to create root dir: %w", err)
		}

		cmd.Printf("✅ Configuration written to %s\n", configPath)
		cmd.Printf("Store file: %s\n", cfg.StorePath())
		cmd.Printf("\nAdd your first task with:\n  progress add \"Plan the day\"\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}

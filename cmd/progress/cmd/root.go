/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/config"
	"github.com/ssargent/progress/pkg/di"
	"github.com/ssargent/progress/pkg/store"
)

var container *di.Container

// SetContainer injects the dependency container used by all commands
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "progress",
	Short: "Progress - a personal daily task tracker",
	Long: `Progress keeps a small list of tasks in a plain text store file and reports
what is on for today, what was carried over from previous days and how much got done.

Run without a command to print the full summary.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.NoArgs,
	PersistentPreRunE: loadConfiguration,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			return newPrinter(cmd).summary(st.Summarize())
		})
	},
}

// withStore opens the store, runs fn and releases the history archive afterwards
func withStore(fn func(st *store.Store) error) error {
	st, closeStore, err := container.OpenStore()
	if err != nil {
		return err
	}
	return errors.Join(fn(st), closeStore())
}

// loadConfiguration resolves the config file and flag overrides and configures the container
func loadConfiguration(cmd *cobra.Command, args []string) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	format, _ := cmd.Flags().GetString("format")
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unknown output format %q (use table or json)", format)
	}

	configPath, explicit := resolveConfigPath(cmd)

	cfg := config.DefaultConfig()
	switch {
	case config.ConfigExists(configPath):
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	case explicit:
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if rootDir, _ := cmd.Flags().GetString("root"); rootDir != "" {
		cfg.RootDir = rootDir
	}

	return container.Configure(cfg)
}

// resolveConfigPath returns the --config value or the platform default
func resolveConfigPath(cmd *cobra.Command) (string, bool) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		return configPath, true
	}
	return config.GetDefaultConfigPath(), false
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/progress/config.yaml)")
	rootCmd.PersistentFlags().StringP("root", "r", "", "Directory holding the store file (overrides root_dir)")
	rootCmd.PersistentFlags().StringP("format", "o", formatTable, "Output format: table or json")
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mconfdb/mconf/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mconf configuration",
	Long: `Initialize an mconf configuration file with a generated obfuscation
secret and API key.

This command will:
- Create the configuration directory
- Generate a random obfuscation secret for the data file
- Generate a random API key for the REST server

Examples:
  mconf init
  mconf init --config ./mconf.yaml --data-file ./settings.mconf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataFile, _ := cmd.Flags().GetString("data-file")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			return fmt.Errorf("config already exists at %s, use --force to overwrite", configPath)
		}

		cfg, err := config.BootstrapConfig(configPath, dataFile)
		if err != nil {
			return fmt.Errorf("failed to bootstrap config: %w", err)
		}

		cmd.Printf("Configuration written to %s\n", configPath)
		cmd.Printf("Data file: %s\n", cfg.DataFile)
		cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		cmd.Printf("\nStart the server with:\n")
		cmd.Printf("  mconf serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("config", "", "Path for the configuration file (default: platform config dir)")
	initCmd.Flags().String("data-file", "", "Path for the backing data file")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mconfdb/mconf/pkg/api"
	"github.com/mconfdb/mconf/pkg/config"
	"github.com/mconfdb/mconf/pkg/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the mconf REST API server over the configured data file.

Settings come from the yaml configuration written by 'mconf init';
individual flags override it.

Examples:
  mconf serve
  mconf serve --config ./mconf.yaml --port 9200`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cmd.Flags().Changed("file") {
			cfg.DataFile, _ = cmd.Flags().GetString("file")
		}
		if cmd.Flags().Changed("secret") {
			cfg.Security.Secret, _ = cmd.Flags().GetString("secret")
		}

		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			return fmt.Errorf("an API key is required; run 'mconf init' or pass --api-key")
		}

		cs, err := store.Open(cfg.DataFile, cfg.Security.Secret)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer cs.Close()

		serverConfig := api.ServerConfig{
			Port:   cfg.Port,
			Bind:   cfg.Bind,
			APIKey: cfg.Security.APIKey,
		}
		return api.StartServer(cs, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("config", "", "Path to the configuration file")
	serveCmd.Flags().Int("port", 8080, "Port for the REST server")
	serveCmd.Flags().String("bind", "127.0.0.1", "Bind address for the REST server")
	serveCmd.Flags().String("api-key", "", "API key for client requests")
}

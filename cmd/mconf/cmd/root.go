/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mconfdb/mconf/pkg/store"
)

// activeStore is the store opened by the root pre-run. The post-run closes
// it, which flushes pending changes; a failed command skips the post-run, so
// Execute and the pre-run also sweep it up.
var activeStore *store.ConfigStore

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mconf",
	Short: "mconf - obfuscated flat-file config store",
	Long: `mconf keeps string key-value settings in a fixed-size binary file,
optionally obfuscated with a secret. Values are optional: a key can be
present with no value at all.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if activeStore != nil {
			_ = activeStore.Close()
			activeStore = nil
		}

		// init and serve manage their own store lifecycle.
		switch cmd.Name() {
		case "init", "serve":
			return nil
		}

		file, _ := cmd.Flags().GetString("file")
		secret, _ := cmd.Flags().GetString("secret")

		cs, err := store.Open(file, secret)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		activeStore = cs

		// Store in command context
		cmd.SetContext(context.WithValue(cmd.Context(), "store", cs))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeActiveStore()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if closeErr := closeActiveStore(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "./mconf.dat", "Backing data file")
	rootCmd.PersistentFlags().StringP("secret", "s", "", "Obfuscation secret (empty disables obfuscation)")
}

// closeActiveStore releases the store opened by the pre-run. Close saves if
// dirty, so mutations persist on every exit path.
func closeActiveStore() error {
	if activeStore == nil {
		return nil
	}
	err := activeStore.Close()
	activeStore = nil
	return err
}

// storeFromContext pulls the store opened by the root pre-run.
func storeFromContext(cmd *cobra.Command) (*store.ConfigStore, error) {
	cs, ok := cmd.Context().Value("store").(*store.ConfigStore)
	if !ok {
		return nil, fmt.Errorf("store not found in context")
	}
	return cs, nil
}

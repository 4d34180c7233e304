package cmd

import (
	"github.com/spf13/cobra"
)

// unsetCmd represents the unset command
var unsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a key",
	Long: `Remove a key from the store. Fails if the key is not present.

Example:
  mconf unset db.host`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		if err := cs.Remove(args[0]); err != nil {
			return err
		}

		cmd.Printf("Removed %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unsetCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

// rotateSecretCmd represents the rotate-secret command
var rotateSecretCmd = &cobra.Command{
	Use:   "rotate-secret <new-secret>",
	Short: "Re-obfuscate the store with a new secret",
	Long: `Replace the obfuscation secret and rewrite the data file under it.
The store must be opened with the current secret via --secret.

An empty new secret disables obfuscation.

Example:
  mconf rotate-secret newhunter2 --secret hunter2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		cs.SetSecret(args[0])
		if err := cs.Save(); err != nil {
			return err
		}

		cmd.Println("Secret rotated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rotateSecretCmd)
}

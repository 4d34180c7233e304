package cmd

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value for a key",
	Long: `Get the value for a key from the store.

A key stored without a value prints (null).

Example:
  mconf get db.host`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		value, err := cs.Get(args[0])
		if err != nil {
			return err
		}

		if value == nil {
			cmd.Println("(null)")
			return nil
		}
		cmd.Println(*value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

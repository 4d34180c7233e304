package cmd

import (
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all keys",
	Long: `List all keys in the store, one per line, in sorted order.

With --values each line also shows the value; keys stored without a
value show (null).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		withValues, _ := cmd.Flags().GetBool("values")
		for _, key := range cs.Keys() {
			if !withValues {
				cmd.Println(key)
				continue
			}
			value, _ := cs.TryGet(key)
			if value == nil {
				cmd.Printf("%s=(null)\n", key)
			} else {
				cmd.Printf("%s=%s\n", key, *value)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().Bool("values", false, "Show values next to keys")
}

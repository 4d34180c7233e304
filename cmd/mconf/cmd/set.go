package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mconfdb/mconf/pkg/store"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <key> [<value>]",
	Short: "Set a key to a value",
	Long: `Set a key to a value in the store. The change is persisted when the
command exits.

With --null the key is stored present but without a value, which is
distinct from removing it.

Examples:
  mconf set db.host localhost
  mconf set feature.enabled --null`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		null, _ := cmd.Flags().GetBool("null")
		var value *string
		switch {
		case null && len(args) > 1:
			return fmt.Errorf("--null cannot be combined with a value")
		case null:
			value = nil
		case len(args) == 2:
			value = store.String(args[1])
		default:
			return fmt.Errorf("a value is required unless --null is given")
		}

		if err := cs.Set(args[0], value); err != nil {
			return err
		}

		cmd.Printf("Set %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().Bool("null", false, "Store the key without a value")
}

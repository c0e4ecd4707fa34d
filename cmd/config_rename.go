package cmd

import (
	"fmt"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/spf13/cobra"
)

var configRenameCmd = &cobra.Command{
	Use:   "rename <old_label> <new_label>",
	Short: "Rename a language profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldLabel, newLabel := args[0], args[1]

		if err := config.RenameProfile(oldLabel, newLabel); err != nil {
			return err
		}
		fmt.Printf("Renamed profile %q to %q\n", oldLabel, newLabel)

		return nil
	},
}

func init() {
	configCmd.AddCommand(configRenameCmd)
}

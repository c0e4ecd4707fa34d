package cmd

import (
	"fmt"

	"github.com/brogergvhs/wikidict/internal/config"
	"github.com/brogergvhs/wikidict/internal/ui"

	"github.com/spf13/cobra"
)

var forceRemove bool

var configRemoveCmd = &cobra.Command{
	Use:   "remove <label>",
	Short: "Remove a language profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]
		active, _ := config.CurrentLabel()

		force := forceRemove
		if label == active && !force {
			ok, err := ui.Confirm(fmt.Sprintf("Profile %q is currently active. Remove it anyway", label))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
			force = true
		}

		if err := config.RemoveProfile(label, force); err != nil {
			return err
		}

		fmt.Printf("Removed profile %q\n", label)
		return nil
	},
}

func init() {
	configRemoveCmd.Flags().BoolVar(&forceRemove, "force", false, "remove the active profile without asking")
	configCmd.AddCommand(configRemoveCmd)
}

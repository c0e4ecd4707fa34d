package cmd

import (
	"fmt"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Switch to a different language profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string

		if len(args) == 1 {
			label = args[0]
		} else {
			list, err := config.ListProfiles()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no profiles available")
			}

			items := make([]string, 0, len(list))
			for _, p := range list {
				if p.Active {
					items = append(items, p.Label+"  (active)")
				} else {
					items = append(items, p.Label)
				}
			}

			prompt := promptui.Select{
				Label: "Select profile",
				Items: items,
			}

			idx, _, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("selection cancelled")
			}

			label = list[idx].Label
		}

		if err := config.SwitchProfile(label); err != nil {
			return err
		}

		fmt.Println("Switched to:", label)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}

package cmd

import (
	"fmt"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/spf13/cobra"
)

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the active profile to default values, keeping its language and databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		label, err := config.CurrentLabel()
		if err != nil {
			return err
		}

		path, err := config.ResetProfile(label)
		if err != nil {
			return err
		}

		fmt.Printf("Reset active profile: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/spf13/cobra"
)

const defaultProfile = "default"

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProfilePath(defaultProfile)

		if _, err := os.Stat(path); err == nil {
			fmt.Println("Configuration already exists at:")
			fmt.Println("  ", path)
			fmt.Println("Use `wikidict config reset` to recreate it.")
			return nil
		}

		fmt.Println("Configuration file will be saved at:")
		fmt.Println("  ", path)
		fmt.Println()

		fmt.Println("Default configuration:")
		config.DefaultConfig().Print()
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Create default profile at %s? [y/N]: ", path)
		resp, _ := reader.ReadString('\n')
		resp = strings.TrimSpace(strings.ToLower(resp))

		if resp != "y" && resp != "yes" {
			fmt.Println("Aborted.")
			return nil
		}

		if _, err := config.CreateProfile(defaultProfile, ""); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		if err := config.SwitchProfile(defaultProfile); err != nil {
			return fmt.Errorf("failed to set active profile: %w", err)
		}

		fmt.Println("Config created at:", path)
		fmt.Printf("This profile is now active (label: %s).\n", defaultProfile)

		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/spf13/cobra"
)

var configAddCmd = &cobra.Command{
	Use:   "add [label] [language]",
	Short: "Create a new language profile",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)
		ask := func(q string) string {
			fmt.Print(q)
			s, _ := reader.ReadString('\n')
			return strings.TrimSpace(s)
		}

		var label, language string
		if len(args) > 0 {
			label = args[0]
		} else {
			label = ask("Enter label for new profile: ")
		}
		if len(args) > 1 {
			language = args[1]
		} else {
			language = ask("Language section to collect (e.g. French): ")
		}

		if label == "" {
			return fmt.Errorf("label cannot be empty")
		}

		path, err := config.CreateProfile(label, language)
		if err != nil {
			return err
		}

		fmt.Printf("Created new profile: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configAddCmd)
}

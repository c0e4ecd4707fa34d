package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/spf13/cobra"
)

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all language profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := config.ListProfiles()
		if err != nil {
			return fmt.Errorf("cannot read profiles directory: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No profiles yet. Run `wikidict config init` or `wikidict config add`.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		_, _ = fmt.Fprintln(w, "LABEL\tLANGUAGE\tPATH\tACTIVE")

		for _, p := range list {
			language := "?"
			if cfg, err := config.LoadFile(p.Path, config.Options{}); err == nil {
				language = cfg.Language
			}

			activeMark := ""
			if p.Active {
				activeMark = "yes"
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Label, language, p.Path, activeMark)
		}

		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush table output: %v\n", err)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
}

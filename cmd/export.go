package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/brogergvhs/wikidict/internal/config"
	"github.com/brogergvhs/wikidict/internal/pipeline"
	"github.com/brogergvhs/wikidict/internal/store"
	"github.com/brogergvhs/wikidict/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagExportDictDB string
	flagExportOutput string
)

func init() {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the processed dictionary as JSON lines with Markdown definitions",
		RunE:  runExport,
	}

	exportCmd.Flags().StringVar(&flagExportDictDB, "dict-db", "", "dictionary database to read")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "-", "output file, - for stdout")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) (err error) {
	cfg, _, err := loadConfig(config.Options{DictDB: flagExportDictDB})
	if err != nil {
		return err
	}
	logSvc := ui.NewLogger(cfg.Debug)

	db, err := store.Open(cfg.DictDB)
	if err != nil {
		return err
	}
	defer closeOnExit(db, &err)

	var (
		w   io.Writer = os.Stdout
		out *os.File
	)
	if flagExportOutput != "-" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		w = f
		out = f
	}

	n, err := pipeline.Export(context.Background(), db, w)
	if out != nil {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	logSvc.Infof("Exported %d entries from %s", n, cfg.DictDB)
	return nil
}

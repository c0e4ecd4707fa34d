package cmd

import (
	"context"
	"fmt"

	"github.com/brogergvhs/wikidict/internal/config"
	"github.com/brogergvhs/wikidict/internal/conjugation"
	"github.com/brogergvhs/wikidict/internal/pipeline"
	"github.com/brogergvhs/wikidict/internal/section"
	"github.com/brogergvhs/wikidict/internal/store"
	"github.com/brogergvhs/wikidict/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagProcessRawDB    string
	flagProcessDictDB   string
	flagProcessLanguage string
	flagProcessWorkers  int
	flagRelocate        bool
)

func init() {
	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Clean the raw articles into dictionary entries and collect verb conjugations",
		RunE:  runProcess,
	}

	processCmd.Flags().StringVar(&flagProcessRawDB, "raw-db", "", "raw article database to read")
	processCmd.Flags().StringVar(&flagProcessDictDB, "dict-db", "", "dictionary database to write")
	processCmd.Flags().StringVar(&flagProcessLanguage, "language", "", "language section to keep (e.g. French)")
	processCmd.Flags().IntVar(&flagProcessWorkers, "workers", 0, "parallel article workers")
	processCmd.Flags().BoolVar(&flagRelocate, "relocate-back-sections", false, "move etymology, pronunciation, etc. to the end instead of dropping them")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) (err error) {
	cfg, usedPath, err := loadConfig(config.Options{
		Language:       flagProcessLanguage,
		RawDB:          flagProcessRawDB,
		DictDB:         flagProcessDictDB,
		ProcessWorkers: flagProcessWorkers,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("relocate-back-sections") {
		cfg.RelocateBackSections = flagRelocate
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config file: %s\n", usedPath)
	}

	fmt.Println("Full config:")
	cfg.Print()
	fmt.Println()

	layout, err := conjugation.LayoutFromRows(cfg.ConjugationRows)
	if err != nil {
		return err
	}

	ctx := context.Background()

	raw, err := store.Open(cfg.RawDB)
	if err != nil {
		return err
	}
	defer closeOnExit(raw, &err)

	dict, err := store.Open(cfg.DictDB)
	if err != nil {
		return err
	}
	defer closeOnExit(dict, &err)

	pm := ui.NewProgressManager()
	stats, err := pipeline.Process(ctx, raw, dict, pipeline.ProcessOptions{
		Workers:         cfg.ProcessWorkers,
		Language:        cfg.Language,
		ContentSelector: cfg.ContentSelector,
		Rules:           section.NewRules(cfg.Language, cfg.BackSections, cfg.RelocateBackSections),
		Layout:          layout,
		Progress:        pm,
		Log:             logSvc,
	})
	pm.Close()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Wrote %d entries and %d conjugations to %s\n", stats.Written, stats.Conjugations, cfg.DictDB)
	if stats.Failed > 0 {
		fmt.Printf("%d articles could not be parsed (see the log above)\n", stats.Failed)
	}

	return nil
}

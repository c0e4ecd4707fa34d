package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/brogergvhs/wikidict/internal/config"
	"github.com/brogergvhs/wikidict/internal/fetcher"
	"github.com/brogergvhs/wikidict/internal/pipeline"
	"github.com/brogergvhs/wikidict/internal/store"
	"github.com/brogergvhs/wikidict/internal/ui"
	"github.com/brogergvhs/wikidict/internal/util"
	"github.com/brogergvhs/wikidict/internal/wordlist"

	"github.com/spf13/cobra"
)

var (
	// selection
	flagDump         string
	flagLanguage     string
	flagLimit        int
	flagRange        string
	flagList         string
	flagRetryFailed  bool
	flagSkipExisting bool
	flagDryRun       bool

	// runtime
	flagRawDB       string
	flagWorkers     int
	flagMaxRounds   int
	flagInteractive bool

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func init() {
	crawlCmd := &cobra.Command{
		Use:   "crawl",
		Short: "Fetch the articles of every dump entry in the target language into the raw database",
		RunE:  runCrawl,
	}

	// selection
	crawlCmd.Flags().StringVar(&flagDump, "dump", "", "path to the Wiktionary pages-articles XML dump (.xml or .xml.bz2)")
	crawlCmd.Flags().StringVar(&flagLanguage, "language", "", "language section to collect (e.g. French)")
	crawlCmd.Flags().IntVar(&flagLimit, "limit", 0, "stop after this many dump entries (0 = all)")
	crawlCmd.Flags().StringVar(&flagRange, "range", "", "crawl a span of the word list by position (e.g. 1000-2000)")
	crawlCmd.Flags().StringVar(&flagList, "list", "", "crawl specific word list positions (e.g. 1,3,5)")
	crawlCmd.Flags().BoolVar(&flagRetryFailed, "retry-failed", false, "crawl only the keys abandoned by the previous run")
	crawlCmd.Flags().BoolVar(&flagSkipExisting, "skip-existing", false, "skip keys already in the raw database")
	crawlCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the keys that would be fetched, don’t fetch")

	// runtime
	crawlCmd.Flags().StringVar(&flagRawDB, "raw-db", "", "raw article database")
	crawlCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel fetch workers per round")
	crawlCmd.Flags().IntVar(&flagMaxRounds, "max-rounds", 0, "maximum number of rounds per key")
	crawlCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "ask before each retry round")

	// headers/auth
	crawlCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	crawlCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	crawlCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) (err error) {
	cfg, usedPath, err := loadConfig(config.Options{
		Dump:        flagDump,
		Language:    flagLanguage,
		Limit:       flagLimit,
		RawDB:       flagRawDB,
		Workers:     flagWorkers,
		MaxRounds:   flagMaxRounds,
		Interactive: flagInteractive,
		Cookie:      flagCookie,
		CookieFile:  flagCookieFile,
		UserAgent:   flagUserAgent,
	})
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config file: %s\n", usedPath)
	}

	fmt.Println("Full config:")
	cfg.Print()
	fmt.Println()

	ctx := context.Background()

	db, err := store.Open(cfg.RawDB)
	if err != nil {
		return err
	}
	defer closeOnExit(db, &err)

	keys, err := crawlKeys(ctx, cfg, db, logSvc)
	if err != nil {
		return err
	}

	if keys, err = wordlist.Select(keys, flagRange, flagList); err != nil {
		return err
	}

	if flagSkipExisting {
		before := len(keys)
		if keys, err = pipeline.Pending(ctx, keys, db); err != nil {
			return err
		}
		logSvc.Infof("Skipping %d keys already in %s", before-len(keys), cfg.RawDB)
	}

	if len(keys) == 0 {
		fmt.Println("Nothing to fetch.")
		return nil
	}

	if flagDryRun {
		fmt.Printf("Dry-run: %d keys selected.\n\n", len(keys))
		f := fetcher.New(nil, cfg.BaseURL, cfg.ContentSelector)
		for i, k := range keys {
			fmt.Printf("%6d) %s\n        %s\n", i+1, k, f.ArticleURL(k))
		}
		return nil
	}

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          cfg.FetchTimeout,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      logSvc,
	})
	if err != nil {
		return err
	}

	interrupt := util.SetupInterruptHandler(nil)
	defer interrupt.Stop()

	pm := ui.NewProgressManager()
	defer pm.Close()

	opts := pipeline.CrawlOptions{
		Workers:   cfg.Workers,
		MaxRounds: cfg.MaxRounds,
		Stopped:   interrupt.Requested,
		Progress:  pm,
		Log:       logSvc,
	}
	if cfg.Interactive {
		opts.Continue = func(round int, failed []string) bool {
			ok, err := ui.Confirm(fmt.Sprintf("%d keys still failing after round %d. Run another round", len(failed), round))
			if err != nil {
				logSvc.Errorf("%v", err)
				return false
			}
			return ok
		}
	}

	logSvc.Infof("Fetching %d articles using %d workers", len(keys), cfg.Workers)
	run, err := pipeline.Crawl(ctx, keys, fetcher.New(client, cfg.BaseURL, cfg.ContentSelector), db, opts)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Stored %d/%d articles in %s (run %s)\n", run.Fetched, run.Keys, cfg.RawDB, run.ID)
	if len(run.Abandoned) > 0 {
		fmt.Printf("Abandoned %d keys: %s\n", len(run.Abandoned), strings.Join(run.Abandoned, ", "))
		fmt.Println("Run `wikidict crawl --retry-failed` to try them again.")
	}

	return nil
}

func crawlKeys(ctx context.Context, cfg *config.Config, db *store.Store, log *ui.Logger) ([]string, error) {
	if flagRetryFailed {
		last, ok, err := db.LastRun(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no previous crawl recorded in %s", cfg.RawDB)
		}
		log.Infof("Retrying %d keys abandoned by run %s", len(last.Abandoned), last.ID)
		return last.Abandoned, nil
	}

	if cfg.Dump == "" {
		return nil, fmt.Errorf("missing --dump and no dump in config")
	}

	log.Infof("Parsing %s for %s entries", cfg.Dump, cfg.LanguageMarker())
	keys, stats, err := wordlist.Extract(cfg.Dump, wordlist.Options{
		Marker: cfg.LanguageMarker(),
		Limit:  cfg.Limit,
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Parsing completed: %d pages, %d candidates, %d namespaced titles skipped",
		stats.Pages, stats.Candidates, stats.Namespaced)
	return keys, nil
}

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brogergvhs/wikidict/internal/crawler"
	"github.com/brogergvhs/wikidict/internal/store"
	"github.com/brogergvhs/wikidict/internal/ui"
)

type CrawlOptions struct {
	Workers   int
	MaxRounds int

	// Continue is asked after every round that left failures. Nil runs
	// unattended up to MaxRounds.
	Continue func(round int, failed []string) bool
	// Stopped is polled between rounds; true ends the crawl.
	Stopped func() bool

	Progress *ui.MPBProgressManager
	Log      Logger
}

// Crawl fetches keys into the raw table of db and records the run there.
// The run is recorded even when a storage error cut it short, as far as
// the database still accepts writes.
func Crawl(ctx context.Context, keys []string, f crawler.Fetcher, db *store.Store, opts CrawlOptions) (store.Run, error) {
	log := orNop(opts.Log)
	stats := &ui.Stats{}
	finish := func() {}

	orch := crawler.New(f, db.Raw(), stats, log, crawler.Options{
		Workers:   opts.Workers,
		MaxRounds: opts.MaxRounds,
		OnRoundStart: func(round, n int) {
			log.Infof("Executing round %d: %d keys", round, n)
			stats.Reset()
			finish = bar(opts.Progress, fmt.Sprintf("Round %d", round), n, stats)
		},
		OnRoundEnd: func(round int, res crawler.RoundResult) {
			finish()
			log.Infof("Round %d done in %s: %d stored, %d failed",
				round, res.Duration.Round(time.Millisecond), res.Stored, len(res.Failed))
			if len(res.Failed) > 0 {
				log.Infof("Still failing: %s", strings.Join(res.Failed, ", "))
			}
		},
		Continue: func(round int, failed []string) bool {
			if opts.Stopped != nil && opts.Stopped() {
				log.Warnf("Interrupted after round %d, %d keys left", round, len(failed))
				return false
			}
			if opts.Continue != nil {
				return opts.Continue(round, failed)
			}
			return true
		},
	})

	start := time.Now()
	res, runErr := orch.Run(ctx, keys)

	run := store.Run{
		StartedAt:  start,
		FinishedAt: time.Now(),
		Rounds:     res.Rounds,
		Keys:       res.Keys,
		Fetched:    res.Stored,
		Abandoned:  res.Abandoned,
	}

	id, err := db.RecordRun(ctx, run)
	run.ID = id
	if runErr != nil {
		return run, runErr
	}
	if err != nil {
		return run, err
	}

	log.Infof("Crawl %s: %d/%d stored in %d rounds, %d abandoned",
		id, res.Stored, res.Keys, res.Rounds, len(res.Abandoned))
	return run, nil
}

// Pending drops keys that already have a raw article in db.
func Pending(ctx context.Context, keys []string, db *store.Store) ([]string, error) {
	have, err := db.Raw().Names(ctx)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]struct{}, len(have))
	for _, k := range have {
		stored[k] = struct{}{}
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := stored[k]; !ok {
			out = append(out, k)
		}
	}
	return out, nil
}

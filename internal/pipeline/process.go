package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brogergvhs/wikidict/internal/conjugation"
	"github.com/brogergvhs/wikidict/internal/section"
	"github.com/brogergvhs/wikidict/internal/store"
	"github.com/brogergvhs/wikidict/internal/ui"
)

type ProcessOptions struct {
	Workers         int
	Language        string
	ContentSelector string
	Rules           section.Rules
	Layout          conjugation.Layout

	Progress *ui.MPBProgressManager
	Log      Logger
}

type ProcessStats struct {
	Entries int
	Written int
	// Missing counts articles without a section for the language.
	Missing int
	// Failed counts articles that could not be parsed.
	Failed       int
	Conjugations int
	Duration     time.Duration
}

// Process cleans every raw article of raw into the words table of dict and
// writes the collected conjugations at the end. Per-article parse problems
// are logged and counted; storage errors and unknown conjugation
// coordinates stop the run.
func Process(ctx context.Context, raw, dict *store.Store, opts ProcessOptions) (ProcessStats, error) {
	log := orNop(opts.Log)
	start := time.Now()

	total, err := raw.Raw().Count(ctx)
	if err != nil {
		return ProcessStats{}, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	ext := conjugation.NewExtractor(opts.Layout, log)
	r := &refiner{notice: opts.Language + " Wikipedia has an article", ext: ext, log: log}
	words := dict.Words()

	stats := &ui.Stats{}
	finish := bar(opts.Progress, "Processing", total, stats)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		res   = ProcessStats{Entries: total}
		fatal error
	)
	fail := func(err error) {
		mu.Lock()
		if fatal == nil {
			fatal = err
		}
		mu.Unlock()
		cancel()
	}

	jobs := make(chan store.Entry)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for e := range jobs {
			out, found, err := processEntry(e, opts, r)
			switch {
			case errors.Is(err, section.ErrParse):
				log.Warnf("%s: %v", e.Name, err)
				mu.Lock()
				res.Failed++
				mu.Unlock()
				stats.AddFailed(1)
				continue
			case err != nil:
				fail(err)
				continue
			case !found:
				log.Debugf("%s: no %s section", e.Name, opts.Rules.Target)
				mu.Lock()
				res.Missing++
				mu.Unlock()
				stats.AddDone(1)
				continue
			}

			if err := words.PutString(ctx, e.Name, out); err != nil {
				fail(err)
				continue
			}

			mu.Lock()
			res.Written++
			mu.Unlock()
			stats.AddDone(1)
			stats.AddBytes(int64(len(out)))
		}
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go worker()
	}

	scanErr := raw.Raw().Scan(ctx, func(e store.Entry) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case jobs <- e:
			return nil
		}
	})

	close(jobs)
	wg.Wait()
	finish()

	res.Duration = time.Since(start)
	if fatal != nil {
		return res, fatal
	}
	if scanErr != nil {
		return res, scanErr
	}

	rows := ext.Rows()
	log.Infof("Saving %d conjugations", len(rows))
	if err := dict.PutConjugations(ctx, rows); err != nil {
		return res, err
	}
	res.Conjugations = len(rows)
	res.Duration = time.Since(start)

	log.Infof("Processed %d articles in %s: %d written, %d without %s, %d failed",
		res.Entries, res.Duration.Round(time.Millisecond), res.Written, res.Missing, opts.Rules.Target, res.Failed)
	return res, nil
}

// processEntry returns the rendered entry and whether the article had the
// target section at all.
func processEntry(e store.Entry, opts ProcessOptions, r *refiner) (string, bool, error) {
	res, err := section.Document([]byte(e.Definition), opts.ContentSelector, opts.Rules)
	if err != nil {
		return "", false, err
	}
	if !res.Found {
		return "", false, nil
	}

	// Deferred blocks that are dropped may still hold the conjugation table.
	if !opts.Rules.Relocate {
		if _, err := r.refine(e.Name, res.Deferred); err != nil {
			return "", true, err
		}
	}

	kept, err := r.refine(e.Name, res.Blocks)
	if err != nil {
		return "", true, err
	}
	if len(kept) == 0 {
		return "", false, nil
	}

	out, err := section.Render(kept)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}

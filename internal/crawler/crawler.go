// Package crawler fetches a list of keys with a fixed number of workers and
// resubmits failures in bounded rounds.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrStorage wraps sink failures. A storage error ends the run after the
// current round: losing writes silently is worse than stopping.
var ErrStorage = errors.New("storage error")

type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type Sink interface {
	Put(ctx context.Context, key string, body []byte) error
}

// Counters is read by progress reporters while a round is running.
type Counters interface {
	AddDone(n int64)
	AddFailed(n int64)
	AddBytes(n int64)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type Options struct {
	Workers   int
	MaxRounds int

	// OnRoundStart is called before each round with the number of keys in it.
	OnRoundStart func(round, keys int)
	// OnRoundEnd is called after each round, before Continue.
	OnRoundEnd func(round int, res RoundResult)
	// Continue decides whether another round runs for the keys still
	// failing. Nil means "always continue until MaxRounds".
	Continue func(round int, failed []string) bool
}

type Orchestrator struct {
	fetcher  Fetcher
	sink     Sink
	counters Counters
	log      Logger
	opts     Options
}

func New(f Fetcher, s Sink, c Counters, log Logger, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxRounds < 1 {
		opts.MaxRounds = 1
	}
	if c == nil {
		c = nopCounters{}
	}
	if log == nil {
		log = nopLogger{}
	}

	return &Orchestrator{
		fetcher:  f,
		sink:     s,
		counters: c,
		log:      log,
		opts:     opts,
	}
}

type RoundResult struct {
	Attempted int
	Stored    int
	Failed    []string
	Duration  time.Duration
}

type RunStats struct {
	Keys      int
	Rounds    int
	Stored    int
	Bytes     int64
	Abandoned []string
	// Declined is true when Continue stopped the run before MaxRounds.
	Declined bool
	Duration time.Duration
}

// Run fetches and stores every key. Keys still failing after MaxRounds
// attempts, or when Continue declines, are returned in Abandoned. A sink
// failure aborts the run once the current round has drained.
func (o *Orchestrator) Run(ctx context.Context, keys []string) (RunStats, error) {
	start := time.Now()
	stats := RunStats{Keys: len(keys)}

	pending := keys
	for len(pending) > 0 && stats.Rounds < o.opts.MaxRounds {
		stats.Rounds++
		if o.opts.OnRoundStart != nil {
			o.opts.OnRoundStart(stats.Rounds, len(pending))
		}

		res, bytes, err := o.round(ctx, pending)
		stats.Stored += res.Stored
		stats.Bytes += bytes
		if o.opts.OnRoundEnd != nil {
			o.opts.OnRoundEnd(stats.Rounds, res)
		}
		if err != nil {
			stats.Abandoned = res.Failed
			stats.Duration = time.Since(start)
			return stats, err
		}

		pending = res.Failed
		if len(pending) == 0 || stats.Rounds == o.opts.MaxRounds {
			break
		}
		if o.opts.Continue != nil && !o.opts.Continue(stats.Rounds, pending) {
			stats.Declined = true
			break
		}
	}

	stats.Abandoned = pending
	stats.Duration = time.Since(start)
	return stats, nil
}

// round runs one pass over keys. Workers are started fresh and all of them
// finish before round returns, even when one hit a storage error.
func (o *Orchestrator) round(ctx context.Context, keys []string) (RoundResult, int64, error) {
	start := time.Now()
	parts := Partition(keys, o.opts.Workers)

	acc := &accumulator{}
	var g errgroup.Group

	for _, part := range parts {
		g.Go(func() error {
			for i, key := range part {
				body, err := o.fetcher.Fetch(ctx, key)
				if err != nil {
					o.log.Debugf("fetch %q failed: %v", key, err)
					acc.fail(key)
					o.counters.AddFailed(1)
					continue
				}

				if err := o.sink.Put(ctx, key, body); err != nil {
					// This key and the rest of the chunk were not stored.
					acc.fail(part[i:]...)
					return fmt.Errorf("%w: %s: %w", ErrStorage, key, err)
				}

				acc.stored(int64(len(body)))
				o.counters.AddDone(1)
				o.counters.AddBytes(int64(len(body)))
			}
			return nil
		})
	}

	err := g.Wait()
	failed, stored, bytes := acc.result()
	return RoundResult{
		Attempted: len(keys),
		Stored:    stored,
		Failed:    failed,
		Duration:  time.Since(start),
	}, bytes, err
}

type accumulator struct {
	mu     sync.Mutex
	failed []string
	count  int
	bytes  int64
}

func (a *accumulator) fail(keys ...string) {
	a.mu.Lock()
	a.failed = append(a.failed, keys...)
	a.mu.Unlock()
}

func (a *accumulator) stored(n int64) {
	a.mu.Lock()
	a.count++
	a.bytes += n
	a.mu.Unlock()
}

func (a *accumulator) result() ([]string, int, int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failed, a.count, a.bytes
}

type nopCounters struct{}

func (nopCounters) AddDone(int64)   {}
func (nopCounters) AddFailed(int64) {}
func (nopCounters) AddBytes(int64)  {}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}

package crawler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyFetcher fails every key until it has been asked failUntil[key] times.
type flakyFetcher struct {
	mu        sync.Mutex
	attempts  map[string]int
	failUntil map[string]int
}

func newFlakyFetcher(failUntil map[string]int) *flakyFetcher {
	return &flakyFetcher{attempts: map[string]int{}, failUntil: failUntil}
}

func (f *flakyFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[key]++
	if f.attempts[key] <= f.failUntil[key] {
		return nil, errors.New("connection reset")
	}
	return []byte("<p>" + key + "</p>"), nil
}

func (f *flakyFetcher) attemptsFor(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[key]
}

var errDiskFull = errors.New("disk full")

type memSink struct {
	mu     sync.Mutex
	data   map[string]string
	puts   int
	failOn string
}

func newMemSink() *memSink { return &memSink{data: map[string]string{}} }

func (s *memSink) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.failOn {
		return errDiskFull
	}
	s.puts++
	s.data[key] = string(body)
	return nil
}

type countingStats struct {
	mu                  sync.Mutex
	done, failed, bytes int64
}

func (c *countingStats) AddDone(n int64)   { c.mu.Lock(); c.done += n; c.mu.Unlock() }
func (c *countingStats) AddFailed(n int64) { c.mu.Lock(); c.failed += n; c.mu.Unlock() }
func (c *countingStats) AddBytes(n int64)  { c.mu.Lock(); c.bytes += n; c.mu.Unlock() }

func TestRunStoresEveryKey(t *testing.T) {
	keys := makeKeys(25)
	f := newFlakyFetcher(nil)
	sink := newMemSink()
	counters := &countingStats{}

	o := New(f, sink, counters, nil, Options{Workers: 4, MaxRounds: 3})
	stats, err := o.Run(context.Background(), keys)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 25, stats.Stored)
	assert.Empty(t, stats.Abandoned)
	assert.Len(t, sink.data, 25)
	assert.Equal(t, "<p>k007</p>", sink.data["k007"])
	assert.Equal(t, int64(25), counters.done)
	assert.Equal(t, stats.Bytes, counters.bytes)
}

func TestRunConvergesWithinAttemptBudget(t *testing.T) {
	keys := makeKeys(12)
	failUntil := map[string]int{"k001": 1, "k005": 2, "k011": 2, "k004": 1}
	f := newFlakyFetcher(failUntil)
	sink := newMemSink()

	var roundSizes []int
	o := New(f, sink, nil, nil, Options{
		Workers:   3,
		MaxRounds: 3,
		OnRoundStart: func(_ int, n int) {
			roundSizes = append(roundSizes, n)
		},
	})

	stats, err := o.Run(context.Background(), keys)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Rounds)
	assert.Empty(t, stats.Abandoned)
	assert.Equal(t, []int{12, 4, 2}, roundSizes)
	assert.Len(t, sink.data, 12)
	assert.Equal(t, 3, f.attemptsFor("k005"))
	assert.Equal(t, 1, f.attemptsFor("k000"))
}

func TestRunAbandonsAfterMaxRounds(t *testing.T) {
	keys := makeKeys(5)
	f := newFlakyFetcher(map[string]int{"k002": 100, "k003": 100})
	sink := newMemSink()

	o := New(f, sink, nil, nil, Options{Workers: 2, MaxRounds: 4})
	stats, err := o.Run(context.Background(), keys)
	require.NoError(t, err)

	sort.Strings(stats.Abandoned)
	assert.Equal(t, []string{"k002", "k003"}, stats.Abandoned)
	assert.Equal(t, 4, stats.Rounds)
	assert.False(t, stats.Declined)
	assert.Equal(t, 4, f.attemptsFor("k002"), "a key is attempted at most MaxRounds times")
	assert.Equal(t, 3, stats.Stored)
}

func TestRunContinueDeclined(t *testing.T) {
	keys := makeKeys(6)
	f := newFlakyFetcher(map[string]int{"k000": 5})

	var asked [][]string
	o := New(f, newMemSink(), nil, nil, Options{
		Workers:   2,
		MaxRounds: 10,
		Continue: func(round int, failed []string) bool {
			asked = append(asked, append([]string(nil), failed...))
			return round < 2
		},
	})

	stats, err := o.Run(context.Background(), keys)
	require.NoError(t, err)

	assert.True(t, stats.Declined)
	assert.Equal(t, 2, stats.Rounds)
	assert.Equal(t, []string{"k000"}, stats.Abandoned)
	assert.Equal(t, [][]string{{"k000"}, {"k000"}}, asked)
}

func TestRunStorageErrorAbortsAfterRound(t *testing.T) {
	keys := makeKeys(8)
	f := newFlakyFetcher(map[string]int{"k006": 1})
	sink := newMemSink()
	sink.failOn = "k001"

	var ended []RoundResult
	o := New(f, sink, nil, nil, Options{
		Workers:   2,
		MaxRounds: 5,
		OnRoundEnd: func(_ int, res RoundResult) { ended = append(ended, res) },
	})

	stats, err := o.Run(context.Background(), keys)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, 1, stats.Rounds)
	require.Len(t, ended, 1)
	// The second chunk ran to completion while the first stopped at k001.
	assert.Equal(t, 4, ended[0].Stored)
	sort.Strings(stats.Abandoned)
	assert.Equal(t, []string{"k001", "k002", "k003", "k006"}, stats.Abandoned)
	assert.Contains(t, sink.data, "k000")
	assert.NotContains(t, sink.data, "k002")
}

func TestRunEmptyInput(t *testing.T) {
	o := New(newFlakyFetcher(nil), newMemSink(), nil, nil, Options{Workers: 4, MaxRounds: 2})
	stats, err := o.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rounds)
	assert.Empty(t, stats.Abandoned)
}

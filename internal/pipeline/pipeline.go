// Package pipeline wires the word list, crawler, classifier and
// conjugation extractor into the crawl, process and export phases.
package pipeline

import (
	"time"

	"github.com/brogergvhs/wikidict/internal/ui"
)

// ProgressInterval is how often progress bars read the shared counters.
const ProgressInterval = 500 * time.Millisecond

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func orNop(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}

// bar registers a progress bar watching stats, or does nothing when pm is
// nil. The returned function stops the watcher and finalises the bar.
func bar(pm *ui.MPBProgressManager, prefix string, total int, stats *ui.Stats) func() {
	if pm == nil {
		return func() {}
	}

	h := pm.Register(prefix)
	h.SetTotal(total)
	stop := h.Watch(stats, ProgressInterval)
	return func() {
		stop()
		h.MarkDone()
	}
}

package ui

import "sync/atomic"

// Stats is shared by workers and read by progress reporters. It carries
// no correctness invariant.
type Stats struct {
	Done   atomic.Int64
	Failed atomic.Int64
	Bytes  atomic.Int64
}

func (s *Stats) Reset() {
	s.Done.Store(0)
	s.Failed.Store(0)
	s.Bytes.Store(0)
}

func (s *Stats) AddDone(n int64)   { s.Done.Add(n) }
func (s *Stats) AddFailed(n int64) { s.Failed.Add(n) }
func (s *Stats) AddBytes(n int64)  { s.Bytes.Add(n) }

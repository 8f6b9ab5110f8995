// Package sequence provides the strictly monotonic operation sequencer
// shared by the WAL and the trade outbox.
package sequence

import "sync/atomic"

type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer. start is 0 on a fresh boot, or the replayed
// high-water mark after recovery.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// Reset forces the sequencer to a specific value. Only used after WAL
// replay.
func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}

package service

import (
	"context"
	"log"
	"time"

	"matchbook/snapshot"
)

// StartSnapshotJob periodically checkpoints the book and truncates the
// WAL behind the snapshot.
func (s *EngineService) StartSnapshotJob(ctx context.Context, dir string, interval time.Duration) {
	w := &snapshot.Writer{Dir: dir}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.Checkpoint(w); err != nil {
					log.Printf("[snapshot] checkpoint failed: %v", err)
				}
			}
		}
	}()
}

// Checkpoint writes one snapshot at the current sequence and drops WAL
// segments the snapshot covers.
func (s *EngineService) Checkpoint(w *snapshot.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqGen.Current()
	if err := w.Write(seq, s.book); err != nil {
		return err
	}
	if s.wal != nil {
		_ = s.wal.TruncateBefore(seq)
	}
	return nil
}

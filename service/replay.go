package service

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"matchbook/domain/book"
	"matchbook/infra/sequence"
	"matchbook/infra/wal"
	"matchbook/snapshot"
)

// StagedSeqSource reports the highest trade sequence sitting in the
// outbox, implemented by the pebble store. May be nil.
type StagedSeqSource interface {
	MaxTradeSeq() (uint64, error)
}

// Recover rebuilds the book from the latest snapshot plus the WAL tail.
// It must run before the service accepts traffic. WAL records already
// covered by the snapshot are skipped; matches re-execute
// deterministically and nothing is re-published.
//
// Trade publications consume sequences that are never journaled, so the
// WAL high-water mark alone can sit below seqs already used as outbox
// keys. staged raises the sequencer over those, keeping new trades from
// overwriting records still awaiting publication.
func Recover(
	snapDir string,
	walDir string,
	b *book.Book,
	seqGen *sequence.Sequencer,
	staged StagedSeqSource,
) error {
	snapSeq, err := snapshot.Load(snapDir, b)
	if err != nil {
		return fmt.Errorf("snapshot load: %w", err)
	}

	lastSeq, err := wal.Replay(walDir, func(rec *wal.Record) error {
		if rec.Seq <= snapSeq {
			return nil
		}
		if err := applyRecord(b, rec); err != nil {
			// A record the book rejects on replay was collapsed into
			// the snapshot state; skip it rather than abort recovery.
			log.Printf("[replay] seq %d skipped: %v", rec.Seq, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("wal replay: %w", err)
	}

	if lastSeq < snapSeq {
		lastSeq = snapSeq
	}
	if staged != nil {
		stagedSeq, err := staged.MaxTradeSeq()
		if err != nil {
			return fmt.Errorf("outbox scan: %w", err)
		}
		if stagedSeq > lastSeq {
			lastSeq = stagedSeq
		}
	}
	seqGen.Reset(lastSeq)
	log.Printf("[replay] recovery complete (last seq = %d)", lastSeq)
	return nil
}

func applyRecord(b *book.Book, rec *wal.Record) error {
	switch rec.Type {
	case wal.RecordSubmit:
		id, side, price, qty, err := parseOrderOp(rec.Data)
		if err != nil {
			return err
		}
		_, err = b.Submit(id, side, price, qty)
		return err

	case wal.RecordMatch:
		id, side, price, qty, err := parseOrderOp(rec.Data)
		if err != nil {
			return err
		}
		_, err = b.Match(id, side, price, qty)
		return err

	case wal.RecordCancel:
		return b.Cancel(string(rec.Data))

	case wal.RecordModify:
		id, price, qty, err := parseModifyOp(rec.Data)
		if err != nil {
			return err
		}
		return b.Modify(id, price, qty)

	default:
		return fmt.Errorf("unknown record type %d", rec.Type)
	}
}

func parseOrderOp(data []byte) (id string, side book.Side, price, qty int64, err error) {
	parts := strings.Split(string(data), "|")
	if len(parts) != 4 {
		return "", 0, 0, 0, fmt.Errorf("invalid order payload: %q", data)
	}
	id = parts[0]
	s, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, err
	}
	side = book.Side(s)
	if price, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", 0, 0, 0, err
	}
	if qty, err = strconv.ParseInt(parts[3], 10, 64); err != nil {
		return "", 0, 0, 0, err
	}
	return id, side, price, qty, nil
}

func parseModifyOp(data []byte) (id string, price, qty int64, err error) {
	parts := strings.Split(string(data), "|")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid modify payload: %q", data)
	}
	id = parts[0]
	if price, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return "", 0, 0, err
	}
	if qty, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", 0, 0, err
	}
	return id, price, qty, nil
}

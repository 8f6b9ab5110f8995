// Package outbox persists trade events awaiting publication and
// archived terminal orders in a pebble store. Each trade record moves
// through NEW -> SENT -> ACKED (or FAILED with a retry count); the
// broadcaster drives the transitions and ACKED records are deleted.
package outbox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// TradeRecord is one staged trade event. Payload is the wire message the
// broadcaster publishes verbatim.
type TradeRecord struct {
	Seq         uint64
	State       State
	Retries     uint32
	LastAttempt int64
	Payload     []byte
}

// binary encoding: [state:1][retries:4][lastAttempt:8][payload]
func encodeRecord(r *TradeRecord) []byte {
	buf := make([]byte, 13+len(r.Payload))
	buf[0] = byte(r.State)
	binary.BigEndian.PutUint32(buf[1:5], r.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(r.LastAttempt))
	copy(buf[13:], r.Payload)
	return buf
}

func decodeRecord(seq uint64, b []byte) (*TradeRecord, error) {
	if len(b) < 13 {
		return nil, errors.New("outbox: short trade record")
	}
	payload := make([]byte, len(b)-13)
	copy(payload, b[13:])
	return &TradeRecord{
		Seq:         seq,
		State:       State(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
		Payload:     payload,
	}, nil
}

type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false, // durability is the point
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutTrade stages a new trade event for publication.
func (s *Store) PutTrade(seq uint64, payload []byte) error {
	rec := &TradeRecord{Seq: seq, State: StateNew, Payload: payload}
	return s.db.Set(tradeKey(seq), encodeRecord(rec), pebble.Sync)
}

// MarkSent transitions a record to SENT and bumps its attempt count.
func (s *Store) MarkSent(seq uint64) error {
	return s.update(seq, func(r *TradeRecord) {
		r.State = StateSent
		r.Retries++
		r.LastAttempt = time.Now().UnixNano()
	})
}

// MarkAcked transitions a record to ACKED and drops it.
func (s *Store) MarkAcked(seq uint64) error {
	return s.db.Delete(tradeKey(seq), pebble.Sync)
}

// MarkFailed returns a record to FAILED so a later scan retries it.
func (s *Store) MarkFailed(seq uint64) error {
	return s.update(seq, func(r *TradeRecord) {
		r.State = StateFailed
		r.LastAttempt = time.Now().UnixNano()
	})
}

func (s *Store) update(seq uint64, mutate func(*TradeRecord)) error {
	rec, err := s.GetTrade(seq)
	if err != nil {
		return err
	}
	mutate(rec)
	return s.db.Set(tradeKey(seq), encodeRecord(rec), pebble.Sync)
}

func (s *Store) GetTrade(seq uint64) (*TradeRecord, error) {
	val, closer, err := s.db.Get(tradeKey(seq))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return decodeRecord(seq, val)
}

// ScanPending iterates trade records still awaiting a successful
// publish (NEW, SENT past its attempt, or FAILED) in sequence order.
func (s *Store) ScanPending(fn func(*TradeRecord) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("trade/"),
		UpperBound: []byte("trade/~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := parseTradeKey(iter.Key())
		if err != nil {
			return err
		}
		rec, err := decodeRecord(seq, iter.Value())
		if err != nil {
			return err
		}
		if rec.State == StateAcked {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

// MaxTradeSeq returns the highest staged trade sequence, or 0 when no
// trade records exist. Recovery uses it to keep the sequencer above
// keys still awaiting publication.
func (s *Store) MaxTradeSeq() (uint64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("trade/"),
		UpperBound: []byte("trade/~"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	return parseTradeKey(iter.Key())
}

// ArchiveOrder stores a terminal order's final state before it is
// purged from the in-memory book.
func (s *Store) ArchiveOrder(id string, payload []byte) error {
	return s.db.Set(orderKey(id), payload, pebble.Sync)
}

// GetOrder returns an archived order's payload.
func (s *Store) GetOrder(id string) ([]byte, error) {
	val, closer, err := s.db.Get(orderKey(id))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// IsNotFound reports whether err is the store's missing-key error.
func IsNotFound(err error) bool {
	return errors.Is(err, pebble.ErrNotFound)
}

func tradeKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("trade/%020d", seq))
}

func parseTradeKey(b []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(b), "trade/%d", &seq)
	return seq, err
}

func orderKey(id string) []byte {
	return []byte("order/" + id)
}

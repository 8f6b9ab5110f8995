package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"matchbook/domain/book"
	"matchbook/infra/sequence"
	"matchbook/infra/wal"
)

// TradeStager is the durable staging half of trade egress, implemented
// by the pebble outbox.
type TradeStager interface {
	PutTrade(seq uint64, payload []byte) error
	ArchiveOrder(id string, payload []byte) error
}

// FeedPublisher is the best-effort live feed.
type FeedPublisher interface {
	Send(ctx context.Context, key, value []byte) error
}

// EngineService is the only write entry point into the engine. Its
// mutex serializes every mutation and query on the book. The WAL,
// stager, and feed may each be nil (tests, replay).
type EngineService struct {
	mu     sync.Mutex
	book   *book.Book
	seqGen *sequence.Sequencer
	wal    *wal.WAL
	stager TradeStager
	feed   FeedPublisher
}

func NewEngineService(
	b *book.Book,
	seqGen *sequence.Sequencer,
	w *wal.WAL,
	stager TradeStager,
	feed FeedPublisher,
) *EngineService {
	return &EngineService{
		book:   b,
		seqGen: seqGen,
		wal:    w,
		stager: stager,
		feed:   feed,
	}
}

// Submit places a pure resting order.
func (s *EngineService) Submit(id string, side book.Side, price, qty int64) (book.OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.book.Submit(id, side, price, qty); err != nil {
		return book.OrderView{}, err
	}
	s.journal(wal.RecordSubmit, encodeOrderOp(id, side, price, qty))
	return s.view(id)
}

// Match executes an incoming order against the book, rests the
// remainder, and fans the trades out to the outbox and the feed.
func (s *EngineService) Match(id string, side book.Side, price, qty int64) ([]book.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades, err := s.book.Match(id, side, price, qty)
	if err != nil {
		return nil, err
	}
	s.journal(wal.RecordMatch, encodeOrderOp(id, side, price, qty))
	s.publish(trades)
	return trades, nil
}

// Cancel removes a live order from the book.
func (s *EngineService) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.book.Cancel(id); err != nil {
		return err
	}
	s.journal(wal.RecordCancel, []byte(id))
	return nil
}

// Modify re-prices and re-sizes a live order, forfeiting time priority.
func (s *EngineService) Modify(id string, newPrice, newQty int64) (book.OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.book.Modify(id, newPrice, newQty); err != nil {
		return book.OrderView{}, err
	}
	s.journal(wal.RecordModify, encodeModifyOp(id, newPrice, newQty))
	return s.view(id)
}

// Status returns a snapshot of one order.
func (s *EngineService) Status(id string) (book.OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.GetStatus(id)
}

// Ticker is the book's top-of-book view. Absent sides carry ok=false.
type Ticker struct {
	Bid, Ask, Spread          int64
	HasBid, HasAsk, HasSpread bool
}

func (s *EngineService) Ticker() Ticker {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t Ticker
	t.Bid, t.HasBid = s.book.BestBid()
	t.Ask, t.HasAsk = s.book.BestAsk()
	t.Spread, t.HasSpread = s.book.Spread()
	return t
}

// Depth renders up to max levels per side.
func (s *EngineService) Depth(max int) (bids, asks []book.LevelView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Depth(max)
}

// SweepTerminal archives every terminal order to the stager and purges
// it from the book. Returns the number purged.
func (s *EngineService) SweepTerminal() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	s.book.EachTerminal(func(o *book.Order) {
		ids = append(ids, o.ID)
	})

	purged := 0
	for _, id := range ids {
		v, err := s.book.GetStatus(id)
		if err != nil {
			continue
		}
		if s.stager != nil {
			rec := ArchivedOrder{
				ID:     v.ID,
				Side:   v.Side.String(),
				Price:  v.Price,
				Qty:    v.Qty,
				Filled: v.Filled,
				Status: v.Status.String(),
				SeqID:  v.SeqID,
			}
			payload, _ := marshalArchived(rec)
			if err := s.stager.ArchiveOrder(id, payload); err != nil {
				log.Printf("[service] archive %s failed: %v", id, err)
				continue
			}
		}
		if s.book.Purge(id) {
			purged++
		}
	}
	return purged
}

func (s *EngineService) view(id string) (book.OrderView, error) {
	return s.book.GetStatus(id)
}

// journal appends an accepted mutation to the WAL. Journal failures are
// logged, not surfaced: the in-memory book already advanced and stays
// authoritative.
func (s *EngineService) journal(t wal.RecordType, payload []byte) {
	if s.wal == nil {
		return
	}
	if err := s.wal.Append(wal.NewRecord(t, s.seqGen.Next(), payload)); err != nil {
		log.Printf("[service] wal append failed: %v", err)
	}
}

// publish stages each trade in the outbox and pushes it to the live
// feed. Both paths are non-fatal to the match itself.
func (s *EngineService) publish(trades []book.Trade) {
	for _, t := range trades {
		seq := s.seqGen.Next()
		ev := newTradeEvent(seq, t)
		payload := ev.encode()

		if s.stager != nil {
			if err := s.stager.PutTrade(seq, payload); err != nil {
				log.Printf("[service] outbox put failed: %v", err)
			}
		}
		if s.feed != nil {
			key := []byte(strconv.FormatUint(seq, 10))
			if err := s.feed.Send(context.Background(), key, payload); err != nil {
				log.Printf("[service] feed send failed: %v", err)
			}
		}
	}
}

// Payload formats: "id|side|price|qty" for submit/match, "id|price|qty"
// for modify, bare id for cancel.

func encodeOrderOp(id string, side book.Side, price, qty int64) []byte {
	return []byte(fmt.Sprintf("%s|%d|%d|%d", id, side, price, qty))
}

func encodeModifyOp(id string, price, qty int64) []byte {
	return []byte(fmt.Sprintf("%s|%d|%d", id, price, qty))
}

package service

import (
	"encoding/json"

	"matchbook/domain/book"
)

// TradeEvent is the wire form of one execution, published on the trade
// topic and staged in the outbox. Prices are ticks; consumers apply the
// instrument's price scale.
type TradeEvent struct {
	V           int    `json:"v"`
	Seq         uint64 `json:"seq"`
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Price       int64  `json:"price"`
	Qty         int64  `json:"qty"`
	Time        int64  `json:"ts"`
}

func newTradeEvent(seq uint64, t book.Trade) TradeEvent {
	return TradeEvent{
		V:           1,
		Seq:         seq,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price,
		Qty:         t.Qty,
		Time:        t.Time.UnixNano(),
	}
}

func (e TradeEvent) encode() []byte {
	b, _ := json.Marshal(e)
	return b
}

func decodeTradeEvent(data []byte, e *TradeEvent) error {
	return json.Unmarshal(data, e)
}

// ArchivedOrder is the pebble payload written for a terminal order when
// the retention job purges it from the book.
type ArchivedOrder struct {
	ID     string `json:"id"`
	Side   string `json:"side"`
	Price  int64  `json:"price"`
	Qty    int64  `json:"qty"`
	Filled int64  `json:"filled"`
	Status string `json:"status"`
	SeqID  uint64 `json:"seq_id"`
}

func marshalArchived(a ArchivedOrder) ([]byte, error) {
	return json.Marshal(a)
}

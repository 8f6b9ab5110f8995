package book

import "time"

// Trade records one execution. BuyOrderID and SellOrderID reflect which
// side bought and sold, not which order arrived first. Price is always
// the resting order's price.
type Trade struct {
	BuyOrderID  string
	SellOrderID string
	Price       int64
	Qty         int64
	Time        time.Time
}

func newTrade(taker, maker *Order, price, qty int64) Trade {
	t := Trade{Price: price, Qty: qty, Time: time.Now()}
	if taker.Side == Buy {
		t.BuyOrderID = taker.ID
		t.SellOrderID = maker.ID
	} else {
		t.BuyOrderID = maker.ID
		t.SellOrderID = taker.ID
	}
	return t
}

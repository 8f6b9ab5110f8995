package book

// Book owns both side indexes and the global order lookup. Every order
// id in the lookup is either resting in exactly one level queue on its
// side, or terminal and in no queue. Terminal records stay queryable
// until Purge removes them.
type Book struct {
	bids    *SideIndex
	asks    *SideIndex
	orders  map[string]*Order
	nextSeq uint64
}

func NewBook() *Book {
	return &Book{
		bids:   NewSideIndex(Buy),
		asks:   NewSideIndex(Sell),
		orders: make(map[string]*Order),
	}
}

func (b *Book) sideIndex(s Side) *SideIndex {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

// Submit places a resting order without attempting a match. The id is
// caller-chosen and must be unused.
func (b *Book) Submit(id string, side Side, price, qty int64) (*Order, error) {
	o, err := b.admit(id, side, price, qty)
	if err != nil {
		return nil, err
	}
	b.sideIndex(side).Insert(o)
	return o, nil
}

// Match executes an incoming order against the opposite side and rests
// any unfilled remainder. Trades are returned in execution order; the
// resting order always sets the trade price.
func (b *Book) Match(id string, side Side, price, qty int64) ([]Trade, error) {
	o, err := b.admit(id, side, price, qty)
	if err != nil {
		return nil, err
	}

	opp := b.sideIndex(side.Opposite())
	var trades []Trade
	for o.Remaining() > 0 {
		lvl := opp.BestLevel()
		if lvl == nil {
			break
		}
		if side == Buy && lvl.Price > price {
			break
		}
		if side == Sell && lvl.Price < price {
			break
		}

		maker := lvl.Front()
		tradeQty := min(o.Remaining(), maker.Remaining())
		o.fill(tradeQty)
		maker.fill(tradeQty)
		lvl.reduce(tradeQty)
		trades = append(trades, newTrade(o, maker, lvl.Price, tradeQty))

		if maker.Remaining() == 0 {
			opp.Remove(maker)
		}
	}

	if o.Remaining() > 0 {
		b.sideIndex(side).Insert(o)
	}
	return trades, nil
}

// Cancel removes an open or partially filled order from its queue. The
// filled quantity is left as-is and the record stays queryable.
func (b *Book) Cancel(id string) error {
	o, ok := b.orders[id]
	if !ok {
		return ErrUnknownOrderID
	}
	if o.Terminal() {
		return ErrAlreadyTerminal
	}
	b.sideIndex(o.Side).Remove(o)
	o.Status = Cancelled
	return nil
}

// Modify re-prices and re-sizes an order as an atomic cancel-then-
// resubmit under the same id. Time priority is forfeited: the order goes
// to the tail of the new level's queue even when the price is unchanged.
// A new quantity equal to the filled amount completes the order.
func (b *Book) Modify(id string, newPrice, newQty int64) error {
	o, ok := b.orders[id]
	if !ok {
		return ErrUnknownOrderID
	}
	if o.Terminal() {
		return ErrAlreadyTerminal
	}
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	if newQty <= 0 || newQty < o.Filled {
		return ErrInvalidQuantity
	}

	idx := b.sideIndex(o.Side)
	idx.Remove(o)
	o.Price = newPrice
	o.Qty = newQty
	if o.Remaining() == 0 {
		o.Status = Filled
		return nil
	}
	if o.Filled > 0 {
		o.Status = PartiallyFilled
	} else {
		o.Status = Open
	}
	idx.Insert(o)
	return nil
}

// admit validates and registers a new order without queueing it.
func (b *Book) admit(id string, side Side, price, qty int64) (*Order, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, ok := b.orders[id]; ok {
		return nil, ErrDuplicateOrderID
	}
	b.nextSeq++
	o := &Order{
		ID:     id,
		Side:   side,
		Price:  price,
		Qty:    qty,
		SeqID:  b.nextSeq,
		Status: Open,
	}
	b.orders[id] = o
	return o, nil
}

// OrderView is a read-only copy of one order's state.
type OrderView struct {
	ID     string
	Side   Side
	Price  int64
	Qty    int64
	Filled int64
	SeqID  uint64
	Status Status
}

// GetStatus returns a snapshot of the order, terminal ones included.
func (b *Book) GetStatus(id string) (OrderView, error) {
	o, ok := b.orders[id]
	if !ok {
		return OrderView{}, ErrUnknownOrderID
	}
	return OrderView{
		ID:     o.ID,
		Side:   o.Side,
		Price:  o.Price,
		Qty:    o.Qty,
		Filled: o.Filled,
		SeqID:  o.SeqID,
		Status: o.Status,
	}, nil
}

// BestBid returns the highest live bid price, if any.
func (b *Book) BestBid() (int64, bool) {
	return b.bids.BestPrice()
}

// BestAsk returns the lowest live ask price, if any.
func (b *Book) BestAsk() (int64, bool) {
	return b.asks.BestPrice()
}

// Spread returns BestAsk minus BestBid; unavailable when either side is
// empty.
func (b *Book) Spread() (int64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask - bid, true
}

// LevelView is one price level in the depth snapshot.
type LevelView struct {
	Price  int64
	Qty    int64
	Orders int
}

// Depth renders up to max levels per side in price priority order. It is
// read-only. max <= 0 means no cap.
func (b *Book) Depth(max int) (bids, asks []LevelView) {
	collect := func(ix *SideIndex) []LevelView {
		var out []LevelView
		ix.Walk(func(lvl *PriceLevel) bool {
			out = append(out, LevelView{
				Price:  lvl.Price,
				Qty:    lvl.TotalQty,
				Orders: lvl.OrderCount,
			})
			return max <= 0 || len(out) < max
		})
		return out
	}
	return collect(b.bids), collect(b.asks)
}

// EachResting visits every resting order, bids best-to-worst then asks
// best-to-worst, in queue order within a level. Read-only; used by the
// snapshot writer.
func (b *Book) EachResting(visit func(*Order)) {
	walk := func(ix *SideIndex) {
		ix.Walk(func(lvl *PriceLevel) bool {
			for o := lvl.Front(); o != nil; o = o.Next() {
				visit(o)
			}
			return true
		})
	}
	walk(b.bids)
	walk(b.asks)
}

// EachTerminal visits every terminal (filled or cancelled) record still
// held in the lookup.
func (b *Book) EachTerminal(visit func(*Order)) {
	for _, o := range b.orders {
		if o.Terminal() {
			visit(o)
		}
	}
}

// Purge drops a terminal record from the lookup, ending its
// queryability. Resting orders are never purged.
func (b *Book) Purge(id string) bool {
	o, ok := b.orders[id]
	if !ok || !o.Terminal() {
		return false
	}
	delete(b.orders, id)
	return true
}

// Orders returns the number of records in the lookup, terminal ones
// included.
func (b *Book) Orders() int {
	return len(b.orders)
}

// LastSeq returns the most recently assigned submission sequence.
func (b *Book) LastSeq() uint64 {
	return b.nextSeq
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

package book

import (
	"container/heap"
	"sort"
)

// priceHeap is a heap of candidate prices: max-heap for bids, min-heap
// for asks. It may hold stale entries for levels that have since been
// emptied, and duplicates when a price level is recreated; both are
// resolved lazily by the owning SideIndex.
type priceHeap struct {
	prices []int64
	max    bool
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.prices[i] > h.prices[j]
	}
	return h.prices[i] < h.prices[j]
}

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *priceHeap) Push(x any) {
	h.prices = append(h.prices, x.(int64))
}

func (h *priceHeap) Pop() any {
	old := h.prices
	n := len(old)
	x := old[n-1]
	h.prices = old[:n-1]
	return x
}

func (h *priceHeap) peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// SideIndex is one side of the book: a map from price to its live level
// plus a price heap over candidate prices. Liveness is owned by the map;
// the heap only proposes candidates. Removing the last order of a level
// deletes the map entry and leaves the heap untouched, so cancellation
// never pays for a heap rebuild. Stale heap entries are discarded the
// next time the top is read.
type SideIndex struct {
	side   Side
	levels map[int64]*PriceLevel
	prices priceHeap
}

func NewSideIndex(side Side) *SideIndex {
	return &SideIndex{
		side:   side,
		levels: make(map[int64]*PriceLevel),
		prices: priceHeap{max: side == Buy},
	}
}

// Insert appends an order to its price level, creating the level and
// pushing its price into the heap when absent. The price is pushed once
// per level creation, so the heap grows by at most one entry per
// create/empty cycle.
func (ix *SideIndex) Insert(o *Order) {
	lvl, ok := ix.levels[o.Price]
	if !ok {
		lvl = &PriceLevel{Price: o.Price}
		ix.levels[o.Price] = lvl
		heap.Push(&ix.prices, o.Price)
	}
	lvl.Enqueue(o)
}

// Remove unlinks an order from its level. An emptied level is dropped
// from the map immediately; its heap entry goes stale and is swept by a
// later BestLevel call.
func (ix *SideIndex) Remove(o *Order) {
	lvl, ok := ix.levels[o.Price]
	if !ok {
		return
	}
	lvl.Remove(o)
	if lvl.Empty() {
		delete(ix.levels, o.Price)
	}
}

// BestLevel returns the live level at the best price, discarding stale
// heap entries on the way, or nil when the side is empty. Amortized
// O(1): every stale entry is created once and popped once.
func (ix *SideIndex) BestLevel() *PriceLevel {
	for {
		price, ok := ix.prices.peek()
		if !ok {
			return nil
		}
		lvl, live := ix.levels[price]
		if live && !lvl.Empty() {
			return lvl
		}
		heap.Pop(&ix.prices)
	}
}

// BestPrice returns the best live price, if any.
func (ix *SideIndex) BestPrice() (int64, bool) {
	lvl := ix.BestLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// Levels returns the number of live price levels.
func (ix *SideIndex) Levels() int {
	return len(ix.levels)
}

// Walk visits live levels in price priority order (descending for bids,
// ascending for asks) until fn returns false. Read-only; used by the
// depth snapshot.
func (ix *SideIndex) Walk(fn func(*PriceLevel) bool) {
	keys := make([]int64, 0, len(ix.levels))
	for price := range ix.levels {
		keys = append(keys, price)
	}
	if ix.side == Buy {
		sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	} else {
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	}
	for _, price := range keys {
		if !fn(ix.levels[price]) {
			return
		}
	}
}

package book

import (
	"math/rand"
	"testing"
)

func TestSideIndexBestPriceBidsAndAsks(t *testing.T) {
	bids := NewSideIndex(Buy)
	bids.Insert(&Order{ID: "b1", Side: Buy, Price: 100, Qty: 1})
	bids.Insert(&Order{ID: "b2", Side: Buy, Price: 105, Qty: 1})
	bids.Insert(&Order{ID: "b3", Side: Buy, Price: 95, Qty: 1})
	if p, ok := bids.BestPrice(); !ok || p != 105 {
		t.Errorf("best bid = %d, want 105", p)
	}

	asks := NewSideIndex(Sell)
	asks.Insert(&Order{ID: "a1", Side: Sell, Price: 110, Qty: 1})
	asks.Insert(&Order{ID: "a2", Side: Sell, Price: 108, Qty: 1})
	if p, ok := asks.BestPrice(); !ok || p != 108 {
		t.Errorf("best ask = %d, want 108", p)
	}
}

func TestSideIndexEmpty(t *testing.T) {
	ix := NewSideIndex(Buy)
	if _, ok := ix.BestPrice(); ok {
		t.Error("empty index must report no best price")
	}
	if ix.BestLevel() != nil {
		t.Error("empty index must report nil best level")
	}
}

func TestSideIndexStaleEntrySwept(t *testing.T) {
	ix := NewSideIndex(Buy)
	top := &Order{ID: "top", Side: Buy, Price: 105, Qty: 1}
	ix.Insert(top)
	ix.Insert(&Order{ID: "low", Side: Buy, Price: 100, Qty: 1})

	// Empty the best level; its heap entry goes stale.
	ix.Remove(top)
	if ix.Levels() != 1 {
		t.Fatalf("expected 1 live level, got %d", ix.Levels())
	}
	if p, ok := ix.BestPrice(); !ok || p != 100 {
		t.Errorf("best should skip stale 105, got %d", p)
	}
}

func TestSideIndexRecreatedLevelAfterStale(t *testing.T) {
	ix := NewSideIndex(Sell)
	a := &Order{ID: "a", Side: Sell, Price: 100, Qty: 1}
	ix.Insert(a)
	ix.Remove(a)

	// Same price again: the heap now holds a duplicate entry, one of
	// them covering the live level.
	ix.Insert(&Order{ID: "b", Side: Sell, Price: 100, Qty: 1})
	if p, ok := ix.BestPrice(); !ok || p != 100 {
		t.Errorf("recreated level must be visible, got %d ok=%v", p, ok)
	}
}

// Cross-check lazy best-price resolution against a brute-force scan over
// live levels through a random workload.
func TestSideIndexBestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ix := NewSideIndex(Buy)
	live := make(map[int64][]*Order)

	bruteBest := func() (int64, bool) {
		best, found := int64(0), false
		for p, orders := range live {
			if len(orders) == 0 {
				continue
			}
			if !found || p > best {
				best, found = p, true
			}
		}
		return best, found
	}

	for i := 0; i < 2000; i++ {
		if rng.Intn(3) != 0 {
			price := int64(90 + rng.Intn(20))
			o := &Order{ID: "", Side: Buy, Price: price, Qty: 1}
			ix.Insert(o)
			live[price] = append(live[price], o)
		} else {
			// Remove a random live order.
			for p, orders := range live {
				if len(orders) == 0 {
					continue
				}
				ix.Remove(orders[0])
				live[p] = orders[1:]
				break
			}
		}

		want, wantOK := bruteBest()
		got, gotOK := ix.BestPrice()
		if wantOK != gotOK || (wantOK && want != got) {
			t.Fatalf("step %d: best=%d/%v, brute=%d/%v", i, got, gotOK, want, wantOK)
		}
	}
}

func TestSideIndexWalkOrder(t *testing.T) {
	asks := NewSideIndex(Sell)
	for _, p := range []int64{105, 101, 103} {
		asks.Insert(&Order{ID: "", Side: Sell, Price: p, Qty: 1})
	}
	var seen []int64
	asks.Walk(func(lvl *PriceLevel) bool {
		seen = append(seen, lvl.Price)
		return true
	})
	want := []int64{101, 103, 105}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("walk order %v, want %v", seen, want)
		}
	}
}

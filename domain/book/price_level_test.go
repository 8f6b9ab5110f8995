package book

import "testing"

func TestPriceLevelEnqueueOrder(t *testing.T) {
	lvl := &PriceLevel{Price: 100}
	a := &Order{ID: "a", Qty: 5}
	b := &Order{ID: "b", Qty: 3}
	lvl.Enqueue(a)
	lvl.Enqueue(b)

	if lvl.Front() != a {
		t.Error("head should be first arrival")
	}
	if lvl.TotalQty != 8 || lvl.OrderCount != 2 {
		t.Errorf("aggregates wrong: qty=%d count=%d", lvl.TotalQty, lvl.OrderCount)
	}
}

func TestPriceLevelRemoveMiddle(t *testing.T) {
	lvl := &PriceLevel{Price: 100}
	a := &Order{ID: "a", Qty: 1}
	b := &Order{ID: "b", Qty: 1}
	c := &Order{ID: "c", Qty: 1}
	lvl.Enqueue(a)
	lvl.Enqueue(b)
	lvl.Enqueue(c)

	lvl.Remove(b)

	if lvl.Front() != a || a.Next() != c || c.Next() != nil {
		t.Error("removal must preserve arrival order of survivors")
	}
	if lvl.OrderCount != 2 {
		t.Errorf("expected 2 orders, got %d", lvl.OrderCount)
	}
}

func TestPriceLevelRemoveHeadAndTail(t *testing.T) {
	lvl := &PriceLevel{Price: 100}
	a := &Order{ID: "a", Qty: 1}
	b := &Order{ID: "b", Qty: 1}
	lvl.Enqueue(a)
	lvl.Enqueue(b)

	lvl.Remove(a)
	if lvl.Front() != b {
		t.Error("head should advance after head removal")
	}
	lvl.Remove(b)
	if !lvl.Empty() || lvl.TotalQty != 0 {
		t.Error("level should be empty")
	}
}

func TestPriceLevelTracksRemainingQty(t *testing.T) {
	lvl := &PriceLevel{Price: 100}
	o := &Order{ID: "a", Qty: 10, Filled: 4}
	lvl.Enqueue(o)
	if lvl.TotalQty != 6 {
		t.Errorf("expected remaining 6, got %d", lvl.TotalQty)
	}
	o.fill(2)
	lvl.reduce(2)
	if lvl.TotalQty != 4 {
		t.Errorf("expected remaining 4, got %d", lvl.TotalQty)
	}
}

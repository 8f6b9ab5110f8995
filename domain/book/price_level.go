package book

// PriceLevel holds all resting orders at one exact price, ordered by
// arrival. The queue is an intrusive doubly-linked list through the
// orders' next/prev fields, so removal of a known order is O(1) and
// arrival order of the survivors is untouched. TotalQty tracks the sum
// of the queue's remaining quantities.
type PriceLevel struct {
	Price      int64
	head       *Order
	tail       *Order
	TotalQty   int64
	OrderCount int
}

// Enqueue appends an order at the tail (latest time priority).
func (p *PriceLevel) Enqueue(o *Order) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	p.TotalQty += o.Remaining()
	p.OrderCount++
}

// Front returns the order at the head without removing it, or nil if
// the level is empty.
func (p *PriceLevel) Front() *Order {
	return p.head
}

// Remove unlinks an order from anywhere in the queue.
func (p *PriceLevel) Remove(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		p.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		p.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	p.TotalQty -= o.Remaining()
	p.OrderCount--
	if p.TotalQty < 0 {
		p.TotalQty = 0
	}
}

// reduce shrinks the level aggregate after a fill against one of its
// orders. The order itself is updated separately.
func (p *PriceLevel) reduce(qty int64) {
	p.TotalQty -= qty
	if p.TotalQty < 0 {
		p.TotalQty = 0
	}
}

// Empty reports whether the queue holds no orders.
func (p *PriceLevel) Empty() bool {
	return p.head == nil
}

package book

import "errors"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type Status int

const (
	Open Status = iota
	PartiallyFilled
	Filled
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == Filled || s == Cancelled
}

var (
	ErrDuplicateOrderID = errors.New("duplicate order id")
	ErrUnknownOrderID   = errors.New("unknown order id")
	ErrAlreadyTerminal  = errors.New("order already terminal")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPrice     = errors.New("invalid price")
)

// Order is the authoritative record for one order. ID and Side are fixed
// at creation; Price and Qty change only through Modify; Filled and
// Status are written exclusively by the Book during matching and
// cancellation. The next/prev links make the order an intrusive node of
// exactly one price level queue while it rests.
type Order struct {
	ID     string
	Side   Side
	Price  int64
	Qty    int64
	Filled int64
	SeqID  uint64
	Status Status
	next   *Order
	prev   *Order
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Qty - o.Filled
}

func (o *Order) Terminal() bool {
	return o.Status.Terminal()
}

// fill applies a trade quantity and moves the status forward.
func (o *Order) fill(qty int64) {
	o.Filled += qty
	if o.Filled >= o.Qty {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Next returns the order behind this one in its level queue.
func (o *Order) Next() *Order {
	return o.next
}

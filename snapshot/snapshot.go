// Package snapshot persists a point-in-time image of the book's resting
// orders so recovery can start from the image and replay only the WAL
// tail behind it. A snapshot stores each order's unfilled remainder;
// fill history lives in the trade outbox, not here.
package snapshot

import "time"

type Snapshot struct {
	Seq     uint64
	Created time.Time
	Orders  []OrderEntry
}

type OrderEntry struct {
	ID    string
	Side  int
	Price int64
	Qty   int64
}

const fileName = "snapshot.bin"

// Package book implements the in-memory matching engine for a single
// instrument. It maintains two side indexes (bids and asks), each a
// price->level map paired with a price heap, enforces price-time
// priority, and produces trade records synchronously.
//
// The book is a single-writer structure: all mutating operations and
// queries on one Book must be serialized by the caller. Prices and
// quantities are fixed-point int64 ticks so they can be used as exact
// map and heap keys.
package book

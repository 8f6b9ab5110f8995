// Package service orchestrates the engine's components — the book, the
// entry WAL, the trade outbox, and the live feed.
//
// EngineService is the only write entry point: one mutex serializes all
// mutations and queries against the single-writer book, decoupled from
// the HTTP transport above it.
package service

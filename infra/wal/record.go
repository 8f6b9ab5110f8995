package wal

import "time"

type RecordType uint8

const (
	RecordSubmit RecordType = iota
	RecordCancel
	RecordModify
	RecordMatch
)

// Record is one accepted book mutation. Data is an opaque payload owned
// by the service layer; the WAL only frames and checksums it.
type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Data []byte
}

func NewRecord(t RecordType, seq uint64, data []byte) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}

// Package wal provides a segmented append-only log of accepted book
// mutations. Each record is framed as
//
//	[type:1][seq:8][time:8][len:4][payload][crc:4]
//
// with a CRC-32 over everything before it. Segments rotate by size and
// segments fully behind a snapshot can be truncated away.
package wal

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
)

type Config struct {
	Dir         string
	SegmentSize int64
}

const DefaultSegmentSize = 4 * 1024 * 1024

type WAL struct {
	dir      string
	segSize  int64
	current  *segment
	segIndex int
}

// Open creates the directory if needed and resumes appending to the
// newest existing segment.
func Open(cfg Config) (*WAL, error) {
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = DefaultSegmentSize
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	index := 0
	if files, err := filepath.Glob(filepath.Join(cfg.Dir, "segment-*.wal")); err == nil && len(files) > 0 {
		sort.Strings(files)
		if i, err := parseSegmentIndex(filepath.Base(files[len(files)-1])); err == nil {
			index = i
		}
	}

	seg, err := openSegment(cfg.Dir, index)
	if err != nil {
		return nil, err
	}

	return &WAL{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		current:  seg,
		segIndex: index,
	}, nil
}

func (w *WAL) Append(r *Record) error {
	payloadLen := uint32(len(r.Data))

	buf := make([]byte, headerSize+payloadLen+4)
	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[headerSize:], r.Data)

	crc := CRC32(buf[:headerSize+payloadLen])
	binary.BigEndian.PutUint32(buf[headerSize+payloadLen:], crc)

	if err := w.current.append(buf); err != nil {
		return err
	}

	if w.current.offset >= w.segSize {
		return w.rotate()
	}
	return nil
}

func (w *WAL) Sync() error {
	return w.current.sync()
}

func (w *WAL) Close() error {
	return w.current.close()
}

func (w *WAL) rotate() error {
	_ = w.current.close()
	w.segIndex++

	seg, err := openSegment(w.dir, w.segIndex)
	if err != nil {
		return err
	}
	w.current = seg
	return nil
}

// TruncateBefore removes segments whose records all carry sequence
// numbers at or below seq. The current segment is never removed.
func (w *WAL) TruncateBefore(seq uint64) error {
	files, err := filepath.Glob(filepath.Join(w.dir, "segment-*.wal"))
	if err != nil {
		return err
	}

	for _, path := range files {
		if path == w.current.file.Name() {
			continue
		}
		maxSeq, err := maxSeqInSegment(path)
		if err != nil {
			continue
		}
		if maxSeq <= seq {
			_ = os.Remove(path)
		}
	}
	return nil
}

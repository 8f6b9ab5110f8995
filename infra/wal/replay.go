package wal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

const headerSize = 21 // [type:1][seq:8][time:8][len:4]

type ReplayHandler func(*Record) error

// Replay reads every record in sequence order across all segments and
// hands it to fn. It returns the highest sequence seen. A CRC mismatch
// or torn tail write ends replay at the last good record.
func Replay(dir string, fn ReplayHandler) (lastSeq uint64, err error) {
	files, err := filepath.Glob(filepath.Join(dir, "segment-*.wal"))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return lastSeq, err
		}

		for {
			rec, err := readRecord(f)
			if err != nil {
				_ = f.Close()
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, errBadCRC) {
					break
				}
				return lastSeq, err
			}

			if rec.Seq <= lastSeq {
				_ = f.Close()
				return lastSeq, fmt.Errorf("non-monotonic seq %d after %d", rec.Seq, lastSeq)
			}
			lastSeq = rec.Seq

			if err := fn(rec); err != nil {
				_ = f.Close()
				return lastSeq, err
			}
		}
	}

	return lastSeq, nil
}

var errBadCRC = errors.New("wal: crc mismatch")

func readRecord(r io.Reader) (*Record, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	t := RecordType(header[0])
	seq := binary.BigEndian.Uint64(header[1:9])
	ts := binary.BigEndian.Uint64(header[9:17])
	l := binary.BigEndian.Uint32(header[17:21])

	data := make([]byte, l+4)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	payload := data[:l]
	crc := binary.BigEndian.Uint32(data[l:])
	if !CRC32Valid(append(header, payload...), crc) {
		return nil, errBadCRC
	}

	return &Record{
		Type: t,
		Seq:  seq,
		Time: int64(ts),
		Data: payload,
	}, nil
}

// maxSeqInSegment scans one segment for its highest sequence. Used only
// by snapshot-based truncation.
func maxSeqInSegment(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var max uint64
	for {
		header := make([]byte, headerSize)
		if _, err := io.ReadFull(f, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return max, nil
			}
			return max, err
		}

		seq := binary.BigEndian.Uint64(header[1:9])
		if seq > max {
			max = seq
		}

		payloadLen := binary.BigEndian.Uint32(header[17:21])
		if _, err := f.Seek(int64(payloadLen+4), io.SeekCurrent); err != nil {
			return max, err
		}
	}
}

func parseSegmentIndex(name string) (int, error) {
	var index int
	if _, err := fmt.Sscanf(name, "segment-%d.wal", &index); err != nil {
		return 0, err
	}
	return index, nil
}

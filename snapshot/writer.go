package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"matchbook/domain/book"
)

type Writer struct {
	Dir string
}

// Write dumps all resting orders at seq. The file is written to a temp
// path and renamed so a crash mid-write never clobbers the last good
// snapshot.
func (w *Writer) Write(seq uint64, b *book.Book) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	s := Snapshot{
		Seq:     seq,
		Created: time.Now(),
		Orders:  make([]OrderEntry, 0, 1024),
	}
	b.EachResting(func(o *book.Order) {
		s.Orders = append(s.Orders, OrderEntry{
			ID:    o.ID,
			Side:  int(o.Side),
			Price: o.Price,
			Qty:   o.Remaining(),
		})
	})

	tmp := filepath.Join(w.Dir, fileName+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(w.Dir, fileName))
}

package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"matchbook/domain/book"
)

// Load restores resting orders into an empty book and returns the
// sequence the snapshot covers. A missing snapshot is not an error.
func Load(dir string, b *book.Book) (uint64, error) {
	f, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return 0, err
	}

	for _, e := range s.Orders {
		if _, err := b.Submit(e.ID, book.Side(e.Side), e.Price, e.Qty); err != nil {
			return 0, err
		}
	}
	return s.Seq, nil
}

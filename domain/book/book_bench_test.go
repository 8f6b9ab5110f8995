package book

import (
	"strconv"
	"testing"
)

func BenchmarkSubmit(b *testing.B) {
	bk := NewBook()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Submit(strconv.Itoa(i), Buy, int64(1000+i%50), 10)
	}
}

func BenchmarkMatchAgainstDeepLevel(b *testing.B) {
	bk := NewBook()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Submit("r"+strconv.Itoa(i), Buy, 1000, 1)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Match("t"+strconv.Itoa(i), Sell, 1000, 1)
	}
}

func BenchmarkCancel(b *testing.B) {
	bk := NewBook()
	for i := 0; i < b.N; i++ {
		_, _ = bk.Submit(strconv.Itoa(i), Buy, int64(1000+i%100), 1)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.Cancel(strconv.Itoa(i))
	}
}

func BenchmarkBestBidWithStaleEntries(b *testing.B) {
	bk := NewBook()
	for i := 0; i < 1000; i++ {
		id := strconv.Itoa(i)
		_, _ = bk.Submit(id, Buy, int64(1000+i), 1)
		_ = bk.Cancel(id)
	}
	_, _ = bk.Submit("live", Buy, 999, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bk.BestBid()
	}
}

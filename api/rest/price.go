package rest

import (
	"errors"

	"github.com/shopspring/decimal"
)

var errPriceScale = errors.New("price does not fit the tick scale")

// PriceCodec converts between wire decimals and the engine's int64
// ticks. Scale is the number of decimal places one tick represents.
type PriceCodec struct {
	Scale int32
}

// ToTicks rejects prices with more precision than the tick scale; the
// engine needs exact keys, so nothing is ever rounded here.
func (c PriceCodec) ToTicks(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(c.Scale)
	if !shifted.IsInteger() {
		return 0, errPriceScale
	}
	bi := shifted.BigInt()
	if !bi.IsInt64() {
		return 0, errPriceScale
	}
	return bi.Int64(), nil
}

func (c PriceCodec) FromTicks(t int64) string {
	return decimal.New(t, -c.Scale).String()
}

package rest

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Schemas are validated before they reach the engine; prices travel as
// decimal strings and are converted to ticks at this boundary.

type PlaceOrderSchema struct {
	ID    string          `json:"id"`
	Side  string          `json:"side" validate:"required,oneof=buy sell"`
	Price decimal.Decimal `json:"price" validate:"required"`
	Qty   int64           `json:"qty" validate:"required,gt=0"`
}

type ModifyOrderSchema struct {
	Price decimal.Decimal `json:"price" validate:"required"`
	Qty   int64           `json:"qty" validate:"required,gt=0"`
}

type OrderSchema struct {
	ID     string `json:"id"`
	Side   string `json:"side"`
	Price  string `json:"price"`
	Qty    int64  `json:"qty"`
	Filled int64  `json:"filled"`
	Status string `json:"status"`
	Seq    uint64 `json:"seq"`
}

type TradeSchema struct {
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Price       string `json:"price"`
	Qty         int64  `json:"qty"`
	Time        int64  `json:"ts"`
}

type LevelSchema struct {
	Price  string `json:"price"`
	Qty    int64  `json:"qty"`
	Orders int    `json:"orders"`
}

type DepthSchema struct {
	Bids []LevelSchema `json:"bids"`
	Asks []LevelSchema `json:"asks"`
}

type TickerSchema struct {
	Bid    *string `json:"bid"`
	Ask    *string `json:"ask"`
	Spread *string `json:"spread"`
}

var validate = validator.New()

func validateInput(input interface{}) error {
	return validate.Struct(input)
}

package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/domain/book"
	"matchbook/infra/sequence"
	"matchbook/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.NewEngineService(book.NewBook(), sequence.New(0), nil, nil, nil)
	app := fiber.New()
	InitializeRoutes(app, NewServer(svc, PriceCodec{Scale: 4}))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestPlaceOrder(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"id": "b1", "side": "buy", "price": "100.5", "qty": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	got := decode[OrderSchema](t, resp)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, "buy", got.Side)
	assert.Equal(t, "100.5", got.Price)
	assert.Equal(t, int64(10), got.Qty)
	assert.Equal(t, "open", got.Status)
}

func TestPlaceOrderGeneratesID(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"side": "sell", "price": "101", "qty": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decode[OrderSchema](t, resp)
	assert.NotEmpty(t, got.ID)
}

func TestPlaceOrderDuplicateConflicts(t *testing.T) {
	app := newTestApp(t)

	body := fiber.Map{"id": "dup", "side": "buy", "price": "100", "qty": 1}
	resp := doJSON(t, app, http.MethodPost, "/v1/orders", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/orders", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPlaceOrderValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []fiber.Map{
		{"side": "hold", "price": "100", "qty": 1},
		{"side": "buy", "price": "100", "qty": 0},
		{"side": "buy", "price": "100", "qty": -3},
		{"side": "buy", "qty": 1},
	}
	for i, body := range cases {
		resp := doJSON(t, app, http.MethodPost, "/v1/orders", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "case %d", i)
	}
}

func TestPlaceOrderRejectsOffScalePrice(t *testing.T) {
	app := newTestApp(t)

	// Five decimals cannot be represented at scale 4.
	resp := doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"side": "buy", "price": "100.00005", "qty": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMatchOrderReturnsTrades(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"id": "a1", "side": "sell", "price": "100.5", "qty": 20,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/orders/match", fiber.Map{
		"id": "b1", "side": "buy", "price": "101", "qty": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		OrderID string        `json:"order_id"`
		Trades  []TradeSchema `json:"trades"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "b1", got.OrderID)
	require.Len(t, got.Trades, 1)
	assert.Equal(t, "b1", got.Trades[0].BuyOrderID)
	assert.Equal(t, "a1", got.Trades[0].SellOrderID)
	assert.Equal(t, "100.5", got.Trades[0].Price)
	assert.Equal(t, int64(5), got.Trades[0].Qty)
}

func TestCancelOrder(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"id": "c1", "side": "buy", "price": "99", "qty": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/orders/c1/cancel", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Second cancel hits a terminal order.
	resp = doJSON(t, app, http.MethodPost, "/v1/orders/c1/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/orders/nope/cancel", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestModifyOrder(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"id": "m1", "side": "sell", "price": "100", "qty": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/v1/orders/m1", fiber.Map{
		"price": "101.25", "qty": 7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[OrderSchema](t, resp)
	assert.Equal(t, "101.25", got.Price)
	assert.Equal(t, int64(7), got.Qty)
}

func TestGetOrder(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/v1/orders/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/orders", fiber.Map{
		"id": "g1", "side": "buy", "price": "98", "qty": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/v1/orders/g1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[OrderSchema](t, resp)
	assert.Equal(t, "g1", got.ID)
}

func TestGetDepthAndTicker(t *testing.T) {
	app := newTestApp(t)

	for i, o := range []fiber.Map{
		{"side": "buy", "price": "99", "qty": 10},
		{"side": "buy", "price": "98.5", "qty": 5},
		{"side": "sell", "price": "100", "qty": 7},
	} {
		o["id"] = fmt.Sprintf("o%d", i)
		resp := doJSON(t, app, http.MethodPost, "/v1/orders", o)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/v1/book?levels=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	depth := decode[DepthSchema](t, resp)
	require.Len(t, depth.Bids, 1)
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, "99", depth.Bids[0].Price)
	assert.Equal(t, "100", depth.Asks[0].Price)

	resp = doJSON(t, app, http.MethodGet, "/v1/book/ticker", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ticker := decode[TickerSchema](t, resp)
	require.NotNil(t, ticker.Bid)
	require.NotNil(t, ticker.Ask)
	require.NotNil(t, ticker.Spread)
	assert.Equal(t, "99", *ticker.Bid)
	assert.Equal(t, "100", *ticker.Ask)
	assert.Equal(t, "1", *ticker.Spread)
}

func TestTickerEmptySidesAreNull(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/v1/book/ticker", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ticker := decode[TickerSchema](t, resp)
	assert.Nil(t, ticker.Bid)
	assert.Nil(t, ticker.Ask)
	assert.Nil(t, ticker.Spread)
}

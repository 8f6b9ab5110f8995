package rest

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"matchbook/domain/book"
	"matchbook/service"
)

// Server adapts the engine service to HTTP. It owns no engine state.
type Server struct {
	svc   *service.EngineService
	codec PriceCodec
}

func NewServer(svc *service.EngineService, codec PriceCodec) *Server {
	return &Server{svc: svc, codec: codec}
}

// PlaceOrder rests an order without matching.
func (s *Server) PlaceOrder(c fiber.Ctx) error {
	req, side, price, err := s.bindOrder(c)
	if err != nil {
		return s.bindError(c, err)
	}

	view, err := s.svc.Submit(req.ID, side, price, req.Qty)
	if err != nil {
		return s.engineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.orderSchema(view))
}

// MatchOrder executes an incoming order and returns its trades.
func (s *Server) MatchOrder(c fiber.Ctx) error {
	req, side, price, err := s.bindOrder(c)
	if err != nil {
		return s.bindError(c, err)
	}

	trades, err := s.svc.Match(req.ID, side, price, req.Qty)
	if err != nil {
		return s.engineError(c, err)
	}

	out := make([]TradeSchema, 0, len(trades))
	for _, t := range trades {
		out = append(out, TradeSchema{
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Price:       s.codec.FromTicks(t.Price),
			Qty:         t.Qty,
			Time:        t.Time.UnixNano(),
		})
	}
	return c.JSON(fiber.Map{
		"order_id": req.ID,
		"trades":   out,
	})
}

func (s *Server) CancelOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.ErrBadRequest
	}
	if err := s.svc.Cancel(id); err != nil {
		return s.engineError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) ModifyOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.ErrBadRequest
	}

	var req ModifyOrderSchema
	if err := c.Bind().Body(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validateInput(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	price, err := s.codec.ToTicks(req.Price)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	view, err := s.svc.Modify(id, price, req.Qty)
	if err != nil {
		return s.engineError(c, err)
	}
	return c.JSON(s.orderSchema(view))
}

func (s *Server) GetOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.ErrBadRequest
	}
	view, err := s.svc.Status(id)
	if err != nil {
		return s.engineError(c, err)
	}
	return c.JSON(s.orderSchema(view))
}

// GetDepth renders per-price aggregates per side, best first.
func (s *Server) GetDepth(c fiber.Ctx) error {
	levels, err := strconv.Atoi(c.Query("levels", "20"))
	if err != nil || levels < 0 {
		return fiber.ErrBadRequest
	}

	bids, asks := s.svc.Depth(levels)
	return c.JSON(DepthSchema{
		Bids: s.levelSchemas(bids),
		Asks: s.levelSchemas(asks),
	})
}

// GetTicker reports best bid/ask and the spread; empty sides are null.
func (s *Server) GetTicker(c fiber.Ctx) error {
	t := s.svc.Ticker()

	var out TickerSchema
	if t.HasBid {
		v := s.codec.FromTicks(t.Bid)
		out.Bid = &v
	}
	if t.HasAsk {
		v := s.codec.FromTicks(t.Ask)
		out.Ask = &v
	}
	if t.HasSpread {
		v := s.codec.FromTicks(t.Spread)
		out.Spread = &v
	}
	return c.JSON(out)
}

// bindOrder parses, validates, and converts a submit/match body. A
// missing id is filled with a UUID here; the engine never generates
// ids. Validation and scale errors come back for the caller to render.
func (s *Server) bindOrder(c fiber.Ctx) (PlaceOrderSchema, book.Side, int64, error) {
	var req PlaceOrderSchema
	if err := c.Bind().Body(&req); err != nil {
		return req, 0, 0, fiber.ErrBadRequest
	}
	if err := validateInput(&req); err != nil {
		return req, 0, 0, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	price, err := s.codec.ToTicks(req.Price)
	if err != nil {
		return req, 0, 0, err
	}

	side := book.Buy
	if req.Side == "sell" {
		side = book.Sell
	}
	return req, side, price, nil
}

func (s *Server) bindError(c fiber.Ctx, err error) error {
	if errors.Is(err, fiber.ErrBadRequest) {
		return err
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (s *Server) orderSchema(v book.OrderView) OrderSchema {
	return OrderSchema{
		ID:     v.ID,
		Side:   v.Side.String(),
		Price:  s.codec.FromTicks(v.Price),
		Qty:    v.Qty,
		Filled: v.Filled,
		Status: v.Status.String(),
		Seq:    v.SeqID,
	}
}

func (s *Server) levelSchemas(levels []book.LevelView) []LevelSchema {
	out := make([]LevelSchema, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, LevelSchema{
			Price:  s.codec.FromTicks(lvl.Price),
			Qty:    lvl.Qty,
			Orders: lvl.Orders,
		})
	}
	return out
}

func (s *Server) engineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, book.ErrUnknownOrderID):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, book.ErrDuplicateOrderID),
		errors.Is(err, book.ErrAlreadyTerminal):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, book.ErrInvalidQuantity),
		errors.Is(err, book.ErrInvalidPrice):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		return err
	}
}

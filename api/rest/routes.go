package rest

import "github.com/gofiber/fiber/v3"

// InitializeRoutes mounts the order book API under /v1.
func InitializeRoutes(app *fiber.App, s *Server) {
	v1 := app.Group("/v1")

	v1.Post("/orders", s.PlaceOrder)
	v1.Post("/orders/match", s.MatchOrder)
	v1.Post("/orders/:id/cancel", s.CancelOrder)
	v1.Put("/orders/:id", s.ModifyOrder)
	v1.Get("/orders/:id", s.GetOrder)

	v1.Get("/book", s.GetDepth)
	v1.Get("/book/ticker", s.GetTicker)
}

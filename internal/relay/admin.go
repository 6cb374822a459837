package relay

import (
	"context"

	"cotree/internal/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type LogStatus struct {
	Length  int      `json:"length"`
	Pending int      `json:"pending"`
	Hashes  []string `json:"hashes"`
}

// Admin exposes read-only relay state over http.
func (s *Server) Admin() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/log", func(c *fiber.Ctx) error {
		hashes := s.log.Hashes()
		return c.JSON(LogStatus{Length: len(hashes), Pending: s.Pending(), Hashes: hashes})
	})
	return app
}

// ServeAdmin runs the admin endpoint on addr until ctx is done.
func (s *Server) ServeAdmin(ctx context.Context, addr string) error {
	app := s.Admin()
	go func() {
		<-ctx.Done()
		app.Shutdown()
	}()
	logger.Log.Infof("relay admin on %s", addr)
	return app.Listen(addr)
}
